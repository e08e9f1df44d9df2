package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yeisme/assetvault/pkg/configs"
	ctxPkg "github.com/yeisme/assetvault/pkg/context"
	"github.com/yeisme/assetvault/pkg/internal/service"
	"github.com/yeisme/assetvault/pkg/internal/storage"
)

// adminContext 初始化配置与存储依赖, 返回携带 storage manager 的上下文.
func adminContext() (context.Context, error) {
	if err := configs.InitConfig(configPath); err != nil {
		return nil, err
	}

	ctx := context.Background()

	mgr, err := storage.Init(ctx)
	if err != nil {
		return nil, err
	}

	return ctxPkg.WithStorageManager(ctx, mgr), nil
}

var (
	adminCmd = &cobra.Command{
		Use:   "admin",
		Short: "Maintenance commands normally run by the scheduler",
	}

	purgeTrashCmd = &cobra.Command{
		Use:   "purge-trash",
		Short: "permanently delete trashed assets past the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := adminContext()
			if err != nil {
				return err
			}

			retention := configs.GetConfig().Pipeline.TrashRetentionDays
			before := time.Now().AddDate(0, 0, -retention)

			resp, err := service.NewImageService(ctx).PurgeTrash(ctx, before)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "purged %d assets (deleted before %s)\n", resp.Purged, before.Format(time.RFC3339))

			return nil
		},
	}

	sweepOrphansCmd = &cobra.Command{
		Use:   "sweep-orphans",
		Short: "remove storage objects with no metadata row",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := adminContext()
			if err != nil {
				return err
			}

			removed, err := service.NewImageService(ctx).SweepOrphans(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "removed %d orphaned objects\n", removed)

			return nil
		},
	}
)

// registerAdminCommands 注册运维相关命令.
func registerAdminCommands() {
	rootCmd.AddCommand(adminCmd)

	adminCmd.AddCommand(purgeTrashCmd)
	adminCmd.AddCommand(sweepOrphansCmd)
}
