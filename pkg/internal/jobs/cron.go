// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/yeisme/assetvault/pkg/configs"
	ctxPkg "github.com/yeisme/assetvault/pkg/context"
	"github.com/yeisme/assetvault/pkg/internal/service"
	"github.com/yeisme/assetvault/pkg/internal/storage"
	"github.com/yeisme/assetvault/pkg/log"
	"github.com/yeisme/assetvault/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 每天 03:00 物理清除回收站中超过保留期的资产
//   - 每天 04:30 扫描存储桶，清除没有元数据指向的孤儿对象
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	if err := sched.AddCron(JobTrashPurge, CronTrashPurge, func(ctx context.Context) {
		runTrashPurge(ctx)
	}, baseCtx); err != nil {
		return fmt.Errorf("register %s: %w", JobTrashPurge, err)
	}

	if err := sched.AddCron(JobOrphanSweep, CronOrphanSweep, func(ctx context.Context) {
		runOrphanSweep(ctx)
	}, baseCtx); err != nil {
		return fmt.Errorf("register %s: %w", JobOrphanSweep, err)
	}

	return nil
}

// runTrashPurge 清除回收站中软删超过保留天数的资产。
func runTrashPurge(ctx context.Context) {
	l := log.Logger().With().Str("job", JobTrashPurge).Logger()

	retention := configs.GetConfig().Pipeline.TrashRetentionDays
	before := time.Now().AddDate(0, 0, -retention)

	svc := service.NewImageService(ctx)

	resp, err := svc.PurgeTrash(ctx, before)
	if err != nil {
		l.Error().Err(err).Msg("trash purge failed")
		return
	}

	if resp.Purged > 0 {
		l.Info().Int("purged", resp.Purged).Time("before", before).Msg("trash purged")
	}
}

// runOrphanSweep 清除存储中没有元数据指向的孤儿对象。
func runOrphanSweep(ctx context.Context) {
	l := log.Logger().With().Str("job", JobOrphanSweep).Logger()

	svc := service.NewImageService(ctx)

	removed, err := svc.SweepOrphans(ctx)
	if err != nil {
		l.Error().Err(err).Int("removed", removed).Msg("orphan sweep failed")
		return
	}

	if removed > 0 {
		l.Info().Int("removed", removed).Msg("orphan sweep done")
	}
}
