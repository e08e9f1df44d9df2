package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yeisme/assetvault/pkg/internal/model"
	"github.com/yeisme/assetvault/pkg/internal/types"
)

// aggRow 聚合查询的中间行.
type aggRow struct {
	Grp   string `gorm:"column:grp"`
	Count int64
	Size  int64
}

// Stats 统计资产规模：总量、回收站、按实体类型/用途/处理状态聚合.
func (s *ImageService) Stats(ctx context.Context, req *types.AssetStatsRequest) (*types.AssetStatsResponse, error) {
	base := s.dbClient.WithContext(ctx).Model(&model.ImageAsset{})

	if req != nil && req.EntityType != "" {
		et := model.EntityType(req.EntityType)
		if !et.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidEntityType, req.EntityType)
		}

		base = base.Where("entity_type = ?", et)
	}

	if req != nil && req.EntityID != "" {
		base = base.Where("entity_id = ?", req.EntityID)
	}

	resp := &types.AssetStatsResponse{}

	row := struct {
		Count int64
		Size  int64
	}{}

	if err := base.Session(&gorm.Session{}).
		Select("COUNT(*) AS count, COALESCE(SUM(file_size), 0) AS size").
		Scan(&row).Error; err != nil {
		return nil, err
	}

	resp.TotalCount = row.Count
	resp.TotalSize = row.Size

	if err := base.Session(&gorm.Session{}).Unscoped().
		Where("deleted_at IS NOT NULL").
		Count(&resp.TrashCount).Error; err != nil {
		return nil, err
	}

	groupBys := []struct {
		column string
		out    *[]types.GroupCount
	}{
		{"entity_type", &resp.ByEntityType},
		{"purpose", &resp.ByPurpose},
		{"processing_status", &resp.ByStatus},
	}

	for _, g := range groupBys {
		var rows []aggRow

		err := base.Session(&gorm.Session{}).
			Select(g.column + " AS grp, COUNT(*) AS count, COALESCE(SUM(file_size), 0) AS size").
			Group(g.column).
			Order("count DESC").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}

		out := make([]types.GroupCount, 0, len(rows))
		for _, r := range rows {
			out = append(out, types.GroupCount{Key: r.Grp, Count: r.Count, Size: r.Size})
		}

		*g.out = out
	}

	return resp, nil
}
