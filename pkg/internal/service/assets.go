package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"gorm.io/gorm"

	"github.com/yeisme/assetvault/pkg/configs"
	"github.com/yeisme/assetvault/pkg/internal/model"
	"github.com/yeisme/assetvault/pkg/internal/types"
	nlog "github.com/yeisme/assetvault/pkg/log"
	"github.com/yeisme/assetvault/pkg/queue"
)

// ErrAssetNotFound 资产不存在或已删除.
var ErrAssetNotFound = errors.New("asset not found")

// primaryLocks 按 (entity_type, entity_id) 串行化主图切换，保证同实体至多一个主图.
var primaryLocks sync.Map

func primaryLock(entityType, entityID string) *sync.Mutex {
	key := entityType + "\x00" + entityID
	mu, _ := primaryLocks.LoadOrStore(key, &sync.Mutex{})

	return mu.(*sync.Mutex)
}

// GetAsset 按 ID 查询活跃资产.
func (s *ImageService) GetAsset(ctx context.Context, assetID string) (*model.ImageAsset, error) {
	var asset model.ImageAsset

	err := s.dbClient.WithContext(ctx).First(&asset, "id = ?", assetID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, assetID)
	}

	if err != nil {
		return nil, err
	}

	return &asset, nil
}

// ListImages 查询实体的活跃图片，按展示顺序与创建时间排列.
func (s *ImageService) ListImages(ctx context.Context, entityType, entityID string,
	req *types.ListImagesRequest) (*types.ListImagesResponse, error) {
	et := model.EntityType(entityType)
	if !et.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEntityType, entityType)
	}

	q := s.dbClient.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", et, entityID)

	if req != nil && req.Purpose != "" {
		purpose := model.ImagePurpose(req.Purpose)
		if !purpose.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPurpose, req.Purpose)
		}

		q = q.Where("purpose = ?", purpose)
	}

	var assets []model.ImageAsset
	if err := q.Order("display_order ASC, created_at ASC").Find(&assets).Error; err != nil {
		return nil, err
	}

	images := make([]types.ImageInfo, 0, len(assets))
	for i := range assets {
		images = append(images, toImageInfo(&assets[i]))
	}

	return &types.ListImagesResponse{Images: images, Total: len(images)}, nil
}

// Reorder 批量更新展示顺序，逐项独立执行，单项失败不影响其余项.
// 未提及的资产保持原顺序.
func (s *ImageService) Reorder(ctx context.Context, entityType, entityID string,
	req *types.ReorderImagesRequest) (*types.ReorderImagesResponse, error) {
	et := model.EntityType(entityType)
	if !et.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEntityType, entityType)
	}

	resp := &types.ReorderImagesResponse{
		Results: make([]types.ReorderResult, 0, len(req.Items)),
		Total:   len(req.Items),
	}
	updatedIDs := make([]string, 0, len(req.Items))

	for _, item := range req.Items {
		result := types.ReorderResult{AssetID: item.AssetID, Order: item.Order}

		res := s.dbClient.WithContext(ctx).Model(&model.ImageAsset{}).
			Where("id = ? AND entity_type = ? AND entity_id = ?", item.AssetID, et, entityID).
			Update("display_order", item.Order)

		switch {
		case res.Error != nil:
			result.Error = res.Error.Error()
			resp.Failed++
		case res.RowsAffected == 0:
			result.Error = fmt.Sprintf("%v: %s", ErrAssetNotFound, item.AssetID)
			resp.Failed++
		default:
			result.Success = true
			resp.Successful++
			updatedIDs = append(updatedIDs, item.AssetID)
		}

		resp.Results = append(resp.Results, result)
	}

	if len(updatedIDs) > 0 {
		s.publishEvent(queue.TopicAssetReorder, func(pub message.Publisher) error {
			return queue.PublishAssetReorder(pub, queue.AssetReorderPayload{
				EntityType: entityType,
				EntityID:   entityID,
				AssetIDs:   updatedIDs,
			}, queue.WithProducer(configs.AppName))
		})
	}

	return resp, nil
}

// SetPrimary 将指定资产设为实体主图，同实体下其余主图标记清除.
// 同一实体的并发调用被串行化，终态恒为恰好一个主图.
func (s *ImageService) SetPrimary(ctx context.Context, entityType, entityID, assetID string) (*types.SetPrimaryResponse, error) {
	et := model.EntityType(entityType)
	if !et.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEntityType, entityType)
	}

	mu := primaryLock(entityType, entityID)
	mu.Lock()
	defer mu.Unlock()

	var prevID string

	err := s.dbClient.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 目标必须是该实体下的活跃资产
		var target model.ImageAsset
		if err := tx.Where("id = ? AND entity_type = ? AND entity_id = ?", assetID, et, entityID).
			First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrAssetNotFound, assetID)
			}

			return err
		}

		var prev model.ImageAsset
		if err := tx.Where("entity_type = ? AND entity_id = ? AND is_primary = ?", et, entityID, true).
			First(&prev).Error; err == nil {
			prevID = prev.ID
		}

		if err := tx.Model(&model.ImageAsset{}).
			Where("entity_type = ? AND entity_id = ? AND is_primary = ?", et, entityID, true).
			Update("is_primary", false).Error; err != nil {
			return err
		}

		return tx.Model(&model.ImageAsset{}).
			Where("id = ?", assetID).
			Update("is_primary", true).Error
	})
	if err != nil {
		return nil, err
	}

	if prevID == assetID {
		prevID = ""
	}

	s.publishEvent(queue.TopicAssetPrimary, func(pub message.Publisher) error {
		return queue.PublishAssetPrimary(pub, queue.AssetPrimaryPayload{
			EntityType:  entityType,
			EntityID:    entityID,
			AssetID:     assetID,
			PrevAssetID: prevID,
		}, queue.WithProducer(configs.AppName))
	})

	return &types.SetPrimaryResponse{AssetID: assetID, PrevAssetID: prevID}, nil
}

// DeleteImage 删除资产. hard 为 false 时软删进回收站，为 true 时移除存储对象并物理删除元数据.
// 硬删时存储清理失败则保留元数据行返回错误，调用方可安全重试.
func (s *ImageService) DeleteImage(ctx context.Context, entityType, entityID, assetID string, hard bool) (*types.DeleteImageResponse, error) {
	et := model.EntityType(entityType)
	if !et.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEntityType, entityType)
	}

	var asset model.ImageAsset

	err := s.dbClient.WithContext(ctx).Unscoped().
		Where("id = ? AND entity_type = ? AND entity_id = ?", assetID, et, entityID).
		First(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, assetID)
	}

	if err != nil {
		return nil, err
	}

	if !hard {
		if asset.DeletedAt.Valid {
			return nil, fmt.Errorf("%w: %s already in trash", ErrAssetNotFound, assetID)
		}

		if err := s.dbClient.WithContext(ctx).Delete(&asset).Error; err != nil {
			return nil, err
		}

		s.publishDeleted(&asset, false, nil)

		return &types.DeleteImageResponse{AssetID: assetID, Hard: false}, nil
	}

	removed, err := s.removeAssetObjects(ctx, &asset)
	if err != nil {
		return nil, fmt.Errorf("remove storage objects: %w", err)
	}

	if err := s.dbClient.WithContext(ctx).Unscoped().Delete(&asset).Error; err != nil {
		return nil, err
	}

	s.publishDeleted(&asset, true, removed)

	return &types.DeleteImageResponse{AssetID: assetID, Hard: true, RemovedKeys: removed}, nil
}

// removeAssetObjects 删除资产的原图与全部变体对象，返回实际移除的键.
func (s *ImageService) removeAssetObjects(ctx context.Context, asset *model.ImageAsset) ([]string, error) {
	keys := []string{asset.StoragePath}

	variants, err := asset.Variants()
	if err != nil {
		return nil, fmt.Errorf("decode variants: %w", err)
	}

	for _, v := range variants {
		keys = append(keys, v.ObjectKey)
	}

	removed, err := s.s3Client.RemoveBatch(ctx, asset.StorageBucket, keys)
	if err != nil {
		return removed, err
	}

	return removed, nil
}

// RestoreImage 从回收站恢复资产.
func (s *ImageService) RestoreImage(ctx context.Context, assetID string) (*types.RestoreImageResponse, error) {
	res := s.dbClient.WithContext(ctx).Unscoped().
		Model(&model.ImageAsset{}).
		Where("id = ? AND deleted_at IS NOT NULL", assetID).
		Update("deleted_at", nil)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: %s not in trash", ErrAssetNotFound, assetID)
	}

	return &types.RestoreImageResponse{AssetID: assetID}, nil
}

// ListTrash 列出回收站中的资产.
func (s *ImageService) ListTrash(ctx context.Context, entityType, entityID string) (*types.ListTrashResponse, error) {
	q := s.dbClient.WithContext(ctx).Unscoped().Where("deleted_at IS NOT NULL")

	if entityType != "" {
		et := model.EntityType(entityType)
		if !et.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidEntityType, entityType)
		}

		q = q.Where("entity_type = ?", et)
	}

	if entityID != "" {
		q = q.Where("entity_id = ?", entityID)
	}

	var assets []model.ImageAsset
	if err := q.Order("deleted_at DESC").Find(&assets).Error; err != nil {
		return nil, err
	}

	images := make([]types.ImageInfo, 0, len(assets))
	for i := range assets {
		images = append(images, toImageInfo(&assets[i]))
	}

	return &types.ListTrashResponse{Images: images, Total: len(images)}, nil
}

// PurgeTrash 物理清除回收站中软删时间早于 before 的资产.
// 存储清理失败的行保留到下次运行，保证最终清干净.
func (s *ImageService) PurgeTrash(ctx context.Context, before time.Time) (*types.EmptyTrashResponse, error) {
	var assets []model.ImageAsset

	err := s.dbClient.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", before).
		Find(&assets).Error
	if err != nil {
		return nil, err
	}

	resp := &types.EmptyTrashResponse{}
	purgedIDs := make([]string, 0, len(assets))

	for i := range assets {
		asset := &assets[i]

		if _, e := s.removeAssetObjects(ctx, asset); e != nil {
			nlog.Logger().Warn().Err(e).Str("asset_id", asset.ID).Msg("trash purge: storage cleanup failed, will retry")
			continue
		}

		if e := s.dbClient.WithContext(ctx).Unscoped().Delete(asset).Error; e != nil {
			nlog.Logger().Warn().Err(e).Str("asset_id", asset.ID).Msg("trash purge: metadata delete failed")
			continue
		}

		resp.Purged++

		purgedIDs = append(purgedIDs, asset.ID)
	}

	if resp.Purged > 0 {
		s.publishEvent(queue.TopicTrashPurged, func(pub message.Publisher) error {
			return queue.PublishTrashPurged(pub, queue.TrashPurgedPayload{
				PurgedAssetIDs: purgedIDs,
				RetentionDays:  configs.GetConfig().Pipeline.TrashRetentionDays,
			}, queue.WithProducer(configs.AppName))
		})
	}

	return resp, nil
}

// publishDeleted 发布删除事件.
func (s *ImageService) publishDeleted(asset *model.ImageAsset, hard bool, removedKeys []string) {
	s.publishEvent(queue.TopicAssetDeleted, func(pub message.Publisher) error {
		return queue.PublishAssetDeleted(pub, queue.AssetDeletedPayload{
			Asset: queue.AssetRef{
				AssetID:   asset.ID,
				Bucket:    asset.StorageBucket,
				ObjectKey: asset.StoragePath,
				Size:      asset.FileSize,
			},
			EntityType:  string(asset.EntityType),
			EntityID:    asset.EntityID,
			Hard:        hard,
			RemovedKeys: removedKeys,
		}, queue.WithProducer(configs.AppName))
	})
}

// publishEvent 通用事件发布，MQ 未启用时退化为日志. publish 收到的是底层 Publisher.
func (s *ImageService) publishEvent(topic string, publish func(pub message.Publisher) error) {
	if s.mqClient == nil {
		nlog.Logger().Debug().Str("topic", topic).Msg("mq disabled, skip event")
		return
	}

	if err := publish(s.mqClient.Publisher()); err != nil {
		nlog.Logger().Warn().Err(err).Str("topic", topic).Msg("publish event failed")
	}
}

// toImageInfo 将模型行转换为对外视图.
func toImageInfo(asset *model.ImageAsset) types.ImageInfo {
	variants := map[string]types.VariantResult{}

	if vs, err := asset.Variants(); err == nil {
		for name, v := range vs {
			variants[name] = types.VariantResult{
				ObjectKey: v.ObjectKey,
				URL:       v.URL,
				Size:      v.Size,
				Width:     v.Width,
				Height:    v.Height,
			}
		}
	}

	info := types.ImageInfo{
		AssetID:          asset.ID,
		EntityType:       string(asset.EntityType),
		EntityID:         asset.EntityID,
		Purpose:          string(asset.Purpose),
		Bucket:           asset.StorageBucket,
		ObjectKey:        asset.StoragePath,
		PublicURL:        asset.PublicURL,
		FileName:         asset.Filename,
		OriginalFileName: asset.OriginalFilename,
		Size:             asset.FileSize,
		Width:            asset.ImageWidth,
		Height:           asset.ImageHeight,
		ContentType:      asset.MimeType,
		IsPrimary:        asset.IsPrimary,
		DisplayOrder:     asset.DisplayOrder,
		ProcessingStatus: string(asset.ProcessingStatus),
		AltText:          asset.AltText,
		Caption:          asset.Caption,
		Variants:         variants,
		CreatedAt:        asset.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        asset.UpdatedAt.Format(time.RFC3339),
	}

	if asset.DeletedAt.Valid {
		info.DeletedAt = asset.DeletedAt.Time.Format(time.RFC3339)
	}

	return info
}
