package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbc "github.com/yeisme/assetvault/pkg/internal/storage/db"
	"github.com/yeisme/assetvault/pkg/internal/model"
	"github.com/yeisme/assetvault/pkg/internal/types"
)

// newTestDBService 构建连内存 SQLite 的服务实例，不依赖对象存储与 MQ.
func newTestDBService(t *testing.T) *ImageService {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}

	// 内存库每条连接各自独立，收紧连接池保证所有操作落在同一个库
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}

	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&model.ImageAsset{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return newImageServiceForTest(nil, &dbc.Client{DB: gdb}, nil)
}

// seedAsset 插入一行测试资产.
func seedAsset(t *testing.T, svc *ImageService, id string, entityType model.EntityType,
	entityID string, order int, primary bool) {
	t.Helper()

	asset := model.ImageAsset{
		ID:               id,
		EntityType:       entityType,
		EntityID:         entityID,
		Purpose:          model.PurposeGallery,
		Filename:         id + ".jpg",
		OriginalFilename: id + "-original.jpg",
		FileSize:         1000,
		MimeType:         "image/jpeg",
		StorageBucket:    "assetvault",
		StoragePath:      "catalog-items/" + entityID + "/gallery/" + id + ".jpg",
		IsPrimary:        primary,
		DisplayOrder:     order,
		ProcessingStatus: model.StatusCompleted,
	}

	if err := svc.dbClient.Create(&asset).Error; err != nil {
		t.Fatalf("seed asset %s: %v", id, err)
	}
}

// TestListImagesOrdering 展示顺序是唯一排序键，主图不插队.
func TestListImagesOrdering(t *testing.T) {
	svc := newTestDBService(t)
	ctx := context.Background()

	seedAsset(t, svc, "01AAAAAAAAAAAAAAAAAAAAAAA1", model.EntityCatalogItem, "42", 2, false)
	seedAsset(t, svc, "01AAAAAAAAAAAAAAAAAAAAAAA2", model.EntityCatalogItem, "42", 0, false)
	seedAsset(t, svc, "01AAAAAAAAAAAAAAAAAAAAAAA3", model.EntityCatalogItem, "42", 5, true)

	resp, err := svc.ListImages(ctx, "catalog_item", "42", nil)
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}

	if resp.Total != 3 {
		t.Fatalf("Expected 3 images, got %d", resp.Total)
	}

	// 主图虽设在展示顺序 5，仍然排最后
	want := []string{
		"01AAAAAAAAAAAAAAAAAAAAAAA2",
		"01AAAAAAAAAAAAAAAAAAAAAAA1",
		"01AAAAAAAAAAAAAAAAAAAAAAA3",
	}
	for i, id := range want {
		if resp.Images[i].AssetID != id {
			t.Errorf("Expected %s at position %d, got %s", id, i, resp.Images[i].AssetID)
		}
	}

	if !resp.Images[2].IsPrimary {
		t.Error("Expected primary flag preserved on last image")
	}
}

// TestListImagesInvalidEntityType 未知实体类型报错.
func TestListImagesInvalidEntityType(t *testing.T) {
	svc := newTestDBService(t)

	if _, err := svc.ListImages(context.Background(), "spaceship", "1", nil); !errors.Is(err, ErrInvalidEntityType) {
		t.Errorf("Expected ErrInvalidEntityType, got %v", err)
	}
}

// TestReorder 批量更新展示顺序，未提及的资产不动.
func TestReorder(t *testing.T) {
	svc := newTestDBService(t)
	ctx := context.Background()

	seedAsset(t, svc, "01BBBBBBBBBBBBBBBBBBBBBBB1", model.EntityOrder, "7", 0, false)
	seedAsset(t, svc, "01BBBBBBBBBBBBBBBBBBBBBBB2", model.EntityOrder, "7", 1, false)
	seedAsset(t, svc, "01BBBBBBBBBBBBBBBBBBBBBBB3", model.EntityOrder, "7", 2, false)

	resp, err := svc.Reorder(ctx, "order", "7", &types.ReorderImagesRequest{
		Items: []types.ReorderItem{
			{AssetID: "01BBBBBBBBBBBBBBBBBBBBBBB1", Order: 2},
			{AssetID: "01BBBBBBBBBBBBBBBBBBBBBBB3", Order: 0},
		},
	})
	if err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	if resp.Successful != 2 || resp.Failed != 0 {
		t.Errorf("Expected 2 successful and 0 failed, got %d/%d", resp.Successful, resp.Failed)
	}

	list, err := svc.ListImages(ctx, "order", "7", nil)
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}

	if list.Images[0].AssetID != "01BBBBBBBBBBBBBBBBBBBBBBB3" {
		t.Errorf("Expected reordered first image, got %s", list.Images[0].AssetID)
	}
}

// TestReorderPartialSuccess 未知资产只让该项失败，其余项照常生效.
func TestReorderPartialSuccess(t *testing.T) {
	svc := newTestDBService(t)
	ctx := context.Background()

	seedAsset(t, svc, "01CCCCCCCCCCCCCCCCCCCCCCC1", model.EntityOrder, "8", 0, false)

	resp, err := svc.Reorder(ctx, "order", "8", &types.ReorderImagesRequest{
		Items: []types.ReorderItem{
			{AssetID: "01CCCCCCCCCCCCCCCCCCCCCCC1", Order: 9},
			{AssetID: "01MISSINGMISSINGMISSINGMI1", Order: 1},
		},
	})
	if err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	if resp.Successful != 1 || resp.Failed != 1 {
		t.Fatalf("Expected 1 successful and 1 failed, got %d/%d", resp.Successful, resp.Failed)
	}

	if resp.Results[0].Success != true || resp.Results[1].Success != false {
		t.Errorf("Expected per-item results [true, false], got %+v", resp.Results)
	}

	if resp.Results[1].Error == "" {
		t.Error("Expected error message on failed item")
	}

	var asset model.ImageAsset
	if err := svc.dbClient.First(&asset, "id = ?", "01CCCCCCCCCCCCCCCCCCCCCCC1").Error; err != nil {
		t.Fatalf("load asset: %v", err)
	}

	if asset.DisplayOrder != 9 {
		t.Errorf("Expected display order 9 on succeeded item, got %d", asset.DisplayOrder)
	}
}

// TestSetPrimary 主图切换且同实体唯一.
func TestSetPrimary(t *testing.T) {
	svc := newTestDBService(t)
	ctx := context.Background()

	seedAsset(t, svc, "01DDDDDDDDDDDDDDDDDDDDDDD1", model.EntityCatalogItem, "9", 0, true)
	seedAsset(t, svc, "01DDDDDDDDDDDDDDDDDDDDDDD2", model.EntityCatalogItem, "9", 1, false)

	resp, err := svc.SetPrimary(ctx, "catalog_item", "9", "01DDDDDDDDDDDDDDDDDDDDDDD2")
	if err != nil {
		t.Fatalf("SetPrimary failed: %v", err)
	}

	if resp.PrevAssetID != "01DDDDDDDDDDDDDDDDDDDDDDD1" {
		t.Errorf("Expected previous primary recorded, got %q", resp.PrevAssetID)
	}

	var primaries []model.ImageAsset
	if err := svc.dbClient.
		Where("entity_type = ? AND entity_id = ? AND is_primary = ?", model.EntityCatalogItem, "9", true).
		Find(&primaries).Error; err != nil {
		t.Fatalf("query primaries: %v", err)
	}

	if len(primaries) != 1 || primaries[0].ID != "01DDDDDDDDDDDDDDDDDDDDDDD2" {
		t.Errorf("Expected exactly one primary (the new one), got %d", len(primaries))
	}

	// 把已是主图的资产再设一次，prev 为空
	again, err := svc.SetPrimary(ctx, "catalog_item", "9", "01DDDDDDDDDDDDDDDDDDDDDDD2")
	if err != nil {
		t.Fatalf("SetPrimary again failed: %v", err)
	}

	if again.PrevAssetID != "" {
		t.Errorf("Expected empty prev when re-setting same primary, got %q", again.PrevAssetID)
	}
}

// TestSetPrimaryConcurrent 同实体并发切换主图，终态恒为恰好一个主图.
func TestSetPrimaryConcurrent(t *testing.T) {
	svc := newTestDBService(t)
	ctx := context.Background()

	ids := []string{
		"01EEEEEEEEEEEEEEEEEEEEEEE1",
		"01EEEEEEEEEEEEEEEEEEEEEEE2",
		"01EEEEEEEEEEEEEEEEEEEEEEE3",
	}
	for i, id := range ids {
		seedAsset(t, svc, id, model.EntityCatalogItem, "77", i, false)
	}

	var wg sync.WaitGroup

	for _, id := range ids {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if _, err := svc.SetPrimary(ctx, "catalog_item", "77", id); err != nil {
				t.Errorf("SetPrimary %s failed: %v", id, err)
			}
		}()
	}

	wg.Wait()

	var primaries []model.ImageAsset
	if err := svc.dbClient.
		Where("entity_type = ? AND entity_id = ? AND is_primary = ?", model.EntityCatalogItem, "77", true).
		Find(&primaries).Error; err != nil {
		t.Fatalf("query primaries: %v", err)
	}

	if len(primaries) != 1 {
		t.Errorf("Expected exactly one primary after concurrent updates, got %d", len(primaries))
	}
}

// TestSetPrimaryNotFound 目标不属于该实体时报错.
func TestSetPrimaryNotFound(t *testing.T) {
	svc := newTestDBService(t)
	ctx := context.Background()

	seedAsset(t, svc, "01EEEEEEEEEEEEEEEEEEEEEEE1", model.EntityCatalogItem, "10", 0, false)

	// 资产存在但属于别的实体
	_, err := svc.SetPrimary(ctx, "catalog_item", "11", "01EEEEEEEEEEEEEEEEEEEEEEE1")
	if !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("Expected ErrAssetNotFound, got %v", err)
	}
}

// TestSoftDeleteAndRestore 软删进回收站后可恢复，重复操作各自报错.
func TestSoftDeleteAndRestore(t *testing.T) {
	svc := newTestDBService(t)
	ctx := context.Background()

	seedAsset(t, svc, "01FFFFFFFFFFFFFFFFFFFFFFF1", model.EntityOrder, "12", 0, false)

	resp, err := svc.DeleteImage(ctx, "order", "12", "01FFFFFFFFFFFFFFFFFFFFFFF1", false)
	if err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	if resp.Hard {
		t.Error("Expected soft delete response")
	}

	// 活跃列表不再包含
	list, err := svc.ListImages(ctx, "order", "12", nil)
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}

	if list.Total != 0 {
		t.Errorf("Expected empty active list after soft delete, got %d", list.Total)
	}

	// 回收站包含
	trash, err := svc.ListTrash(ctx, "order", "12")
	if err != nil {
		t.Fatalf("ListTrash failed: %v", err)
	}

	if trash.Total != 1 {
		t.Fatalf("Expected 1 trashed asset, got %d", trash.Total)
	}

	// 已在回收站的资产重复软删报错
	if _, err := svc.DeleteImage(ctx, "order", "12", "01FFFFFFFFFFFFFFFFFFFFFFF1", false); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("Expected ErrAssetNotFound for double soft delete, got %v", err)
	}

	// 恢复
	if _, err := svc.RestoreImage(ctx, "01FFFFFFFFFFFFFFFFFFFFFFF1"); err != nil {
		t.Fatalf("RestoreImage failed: %v", err)
	}

	list, err = svc.ListImages(ctx, "order", "12", nil)
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}

	if list.Total != 1 {
		t.Errorf("Expected restored asset in active list, got %d", list.Total)
	}

	// 不在回收站时恢复报错
	if _, err := svc.RestoreImage(ctx, "01FFFFFFFFFFFFFFFFFFFFFFF1"); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("Expected ErrAssetNotFound for double restore, got %v", err)
	}
}

// TestGetAssetExcludesTrashed 默认查询不返回回收站资产.
func TestGetAssetExcludesTrashed(t *testing.T) {
	svc := newTestDBService(t)
	ctx := context.Background()

	seedAsset(t, svc, "01GGGGGGGGGGGGGGGGGGGGGGG1", model.EntityOrder, "13", 0, false)

	if _, err := svc.GetAsset(ctx, "01GGGGGGGGGGGGGGGGGGGGGGG1"); err != nil {
		t.Fatalf("GetAsset failed: %v", err)
	}

	if _, err := svc.DeleteImage(ctx, "order", "13", "01GGGGGGGGGGGGGGGGGGGGGGG1", false); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	if _, err := svc.GetAsset(ctx, "01GGGGGGGGGGGGGGGGGGGGGGG1"); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("Expected ErrAssetNotFound for trashed asset, got %v", err)
	}
}

// TestStats 统计总量、回收站与分组聚合.
func TestStats(t *testing.T) {
	svc := newTestDBService(t)
	ctx := context.Background()

	seedAsset(t, svc, "01HHHHHHHHHHHHHHHHHHHHHHH1", model.EntityCatalogItem, "20", 0, true)
	seedAsset(t, svc, "01HHHHHHHHHHHHHHHHHHHHHHH2", model.EntityCatalogItem, "20", 1, false)
	seedAsset(t, svc, "01HHHHHHHHHHHHHHHHHHHHHHH3", model.EntityOrder, "21", 0, false)

	if _, err := svc.DeleteImage(ctx, "order", "21", "01HHHHHHHHHHHHHHHHHHHHHHH3", false); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	resp, err := svc.Stats(ctx, nil)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	// 软删行不计入活跃总量
	if resp.TotalCount != 2 {
		t.Errorf("Expected 2 active assets, got %d", resp.TotalCount)
	}

	if resp.TotalSize != 2000 {
		t.Errorf("Expected total size 2000, got %d", resp.TotalSize)
	}

	if resp.TrashCount != 1 {
		t.Errorf("Expected 1 trashed asset, got %d", resp.TrashCount)
	}

	if len(resp.ByEntityType) != 1 || resp.ByEntityType[0].Key != "catalog_item" {
		t.Errorf("Expected catalog_item group, got %+v", resp.ByEntityType)
	}

	// 按实体过滤
	filtered, err := svc.Stats(ctx, &types.AssetStatsRequest{EntityType: "catalog_item", EntityID: "20"})
	if err != nil {
		t.Fatalf("filtered Stats failed: %v", err)
	}

	if filtered.TotalCount != 2 {
		t.Errorf("Expected 2 assets for entity filter, got %d", filtered.TotalCount)
	}
}

// TestPurgeTrash 只清除超过保留期的软删行.
func TestPurgeTrash(t *testing.T) {
	svc := newTestDBService(t)
	ctx := context.Background()

	seedAsset(t, svc, "01IIIIIIIIIIIIIIIIIIIIIII1", model.EntityOrder, "30", 0, false)

	if _, err := svc.DeleteImage(ctx, "order", "30", "01IIIIIIIIIIIIIIIIIIIIIII1", false); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	// 保留期截止在删除之前，不应清除任何行
	resp, err := svc.PurgeTrash(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("PurgeTrash failed: %v", err)
	}

	if resp.Purged != 0 {
		t.Errorf("Expected nothing purged before retention cutoff, got %d", resp.Purged)
	}

	trash, err := svc.ListTrash(ctx, "", "")
	if err != nil {
		t.Fatalf("ListTrash failed: %v", err)
	}

	if trash.Total != 1 {
		t.Errorf("Expected trashed asset untouched, got %d", trash.Total)
	}
}
