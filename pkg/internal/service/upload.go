package service

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid"
	"golang.org/x/sync/errgroup"

	"github.com/yeisme/assetvault/pkg/configs"
	"github.com/yeisme/assetvault/pkg/internal/model"
	s3c "github.com/yeisme/assetvault/pkg/internal/storage/s3"
	"github.com/yeisme/assetvault/pkg/internal/types"
	nlog "github.com/yeisme/assetvault/pkg/log"
	"github.com/yeisme/assetvault/pkg/metrics"
	"github.com/yeisme/assetvault/pkg/queue"
)

var (
	ulidEntropy = ulid.Monotonic(crand.Reader, 0)
	ulidMu      sync.Mutex
)

// newAssetID 生成按时间有序的 ULID 主键.
func newAssetID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// publicPurpose 判断用途是否落公共桶. Logo 类资源允许匿名读取，直出公共 URL.
func publicPurpose(p model.ImagePurpose) bool {
	return p == model.PurposeLogo
}

// defaultPurpose 未指定用途时按实体类型推断.
func defaultPurpose(entityType model.EntityType) model.ImagePurpose {
	switch entityType {
	case model.EntityUserProfile, model.EntityCustomer:
		return model.PurposeProfile
	case model.EntityOrganization, model.EntityManufacturer:
		return model.PurposeLogo
	default:
		return model.PurposeGallery
	}
}

// UploadImage 执行完整上传管道：校验 → 变体生成 → 写入存储 → 元数据入库 → 事件.
//
// 失败语义：
//   - 校验失败：整体拒绝，什么都不写
//   - 单个变体失败：继续，失败原因进 Warnings，原图照常入库
//   - 元数据入库失败：补偿删除已写入的存储对象；补偿也失败时记孤儿并发事件
func (s *ImageService) UploadImage(ctx context.Context, entityType, entityID, fileName string,
	data []byte, meta *types.UploadImageMetadata) (*types.UploadImageResponse, error) {
	et := model.EntityType(entityType)
	if !et.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEntityType, entityType)
	}

	if entityID == "" {
		return nil, fmt.Errorf("entity id is required")
	}

	purpose := defaultPurpose(et)
	if meta != nil && meta.Purpose != "" {
		purpose = model.ImagePurpose(meta.Purpose)
		if !purpose.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPurpose, meta.Purpose)
		}
	}

	validated, err := s.ValidateUpload(data, purpose)
	if err != nil {
		metrics.UploadCounter.WithLabelValues("rejected").Inc()
		return nil, err
	}

	if meta != nil && meta.FileName != "" {
		fileName = meta.FileName
	}

	cfg := s.s3Client.GetConfig()

	bucket := cfg.Bucket
	public := publicPurpose(purpose) && cfg.PublicBucket != ""

	if public {
		bucket = cfg.PublicBucket
	}

	originalKey := buildObjectKey(et, entityID, purpose, validated.Ext)

	// 生成变体（仅位图）
	var (
		generated []GeneratedVariant
		warnings  []string
	)

	if validated.Raster {
		generated, warnings, err = s.GenerateVariants(validated.Data)
		if err != nil {
			// 变体全部不可用，原图仍然入库
			warnings = append(warnings, fmt.Sprintf("variants: %v", err))
		}

		for _, w := range warnings {
			name, _, _ := strings.Cut(w, ":")
			metrics.VariantFailureCounter.WithLabelValues(strings.TrimSpace(name), "generate").Inc()
		}
	}

	// 写入原图
	uploadedKeys := make([]string, 0, len(generated)+1)

	info, err := s.s3Client.Put(ctx, bucket, originalKey, bytes.NewReader(validated.Data),
		int64(len(validated.Data)), s3c.PutOptions{
			ContentType:  validated.MIME,
			UserMetadata: map[string]string{"original-filename": fileName},
		})
	if err != nil {
		metrics.UploadCounter.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("store original: %w", err)
	}

	uploadedKeys = append(uploadedKeys, originalKey)

	// 并发写入变体，单个失败不中断
	var (
		variantMu    sync.Mutex
		variantInfos = map[string]model.VariantInfo{}
		vg           errgroup.Group
	)

	for _, v := range generated {
		vg.Go(func() error {
			vKey := variantObjectKey(originalKey, v.Name)

			if _, e := s.s3Client.Put(ctx, bucket, vKey, bytes.NewReader(v.Data),
				int64(len(v.Data)), s3c.PutOptions{ContentType: "image/jpeg"}); e != nil {
				metrics.VariantFailureCounter.WithLabelValues(v.Name, "store").Inc()

				variantMu.Lock()
				warnings = append(warnings, fmt.Sprintf("%s: %v", v.Name, e))
				variantMu.Unlock()

				return nil
			}

			variantMu.Lock()
			uploadedKeys = append(uploadedKeys, vKey)
			variantInfos[v.Name] = model.VariantInfo{
				ObjectKey: vKey,
				Size:      int64(len(v.Data)),
				Width:     v.Width,
				Height:    v.Height,
			}
			variantMu.Unlock()

			return nil
		})
	}

	_ = vg.Wait()

	// 组装元数据行
	status := model.StatusCompleted
	if validated.Raster && len(variantInfos) == 0 {
		status = model.StatusFailed
	}

	asset := &model.ImageAsset{
		ID:               newAssetID(),
		EntityType:       et,
		EntityID:         entityID,
		Purpose:          purpose,
		Filename:         storageFilename(originalKey),
		OriginalFilename: fileName,
		FileSize:         int64(len(validated.Data)),
		MimeType:         validated.MIME,
		ImageWidth:       validated.Width,
		ImageHeight:      validated.Height,
		StorageBucket:    bucket,
		StoragePath:      originalKey,
		ProcessingStatus: status,
	}

	if public {
		asset.PublicURL = s.s3Client.PublicURL(bucket, originalKey)
	}

	if meta != nil {
		asset.AltText = meta.AltText
		asset.Caption = meta.Caption
		asset.DisplayOrder = meta.DisplayOrder
	}

	if err := asset.SetVariants(variantInfos); err != nil {
		return nil, fmt.Errorf("encode variants: %w", err)
	}

	if len(warnings) > 0 {
		_ = asset.SetMetadata(map[string]string{"warnings": strings.Join(warnings, "; ")})
	}

	if err := s.dbClient.WithContext(ctx).Create(asset).Error; err != nil {
		// 补偿：元数据没写进去，存储对象不能留下
		s.compensateStorage(ctx, bucket, uploadedKeys, err)
		metrics.UploadCounter.WithLabelValues("failed").Inc()

		return nil, fmt.Errorf("persist asset metadata: %w", err)
	}

	if meta != nil && meta.IsPrimary {
		if _, e := s.SetPrimary(ctx, entityType, entityID, asset.ID); e != nil {
			warnings = append(warnings, fmt.Sprintf("set_primary: %v", e))
		} else {
			asset.IsPrimary = true
		}
	}

	terminal := "completed"

	switch {
	case status == model.StatusFailed:
		terminal = "failed"
	case len(warnings) > 0:
		terminal = "completed_with_warnings"
	}

	metrics.UploadCounter.WithLabelValues(terminal).Inc()

	s.publishStored(ctx, asset, info.ETag, variantInfos, warnings)

	return s.buildUploadResponse(asset, variantInfos, warnings), nil
}

// UploadImages 批量上传，逐个文件独立执行，单个失败不影响其余文件.
// is_primary 等元数据对整批生效时由调用方按文件名拆分到 metas.
func (s *ImageService) UploadImages(ctx context.Context, entityType, entityID string,
	files map[string][]byte, metas map[string]*types.UploadImageMetadata) (*types.BatchUploadResponse, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files provided")
	}

	resp := &types.BatchUploadResponse{
		Results: make([]types.BatchUploadResult, 0, len(files)),
		Total:   len(files),
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		result := types.BatchUploadResult{FileName: name}

		uploaded, err := s.UploadImage(ctx, entityType, entityID, name, files[name], metas[name])
		if err != nil {
			result.Error = err.Error()
			resp.Failed++
		} else {
			result.Success = true
			result.Image = uploaded
			resp.Successful++
		}

		resp.Results = append(resp.Results, result)
	}

	return resp, nil
}

// compensateStorage 元数据入库失败后回收已写入的存储对象.
// 回收失败的对象成为孤儿：记日志、记指标、发事件交给清理任务.
func (s *ImageService) compensateStorage(ctx context.Context, bucket string, keys []string, cause error) {
	removed, err := s.s3Client.RemoveBatch(ctx, bucket, keys)
	if err == nil {
		return
	}

	removedSet := map[string]struct{}{}
	for _, k := range removed {
		removedSet[k] = struct{}{}
	}

	orphans := make([]string, 0, len(keys))

	for _, k := range keys {
		if _, ok := removedSet[k]; !ok {
			orphans = append(orphans, k)
		}
	}

	if len(orphans) == 0 {
		return
	}

	metrics.OrphanedBlobCounter.Add(float64(len(orphans)))

	nlog.Logger().Error().
		Err(err).
		Str("bucket", bucket).
		Strs("orphan_keys", orphans).
		AnErr("cause", cause).
		Msg("compensating delete failed, storage objects orphaned")

	s.publishOrphaned(ctx, bucket, orphans, cause)
}

// publishStored 发布资产入库事件，MQ 未启用时退化为日志.
func (s *ImageService) publishStored(ctx context.Context, asset *model.ImageAsset, etag string,
	variantInfos map[string]model.VariantInfo, warnings []string) {
	variantKeys := map[string]string{}
	for name, v := range variantInfos {
		variantKeys[name] = v.ObjectKey
	}

	payload := queue.AssetStoredPayload{
		Asset: queue.AssetRef{
			AssetID:     asset.ID,
			Bucket:      asset.StorageBucket,
			ObjectKey:   asset.StoragePath,
			ETag:        etag,
			Size:        asset.FileSize,
			ContentType: asset.MimeType,
		},
		EntityType:  string(asset.EntityType),
		EntityID:    asset.EntityID,
		Purpose:     string(asset.Purpose),
		FileName:    asset.OriginalFilename,
		VariantKeys: variantKeys,
		Warnings:    warnings,
	}

	if s.mqClient == nil {
		nlog.Logger().Debug().Str("asset_id", asset.ID).Msg("mq disabled, skip asset stored event")
		return
	}

	if err := queue.PublishAssetStored(s.mqClient.Publisher(), payload, queue.WithProducer(configs.AppName)); err != nil {
		nlog.Logger().Warn().Err(err).Str("asset_id", asset.ID).Msg("publish asset stored event failed")
	}
}

// publishOrphaned 发布孤儿对象事件.
func (s *ImageService) publishOrphaned(ctx context.Context, bucket string, keys []string, cause error) {
	if s.mqClient == nil {
		return
	}

	payload := queue.AssetOrphanedPayload{
		Bucket:     bucket,
		OrphanKeys: keys,
		Reason:     cause.Error(),
	}

	if err := queue.PublishAssetOrphaned(s.mqClient.Publisher(), payload, queue.WithProducer(configs.AppName)); err != nil {
		nlog.Logger().Warn().Err(err).Msg("publish orphaned event failed")
	}
}

// buildUploadResponse 构建上传响应.
func (s *ImageService) buildUploadResponse(asset *model.ImageAsset,
	variantInfos map[string]model.VariantInfo, warnings []string) *types.UploadImageResponse {
	variants := map[string]types.VariantResult{}
	for name, v := range variantInfos {
		variants[name] = types.VariantResult{
			ObjectKey: v.ObjectKey,
			Size:      v.Size,
			Width:     v.Width,
			Height:    v.Height,
		}
	}

	// 压缩收益按调用方实际会改用的最大展示变体计算
	var optimization *types.OptimizationStats

	for _, name := range []string{VariantLarge, VariantMedium, VariantThumbnail} {
		v, ok := variantInfos[name]
		if !ok || asset.FileSize <= 0 {
			continue
		}

		optimization = &types.OptimizationStats{
			OriginalSize:   asset.FileSize,
			OptimizedSize:  v.Size,
			SavingsPercent: float64(asset.FileSize-v.Size) / float64(asset.FileSize) * 100,
		}

		break
	}

	return &types.UploadImageResponse{
		AssetID:          asset.ID,
		EntityType:       string(asset.EntityType),
		EntityID:         asset.EntityID,
		Purpose:          string(asset.Purpose),
		Bucket:           asset.StorageBucket,
		ObjectKey:        asset.StoragePath,
		PublicURL:        asset.PublicURL,
		FileName:         asset.OriginalFilename,
		Size:             asset.FileSize,
		Width:            asset.ImageWidth,
		Height:           asset.ImageHeight,
		ContentType:      asset.MimeType,
		IsPrimary:        asset.IsPrimary,
		DisplayOrder:     asset.DisplayOrder,
		ProcessingStatus: string(asset.ProcessingStatus),
		Variants:         variants,
		Optimization:     optimization,
		Warnings:         warnings,
	}
}
