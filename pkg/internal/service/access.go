package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yeisme/assetvault/pkg/configs"
	"github.com/yeisme/assetvault/pkg/internal/model"
	"github.com/yeisme/assetvault/pkg/internal/types"
	"github.com/yeisme/assetvault/pkg/queue"
)

var (
	// ErrTTLOutOfRange 请求的有效期超出策略范围，拒绝而不是静默截断.
	ErrTTLOutOfRange = errors.New("link ttl out of range")
	// ErrVariantNotFound 资产没有该名称的变体.
	ErrVariantNotFound = errors.New("variant not found")
	// ErrMissingTarget 请求既没有 asset_id 也没有 object_key.
	ErrMissingTarget = errors.New("asset_id or object_key is required")
)

// resolveTTL 解析请求的有效期：0 用默认值，非 0 必须落在策略区间内.
func resolveTTL(seconds int) (time.Duration, error) {
	cfg := configs.GetConfig().Pipeline

	if seconds == 0 {
		return cfg.DefaultLinkTTL(), nil
	}

	if !cfg.TTLInRange(seconds) {
		return 0, fmt.Errorf("%w: %d not in [%d, %d]",
			ErrTTLOutOfRange, seconds, cfg.MinLinkTTLSeconds, cfg.MaxLinkTTLSeconds)
	}

	return time.Duration(seconds) * time.Second, nil
}

// resolveObjectKey 将请求定位到具体对象键.
// AssetID 优先；Variant 非空时取对应变体，"original" 或空取原图.
func (s *ImageService) resolveObjectKey(ctx context.Context, assetID, objectKey, variant string) (string, *model.ImageAsset, error) {
	if assetID == "" {
		if objectKey == "" {
			return "", nil, ErrMissingTarget
		}

		return objectKey, nil, nil
	}

	asset, err := s.GetAsset(ctx, assetID)
	if err != nil {
		return "", nil, err
	}

	if variant == "" || variant == "original" {
		return asset.StoragePath, asset, nil
	}

	variants, err := asset.Variants()
	if err != nil {
		return "", nil, fmt.Errorf("decode variants: %w", err)
	}

	v, ok := variants[variant]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s has no %q", ErrVariantNotFound, assetID, variant)
	}

	return v.ObjectKey, asset, nil
}

// GenerateLink 为单个资产或对象键签发限时访问链接.
func (s *ImageService) GenerateLink(ctx context.Context, req *types.GenerateLinkRequest) (*types.GenerateLinkResponse, error) {
	expiry, err := resolveTTL(req.ExpirySeconds)
	if err != nil {
		return nil, err
	}

	key, asset, err := s.resolveObjectKey(ctx, req.AssetID, req.ObjectKey, req.Variant)
	if err != nil {
		return nil, err
	}

	attachmentName := ""
	if req.Download {
		attachmentName = req.FileName
		if attachmentName == "" && asset != nil {
			attachmentName = asset.OriginalFilename
		}

		if attachmentName == "" {
			attachmentName = storageFilename(key)
		}
	}

	// 直接给对象键签发时落私有桶，按资产签发时跟随资产实际所在的桶
	bucket := s.s3Client.GetConfig().Bucket
	if asset != nil && asset.StorageBucket != "" {
		bucket = asset.StorageBucket
	}

	u, err := s.s3Client.PresignedGet(ctx, bucket, key, expiry, attachmentName)
	if err != nil {
		return nil, err
	}

	s.publishEvent(queue.TopicLinkIssued, func(pub message.Publisher) error {
		return queue.PublishLinkIssued(pub, queue.LinkIssuedPayload{
			AssetID:    req.AssetID,
			ObjectKey:  key,
			TTLSeconds: int(expiry.Seconds()),
			Download:   req.Download,
		}, queue.WithProducer(configs.AppName))
	})

	return &types.GenerateLinkResponse{
		ObjectKey: key,
		GetURL:    u,
		ExpiresIn: int(expiry.Seconds()),
	}, nil
}

// BulkGenerateLinks 批量签发链接，单项失败不影响同批其他项.
func (s *ImageService) BulkGenerateLinks(ctx context.Context, req *types.BulkGenerateLinksRequest) (*types.BulkGenerateLinksResponse, error) {
	resp := &types.BulkGenerateLinksResponse{
		Results: make([]types.LinkResult, 0, len(req.Items)),
		Total:   len(req.Items),
	}

	for i := range req.Items {
		item := &req.Items[i]

		expiry := item.ExpirySeconds
		if expiry == 0 {
			expiry = req.ExpirySeconds
		}

		single := &types.GenerateLinkRequest{
			AssetID:       item.AssetID,
			ObjectKey:     item.ObjectKey,
			Variant:       item.Variant,
			ExpirySeconds: expiry,
			Download:      item.Download,
			FileName:      item.FileName,
		}

		r, err := s.GenerateLink(ctx, single)
		if err != nil {
			resp.Results = append(resp.Results, types.LinkResult{
				AssetID:   item.AssetID,
				ObjectKey: item.ObjectKey,
				Success:   false,
				Error:     err.Error(),
			})
			resp.Failed++

			continue
		}

		resp.Results = append(resp.Results, types.LinkResult{
			AssetID:   item.AssetID,
			ObjectKey: r.ObjectKey,
			GetURL:    r.GetURL,
			ExpiresIn: r.ExpiresIn,
			Success:   true,
		})
		resp.Successful++
	}

	return resp, nil
}

// EntityLinks 为实体的全部活跃图片批量签发链接.
func (s *ImageService) EntityLinks(ctx context.Context, req *types.EntityLinksRequest) (*types.EntityLinksResponse, error) {
	expiry, err := resolveTTL(req.ExpirySeconds)
	if err != nil {
		return nil, err
	}

	list, err := s.ListImages(ctx, req.EntityType, req.EntityID, &types.ListImagesRequest{Purpose: req.Purpose})
	if err != nil {
		return nil, err
	}

	defaultBucket := s.s3Client.GetConfig().Bucket
	resp := &types.EntityLinksResponse{
		Results: make([]types.LinkResult, 0, len(list.Images)),
		Total:   len(list.Images),
	}

	for i := range list.Images {
		img := &list.Images[i]

		key := img.ObjectKey
		if req.Variant != "" && req.Variant != "original" {
			v, ok := img.Variants[req.Variant]
			if !ok {
				resp.Results = append(resp.Results, types.LinkResult{
					AssetID: img.AssetID,
					Success: false,
					Error:   fmt.Sprintf("variant not found: %s", req.Variant),
				})
				resp.Failed++

				continue
			}

			key = v.ObjectKey
		}

		bucket := img.Bucket
		if bucket == "" {
			bucket = defaultBucket
		}

		u, e := s.s3Client.PresignedGet(ctx, bucket, key, expiry, "")
		if e != nil {
			resp.Results = append(resp.Results, types.LinkResult{
				AssetID:   img.AssetID,
				ObjectKey: key,
				Success:   false,
				Error:     e.Error(),
			})
			resp.Failed++

			continue
		}

		resp.Results = append(resp.Results, types.LinkResult{
			AssetID:   img.AssetID,
			ObjectKey: key,
			GetURL:    u,
			ExpiresIn: int(expiry.Seconds()),
			Success:   true,
		})
		resp.Successful++
	}

	return resp, nil
}
