package service

import (
	"context"
	"time"

	minio "github.com/minio/minio-go/v7"

	"github.com/yeisme/assetvault/pkg/internal/model"
	nlog "github.com/yeisme/assetvault/pkg/log"
)

// orphanGracePeriod 新写入对象的豁免窗口，避免清掉尚未完成入库的上传.
const orphanGracePeriod = time.Hour

// SweepOrphans 扫描存储桶，删除没有任何元数据行（含回收站）指向的对象.
// 补偿删除失败留下的孤儿靠这里最终清除. 返回清除的对象数.
func (s *ImageService) SweepOrphans(ctx context.Context) (int, error) {
	// 收集 DB 中引用的全部对象键：原图 + 变体，软删行也算
	var assets []model.ImageAsset
	if err := s.dbClient.WithContext(ctx).Unscoped().
		Select("storage_path", "variants_json").
		Find(&assets).Error; err != nil {
		return 0, err
	}

	referenced := make(map[string]struct{}, len(assets)*4)

	for i := range assets {
		referenced[assets[i].StoragePath] = struct{}{}

		if variants, err := assets[i].Variants(); err == nil {
			for _, v := range variants {
				referenced[v.ObjectKey] = struct{}{}
			}
		}
	}

	bucket := s.s3Client.GetConfig().Bucket
	cutoff := time.Now().Add(-orphanGracePeriod)
	removed := 0

	for obj := range s.s3Client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return removed, obj.Err
		}

		if _, ok := referenced[obj.Key]; ok {
			continue
		}

		// 新对象可能正处于上传与入库之间，跳过
		if obj.LastModified.After(cutoff) {
			continue
		}

		if err := s.s3Client.Remove(ctx, bucket, obj.Key); err != nil {
			nlog.Logger().Warn().Err(err).Str("key", obj.Key).Msg("orphan sweep: remove failed")
			continue
		}

		removed++

		nlog.Logger().Info().Str("key", obj.Key).Msg("orphan sweep: removed unreferenced object")
	}

	return removed, nil
}
