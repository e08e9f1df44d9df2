// Package service 实现图片资产管道的业务逻辑（校验、变体、存储、元数据、链接签发），不处理 HTTP 细节.
package service

import (
	"context"
	"io"
	"time"

	minio "github.com/minio/minio-go/v7"

	"github.com/yeisme/assetvault/pkg/configs"
	ctxPkg "github.com/yeisme/assetvault/pkg/context"
	"github.com/yeisme/assetvault/pkg/internal/storage/db"
	"github.com/yeisme/assetvault/pkg/internal/storage/mq"
	"github.com/yeisme/assetvault/pkg/internal/storage/s3"
	nlog "github.com/yeisme/assetvault/pkg/log"
)

// objectStore 是服务层用到的对象存储操作子集，生产实现为 *s3.Client.
type objectStore interface {
	GetConfig() configs.S3Config
	Put(ctx context.Context, bucket, key string, r io.Reader, size int64, opts s3.PutOptions) (minio.UploadInfo, error)
	Remove(ctx context.Context, bucket, key string) error
	RemoveBatch(ctx context.Context, bucket string, keys []string) ([]string, error)
	PresignedGet(ctx context.Context, bucket, key string, expiry time.Duration, attachmentName string) (string, error)
	PublicURL(bucket, key string) string
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// ImageService 负责图片资产相关业务逻辑.
type ImageService struct {
	s3Client objectStore
	dbClient *db.Client
	mqClient *mq.Client // MQ 未启用时为 nil，事件退化为日志
}

// NewImageService 从 context 获取依赖实例.
func NewImageService(c context.Context) *ImageService {
	s3c := ctxPkg.GetS3Client(c)
	dbc := ctxPkg.GetDBClient(c)
	mqc := ctxPkg.GetMQClient(c)

	// 为了安全起见，应该直接 panic 而不是返回 nil，依赖此服务就不需要再检查
	if s3c == nil || s3c.Client == nil || dbc == nil || dbc.DB == nil {
		nlog.Logger().Fatal().Msg("storage clients not initialized")
	}

	return &ImageService{
		s3Client: s3c,
		dbClient: dbc,
		mqClient: mqc,
	}
}

// newImageServiceForTest 直接注入依赖，供包内测试使用.
func newImageServiceForTest(s3c objectStore, dbc *db.Client, mqc *mq.Client) *ImageService {
	return &ImageService{s3Client: s3c, dbClient: dbc, mqClient: mqc}
}
