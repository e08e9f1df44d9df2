package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultMaxUploadBytes 普通上传的字节上限（10 MiB）.
	DefaultMaxUploadBytes = 10 << 20
	// DefaultProfileMaxUploadBytes 头像/Logo 类上传的字节上限（5 MiB）.
	DefaultProfileMaxUploadBytes = 5 << 20

	// DefaultJPEGQuality 变体重编码的 JPEG 质量.
	DefaultJPEGQuality = 85

	// DefaultThumbnailSize 缩略图边长（正方形居中裁剪）.
	DefaultThumbnailSize = 300
	// DefaultMediumBound 中等变体的最大边界.
	DefaultMediumBound = 800
	// DefaultLargeBound 大图变体的最大边界.
	DefaultLargeBound = 1600

	// MinLinkTTLSeconds 签名链接最小有效期.
	MinLinkTTLSeconds = 60
	// MaxLinkTTLSeconds 签名链接最大有效期（24 小时）.
	MaxLinkTTLSeconds = 86400
	// DefaultLinkTTLSeconds 未指定时的签名链接有效期.
	DefaultLinkTTLSeconds = 3600

	// DefaultTrashRetentionDays 软删除记录保留天数，到期由定时任务硬删.
	DefaultTrashRetentionDays = 30
)

// PipelineConfig 图片资产管道策略：校验、变体生成、签名链接与清理策略.
type PipelineConfig struct {
	// AllowedImageTypes 图片上传允许的 MIME 类型.
	AllowedImageTypes []string `mapstructure:"allowed_image_types"`
	// AllowedAttachmentTypes attachment 用途额外允许的文档类型.
	AllowedAttachmentTypes []string `mapstructure:"allowed_attachment_types"`
	// MaxUploadBytes 普通上传的字节上限.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"        rule:"min=1"`
	// ProfileMaxUploadBytes 头像/Logo 用途的字节上限.
	ProfileMaxUploadBytes int64 `mapstructure:"profile_max_upload_bytes" rule:"min=1"`

	JPEGQuality   int `mapstructure:"jpeg_quality"   rule:"min=1,max=100"`
	ThumbnailSize int `mapstructure:"thumbnail_size" rule:"min=16,max=1024"`
	MediumBound   int `mapstructure:"medium_bound"   rule:"min=64,max=4096"`
	LargeBound    int `mapstructure:"large_bound"    rule:"min=64,max=8192"`

	MinLinkTTLSeconds     int `mapstructure:"min_link_ttl_seconds"     rule:"min=1"`
	MaxLinkTTLSeconds     int `mapstructure:"max_link_ttl_seconds"     rule:"min=1"`
	DefaultLinkTTLSeconds int `mapstructure:"default_link_ttl_seconds" rule:"min=1"`

	TrashRetentionDays int `mapstructure:"trash_retention_days" rule:"min=1"`
}

// DefaultLinkTTL 返回默认签名链接有效期.
func (c *PipelineConfig) DefaultLinkTTL() time.Duration {
	return time.Duration(c.DefaultLinkTTLSeconds) * time.Second
}

// TTLInRange 校验请求的有效期是否落在策略范围内.
func (c *PipelineConfig) TTLInRange(seconds int) bool {
	return seconds >= c.MinLinkTTLSeconds && seconds <= c.MaxLinkTTLSeconds
}

// setDefaults 设置管道策略默认值.
func (c *PipelineConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("pipeline.allowed_image_types", []string{
		"image/jpeg", "image/png", "image/webp",
	})
	v.SetDefault("pipeline.allowed_attachment_types", []string{
		"application/pdf", "image/svg+xml",
	})
	v.SetDefault("pipeline.max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("pipeline.profile_max_upload_bytes", DefaultProfileMaxUploadBytes)
	v.SetDefault("pipeline.jpeg_quality", DefaultJPEGQuality)
	v.SetDefault("pipeline.thumbnail_size", DefaultThumbnailSize)
	v.SetDefault("pipeline.medium_bound", DefaultMediumBound)
	v.SetDefault("pipeline.large_bound", DefaultLargeBound)
	v.SetDefault("pipeline.min_link_ttl_seconds", MinLinkTTLSeconds)
	v.SetDefault("pipeline.max_link_ttl_seconds", MaxLinkTTLSeconds)
	v.SetDefault("pipeline.default_link_ttl_seconds", DefaultLinkTTLSeconds)
	v.SetDefault("pipeline.trash_retention_days", DefaultTrashRetentionDays)
}
