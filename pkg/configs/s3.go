package configs

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// S3Config MinIO/S3 对象存储配置.
// Bucket 为私有资产桶（签名链接访问），PublicBucket 可选，存放允许匿名读取的资产。
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	PublicBucket    string `mapstructure:"public_bucket"`
	// PublicBaseURL 公共桶的基础访问 URL（如 CDN 域名）；为空时用 endpoint 拼接.
	PublicBaseURL string `mapstructure:"public_base_url"`
}

const (
	DefaultS3Endpoint        = "localhost:9000"     // 默认S3端点
	DefaultS3AccessKeyID     = "minioadmin"         // 默认访问密钥ID
	DefaultS3SecretAccessKey = "minioadmin"         // 默认秘密访问密钥
	DefaultS3UseSSL          = false                // 默认是否使用SSL
	DefaultS3Region          = "us-east-1"          // 默认区域
	DefaultS3Bucket          = "assetvault"         // 默认私有资产桶
	DefaultS3PublicBucket    = "assetvault-public"  // 默认公共资产桶
)

// GetEndpointURL 获取完整的端点URL.
func (c *S3Config) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

// Buckets 返回需要确保存在的桶列表.
func (c *S3Config) Buckets() []string {
	out := []string{c.Bucket}
	if c.PublicBucket != "" && c.PublicBucket != c.Bucket {
		out = append(out, c.PublicBucket)
	}

	return out
}

// ObjectPublicURL 拼接公共桶对象的匿名访问 URL.
func (c *S3Config) ObjectPublicURL(bucket, objectKey string) string {
	base := c.PublicBaseURL
	if base == "" {
		base = fmt.Sprintf("%s/%s", c.GetEndpointURL(), bucket)
	}

	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(objectKey, "/")
}

// setDefaults 设置 S3 配置的默认值.
func (c *S3Config) setDefaults(v *viper.Viper) {
	v.SetDefault("s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("s3.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("s3.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("s3.region", DefaultS3Region)
	v.SetDefault("s3.bucket", DefaultS3Bucket)
	v.SetDefault("s3.public_bucket", DefaultS3PublicBucket)
	v.SetDefault("s3.public_base_url", "")
}
