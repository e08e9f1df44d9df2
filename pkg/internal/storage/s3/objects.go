package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	minio "github.com/minio/minio-go/v7"
)

// PutOptions 控制对象写入行为.
type PutOptions struct {
	ContentType string
	// Upsert 为 true 时允许覆盖同名对象，否则同名对象视为冲突.
	Upsert bool
	// UserMetadata 附加到对象上的自定义元数据.
	UserMetadata map[string]string
}

// ErrObjectExists 表示目标对象已存在且未允许覆盖.
var ErrObjectExists = fmt.Errorf("object already exists")

// Put 上传对象到指定桶. 非 Upsert 模式下同名对象返回 ErrObjectExists.
func (c *Client) Put(ctx context.Context, bucket, key string, r io.Reader, size int64, opts PutOptions) (minio.UploadInfo, error) {
	if !opts.Upsert {
		if _, err := c.StatObject(ctx, bucket, key, minio.StatObjectOptions{}); err == nil {
			return minio.UploadInfo{}, fmt.Errorf("%w: %s/%s", ErrObjectExists, bucket, key)
		}
	}

	info, err := c.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  opts.ContentType,
		UserMetadata: opts.UserMetadata,
	})
	if err != nil {
		return minio.UploadInfo{}, fmt.Errorf("put object %s/%s: %w", bucket, key, err)
	}

	return info, nil
}

// Remove 删除对象. 对象不存在时视为成功，保证删除操作可重试.
func (c *Client) Remove(ctx context.Context, bucket, key string) error {
	err := c.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return nil
		}

		return fmt.Errorf("remove object %s/%s: %w", bucket, key, err)
	}

	return nil
}

// RemoveBatch 批量删除对象，逐个删除并聚合首个错误.
// 返回成功删除的 key 列表.
func (c *Client) RemoveBatch(ctx context.Context, bucket string, keys []string) ([]string, error) {
	removed := make([]string, 0, len(keys))

	var firstErr error

	for _, key := range keys {
		if err := c.Remove(ctx, bucket, key); err != nil {
			if firstErr == nil {
				firstErr = err
			}

			continue
		}

		removed = append(removed, key)
	}

	return removed, firstErr
}

// Copy 在桶内或跨桶复制对象.
func (c *Client) Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	src := minio.CopySrcOptions{Bucket: srcBucket, Object: srcKey}
	dst := minio.CopyDestOptions{Bucket: dstBucket, Object: dstKey}

	if _, err := c.CopyObject(ctx, dst, src); err != nil {
		return fmt.Errorf("copy object %s/%s -> %s/%s: %w", srcBucket, srcKey, dstBucket, dstKey, err)
	}

	return nil
}

// Move 复制后删除源对象.
func (c *Client) Move(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	if err := c.Copy(ctx, srcBucket, srcKey, dstBucket, dstKey); err != nil {
		return err
	}

	return c.Remove(ctx, srcBucket, srcKey)
}

// PresignedGet 生成带过期时间的下载链接.
// attachmentName 非空时设置 response-content-disposition，浏览器将以该文件名下载.
func (c *Client) PresignedGet(ctx context.Context, bucket, key string, expiry time.Duration, attachmentName string) (string, error) {
	reqParams := make(url.Values)
	if attachmentName != "" {
		reqParams.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", attachmentName))
	}

	u, err := c.PresignedGetObject(ctx, bucket, key, expiry, reqParams)
	if err != nil {
		return "", fmt.Errorf("presign object %s/%s: %w", bucket, key, err)
	}

	return u.String(), nil
}

// PublicURL 返回公共桶对象的直接访问地址.
func (c *Client) PublicURL(bucket, key string) string {
	return c.cfg.ObjectPublicURL(bucket, key)
}
