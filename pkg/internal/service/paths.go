package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yeisme/assetvault/pkg/internal/model"
)

// entityFolders 实体类型到存储目录名的映射.
var entityFolders = map[model.EntityType]string{
	model.EntityCatalogItem:  "catalog-items",
	model.EntityOrder:        "orders",
	model.EntityDesignTask:   "design-tasks",
	model.EntityCustomer:     "customers",
	model.EntityManufacturer: "manufacturers",
	model.EntityUserProfile:  "user-profiles",
	model.EntityOrganization: "organizations",
}

// tokenLength 对象键中的随机令牌长度，取 UUID 前缀足以避免同秒冲突.
const tokenLength = 8

// buildObjectKey 构建原图的对象存储路径.放在 service 层便于未来统一策略（如目录分桶、版本号等）.
// 形如 catalog-items/42/gallery/20250901T070102-1a2b3c4d.jpg
func buildObjectKey(entityType model.EntityType, entityID string, purpose model.ImagePurpose, ext string) string {
	folder, ok := entityFolders[entityType]
	if !ok {
		folder = string(entityType)
	}

	ts := time.Now().UTC().Format("20060102T150405")
	token := newPathToken()

	return fmt.Sprintf("%s/%s/%s/%s-%s%s", folder, entityID, purpose, ts, token, ext)
}

// variantObjectKey 从原图键派生变体键：扩展名前插入变体名，变体统一为 JPEG.
// catalog-items/42/gallery/xxx.png + thumbnail → catalog-items/42/gallery/xxx-thumbnail.jpg
func variantObjectKey(originalKey, variant string) string {
	base := originalKey
	if i := strings.LastIndex(originalKey, "."); i > strings.LastIndex(originalKey, "/") {
		base = originalKey[:i]
	}

	return fmt.Sprintf("%s-%s.jpg", base, variant)
}

// storageFilename 生成存储安全的文件名，与对象键末段一致.
func storageFilename(objectKey string) string {
	if i := strings.LastIndex(objectKey, "/"); i >= 0 {
		return objectKey[i+1:]
	}

	return objectKey
}

func newPathToken() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return id[:tokenLength]
}
