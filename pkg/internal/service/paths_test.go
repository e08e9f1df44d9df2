package service

import (
	"strings"
	"testing"

	"github.com/yeisme/assetvault/pkg/internal/model"
)

// TestBuildObjectKey 测试对象键的目录结构与命名.
func TestBuildObjectKey(t *testing.T) {
	key := buildObjectKey(model.EntityCatalogItem, "42", model.PurposeGallery, ".png")

	if !strings.HasPrefix(key, "catalog-items/42/gallery/") {
		t.Errorf("Expected catalog-items/42/gallery/ prefix, got %s", key)
	}

	if !strings.HasSuffix(key, ".png") {
		t.Errorf("Expected .png suffix, got %s", key)
	}

	// 文件名形如 20250901T070102-1a2b3c4d.png
	base := key[strings.LastIndex(key, "/")+1:]

	parts := strings.SplitN(strings.TrimSuffix(base, ".png"), "-", 2)
	if len(parts) != 2 {
		t.Fatalf("Expected timestamp-token filename, got %s", base)
	}

	if len(parts[0]) != len("20060102T150405") {
		t.Errorf("Expected timestamp segment, got %s", parts[0])
	}

	if len(parts[1]) != tokenLength {
		t.Errorf("Expected token of length %d, got %s", tokenLength, parts[1])
	}
}

// TestBuildObjectKeyUnknownEntity 未知实体类型时目录退化为类型原文.
func TestBuildObjectKeyUnknownEntity(t *testing.T) {
	key := buildObjectKey(model.EntityType("widget"), "7", model.PurposeGallery, ".jpg")

	if !strings.HasPrefix(key, "widget/7/gallery/") {
		t.Errorf("Expected widget/7/gallery/ prefix, got %s", key)
	}
}

// TestVariantObjectKey 测试变体键派生：扩展名替换为 -<variant>.jpg.
func TestVariantObjectKey(t *testing.T) {
	cases := []struct {
		original string
		variant  string
		want     string
	}{
		{"catalog-items/42/gallery/a.png", "thumbnail", "catalog-items/42/gallery/a-thumbnail.jpg"},
		{"orders/7/gallery/b.jpeg", "medium", "orders/7/gallery/b-medium.jpg"},
		// 目录带点、文件无扩展名
		{"v1.2/7/gallery/noext", "large", "v1.2/7/gallery/noext-large.jpg"},
	}

	for _, c := range cases {
		if got := variantObjectKey(c.original, c.variant); got != c.want {
			t.Errorf("variantObjectKey(%s, %s) = %s, want %s", c.original, c.variant, got, c.want)
		}
	}
}

// TestStorageFilename 测试对象键末段提取.
func TestStorageFilename(t *testing.T) {
	if got := storageFilename("catalog-items/42/gallery/a.png"); got != "a.png" {
		t.Errorf("Expected a.png, got %s", got)
	}

	if got := storageFilename("bare.jpg"); got != "bare.jpg" {
		t.Errorf("Expected bare.jpg, got %s", got)
	}
}

// TestNewPathToken 测试令牌长度与随机性.
func TestNewPathToken(t *testing.T) {
	a := newPathToken()
	b := newPathToken()

	if len(a) != tokenLength || len(b) != tokenLength {
		t.Errorf("Expected tokens of length %d, got %q and %q", tokenLength, a, b)
	}

	if a == b {
		t.Errorf("Expected distinct tokens, got %q twice", a)
	}
}

// TestDefaultPurpose 测试按实体类型推断的默认用途.
func TestDefaultPurpose(t *testing.T) {
	cases := []struct {
		entity model.EntityType
		want   model.ImagePurpose
	}{
		{model.EntityUserProfile, model.PurposeProfile},
		{model.EntityCustomer, model.PurposeProfile},
		{model.EntityOrganization, model.PurposeLogo},
		{model.EntityManufacturer, model.PurposeLogo},
		{model.EntityCatalogItem, model.PurposeGallery},
		{model.EntityOrder, model.PurposeGallery},
	}

	for _, c := range cases {
		if got := defaultPurpose(c.entity); got != c.want {
			t.Errorf("defaultPurpose(%s) = %s, want %s", c.entity, got, c.want)
		}
	}
}
