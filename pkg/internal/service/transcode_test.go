package service

import (
	"bytes"
	"image"
	"testing"

	"github.com/yeisme/assetvault/pkg/configs"
)

func variantByName(variants []GeneratedVariant, name string) (GeneratedVariant, bool) {
	for _, v := range variants {
		if v.Name == name {
			return v, true
		}
	}

	return GeneratedVariant{}, false
}

// TestGenerateVariantsLargeSource 大图生成全部三个变体且尺寸受限.
func TestGenerateVariantsLargeSource(t *testing.T) {
	svc := newImageServiceForTest(nil, nil, nil)
	cfg := configs.GetConfig().Pipeline

	src := newTestJPEG(t, cfg.LargeBound+400, cfg.LargeBound)

	variants, warnings, err := svc.GenerateVariants(src)
	if err != nil {
		t.Fatalf("GenerateVariants failed: %v", err)
	}

	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}

	if len(variants) != 3 {
		t.Fatalf("Expected 3 variants, got %d", len(variants))
	}

	thumb, ok := variantByName(variants, VariantThumbnail)
	if !ok {
		t.Fatal("Missing thumbnail variant")
	}

	if thumb.Width != cfg.ThumbnailSize || thumb.Height != cfg.ThumbnailSize {
		t.Errorf("Expected %dx%d thumbnail, got %dx%d",
			cfg.ThumbnailSize, cfg.ThumbnailSize, thumb.Width, thumb.Height)
	}

	for _, name := range []string{VariantMedium, VariantLarge} {
		v, ok := variantByName(variants, name)
		if !ok {
			t.Fatalf("Missing %s variant", name)
		}

		bound := cfg.MediumBound
		if name == VariantLarge {
			bound = cfg.LargeBound
		}

		if v.Width > bound || v.Height > bound {
			t.Errorf("Variant %s exceeds bound %d: %dx%d", name, bound, v.Width, v.Height)
		}

		// 变体统一重编码为 JPEG
		_, format, err := image.DecodeConfig(bytes.NewReader(v.Data))
		if err != nil || format != "jpeg" {
			t.Errorf("Expected JPEG variant %s, got format %q err %v", name, format, err)
		}
	}
}

// TestGenerateVariantsSmallSource 小图只生成缩略图，medium/large 不放大.
func TestGenerateVariantsSmallSource(t *testing.T) {
	svc := newImageServiceForTest(nil, nil, nil)
	cfg := configs.GetConfig().Pipeline

	src := newTestPNG(t, cfg.MediumBound/2, cfg.MediumBound/2)

	variants, warnings, err := svc.GenerateVariants(src)
	if err != nil {
		t.Fatalf("GenerateVariants failed: %v", err)
	}

	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}

	if len(variants) != 1 {
		t.Fatalf("Expected only thumbnail for small source, got %d variants", len(variants))
	}

	if variants[0].Name != VariantThumbnail {
		t.Errorf("Expected thumbnail, got %s", variants[0].Name)
	}
}

// TestGenerateVariantsMediumOnly 介于边界之间的源图生成缩略图和 large 以下的变体.
func TestGenerateVariantsMediumOnly(t *testing.T) {
	svc := newImageServiceForTest(nil, nil, nil)
	cfg := configs.GetConfig().Pipeline

	// 大于 medium 边界、小于 large 边界
	src := newTestJPEG(t, cfg.MediumBound+100, cfg.MediumBound)

	variants, _, err := svc.GenerateVariants(src)
	if err != nil {
		t.Fatalf("GenerateVariants failed: %v", err)
	}

	if _, ok := variantByName(variants, VariantMedium); !ok {
		t.Error("Expected medium variant")
	}

	if _, ok := variantByName(variants, VariantLarge); ok {
		t.Error("Did not expect large variant for source within large bound")
	}
}

// TestGenerateVariantsUndecodable 无法解码的输入返回错误.
func TestGenerateVariantsUndecodable(t *testing.T) {
	svc := newImageServiceForTest(nil, nil, nil)

	if _, _, err := svc.GenerateVariants([]byte("not an image at all")); err == nil {
		t.Error("Expected error for undecodable source")
	}
}
