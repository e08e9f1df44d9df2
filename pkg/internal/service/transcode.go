package service

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/yeisme/assetvault/pkg/configs"
)

// 变体名称常量，同时作为对象键后缀与 VariantsJSON 的键.
const (
	VariantThumbnail = "thumbnail"
	VariantMedium    = "medium"
	VariantLarge     = "large"
)

// GeneratedVariant 内存中生成完毕、待写入存储的单个变体.
type GeneratedVariant struct {
	Name   string
	Data   []byte
	Width  int
	Height int
}

// GenerateVariants 从原图生成展示变体：
//   - thumbnail：正方形居中裁剪
//   - medium / large：等比缩放进边界，源图小于边界时跳过，不放大
//
// 变体统一重编码为 JPEG. 单个变体失败不中断其余变体，失败原因收进 warnings.
// 源图整体无法解码时返回错误.
func (s *ImageService) GenerateVariants(data []byte) ([]GeneratedVariant, []string, error) {
	cfg := configs.GetConfig().Pipeline

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		// imaging 不认识 WebP，退回标准解码器
		src, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, nil, fmt.Errorf("decode source image: %w", err)
		}
	}

	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	variants := make([]GeneratedVariant, 0, 3)
	warnings := make([]string, 0)

	// thumbnail 固定尺寸，小图也会放大到正方形
	thumb := imaging.Fill(src, cfg.ThumbnailSize, cfg.ThumbnailSize, imaging.Center, imaging.Lanczos)
	if v, e := s.encodeVariant(VariantThumbnail, thumb); e != nil {
		warnings = append(warnings, fmt.Sprintf("%s: %v", VariantThumbnail, e))
	} else {
		variants = append(variants, v)
	}

	for _, tier := range []struct {
		name  string
		bound int
	}{
		{VariantMedium, cfg.MediumBound},
		{VariantLarge, cfg.LargeBound},
	} {
		// 源图已小于边界时不放大，直接跳过该变体
		if srcW <= tier.bound && srcH <= tier.bound {
			continue
		}

		fitted := imaging.Fit(src, tier.bound, tier.bound, imaging.Lanczos)

		v, e := s.encodeVariant(tier.name, fitted)
		if e != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", tier.name, e))
			continue
		}

		variants = append(variants, v)
	}

	return variants, warnings, nil
}

// encodeVariant 将变体图像编码为 JPEG 字节.
func (s *ImageService) encodeVariant(name string, img image.Image) (GeneratedVariant, error) {
	cfg := configs.GetConfig().Pipeline

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(cfg.JPEGQuality)); err != nil {
		return GeneratedVariant{}, fmt.Errorf("encode %s: %w", name, err)
	}

	b := img.Bounds()

	return GeneratedVariant{
		Name:   name,
		Data:   buf.Bytes(),
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}
