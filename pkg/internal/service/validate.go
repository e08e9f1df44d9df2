package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"slices"

	// 注册 JPEG/PNG/WebP 解码器，image.DecodeConfig 需要.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/gabriel-vasile/mimetype"

	"github.com/yeisme/assetvault/pkg/configs"
	"github.com/yeisme/assetvault/pkg/internal/model"
)

var (
	// ErrEmptyFile 上传内容为空.
	ErrEmptyFile = errors.New("empty file")
	// ErrFileTooLarge 超过该用途允许的字节上限.
	ErrFileTooLarge = errors.New("file too large")
	// ErrUnsupportedType 嗅探出的类型不在白名单内.
	ErrUnsupportedType = errors.New("unsupported content type")
	// ErrCorruptImage 声称是图片但无法解码.
	ErrCorruptImage = errors.New("corrupt or undecodable image")
	// ErrInvalidEntityType 未知实体类型.
	ErrInvalidEntityType = errors.New("invalid entity type")
	// ErrInvalidPurpose 未知用途.
	ErrInvalidPurpose = errors.New("invalid purpose")
)

// ValidatedUpload 校验通过的上传内容与嗅探结果.
type ValidatedUpload struct {
	Data []byte
	// MIME 按内容嗅探得到的类型，不信任请求声明.
	MIME string
	// Ext 含点的扩展名，如 ".jpg".
	Ext    string
	Width  int
	Height int
	// Raster 为 true 表示可解码的位图，允许生成变体；
	// SVG/PDF 等 attachment 类型为 false，跳过变体管道.
	Raster bool
}

// ValidateUpload 校验上传内容：大小、按字节嗅探的类型白名单、位图可解码性.
// 类型以内容嗅探为准，请求头声明的 Content-Type 不参与判定.
func (s *ImageService) ValidateUpload(data []byte, purpose model.ImagePurpose) (*ValidatedUpload, error) {
	cfg := configs.GetConfig().Pipeline

	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	limit := cfg.MaxUploadBytes
	if purpose == model.PurposeProfile || purpose == model.PurposeLogo {
		limit = cfg.ProfileMaxUploadBytes
	}

	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit %d", ErrFileTooLarge, len(data), limit)
	}

	mtype := mimetype.Detect(data)
	mime := mtype.String()

	if slices.Contains(cfg.AllowedImageTypes, mime) {
		// 位图必须可解码，顺便取尺寸
		imgCfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrCorruptImage, mime)
		}

		return &ValidatedUpload{
			Data:   data,
			MIME:   mime,
			Ext:    mtype.Extension(),
			Width:  imgCfg.Width,
			Height: imgCfg.Height,
			Raster: true,
		}, nil
	}

	// attachment 用途额外放行文档类型，不走变体管道
	if purpose == model.PurposeAttachment && slices.Contains(cfg.AllowedAttachmentTypes, mime) {
		return &ValidatedUpload{
			Data: data,
			MIME: mime,
			Ext:  mtype.Extension(),
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
}
