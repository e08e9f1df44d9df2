package service

import (
	"bytes"
	"errors"
	"testing"

	"github.com/yeisme/assetvault/pkg/configs"
	"github.com/yeisme/assetvault/pkg/internal/model"
)

// TestValidateUploadPNG 测试合法 PNG 通过校验并取到尺寸.
func TestValidateUploadPNG(t *testing.T) {
	svc := newImageServiceForTest(nil, nil, nil)
	data := newTestPNG(t, 320, 240)

	v, err := svc.ValidateUpload(data, model.PurposeGallery)
	if err != nil {
		t.Fatalf("ValidateUpload failed: %v", err)
	}

	if v.MIME != "image/png" {
		t.Errorf("Expected image/png, got %s", v.MIME)
	}

	if v.Ext != ".png" {
		t.Errorf("Expected .png extension, got %s", v.Ext)
	}

	if v.Width != 320 || v.Height != 240 {
		t.Errorf("Expected 320x240, got %dx%d", v.Width, v.Height)
	}

	if !v.Raster {
		t.Error("Expected raster flag for PNG")
	}
}

// TestValidateUploadEmpty 空内容直接拒绝.
func TestValidateUploadEmpty(t *testing.T) {
	svc := newImageServiceForTest(nil, nil, nil)

	if _, err := svc.ValidateUpload(nil, model.PurposeGallery); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("Expected ErrEmptyFile, got %v", err)
	}
}

// TestValidateUploadTooLarge 超限内容按用途上限拒绝.
func TestValidateUploadTooLarge(t *testing.T) {
	svc := newImageServiceForTest(nil, nil, nil)

	cfg := configs.GetConfig().Pipeline
	data := make([]byte, cfg.ProfileMaxUploadBytes+1)

	// profile 用途走更小的上限
	if _, err := svc.ValidateUpload(data, model.PurposeProfile); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("Expected ErrFileTooLarge for profile, got %v", err)
	}
}

// TestValidateUploadUnsupportedType 非白名单类型拒绝.
func TestValidateUploadUnsupportedType(t *testing.T) {
	svc := newImageServiceForTest(nil, nil, nil)
	data := []byte("plain text, definitely not an image")

	if _, err := svc.ValidateUpload(data, model.PurposeGallery); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Expected ErrUnsupportedType, got %v", err)
	}
}

// TestValidateUploadCorruptImage 声称 PNG 但内容损坏时拒绝.
func TestValidateUploadCorruptImage(t *testing.T) {
	svc := newImageServiceForTest(nil, nil, nil)

	// 合法 PNG 魔数 + 垃圾字节，嗅探通过但解码失败
	data := append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, bytes.Repeat([]byte{0xFF}, 64)...)

	if _, err := svc.ValidateUpload(data, model.PurposeGallery); !errors.Is(err, ErrCorruptImage) {
		t.Errorf("Expected ErrCorruptImage, got %v", err)
	}
}

// TestValidateUploadAttachmentPDF attachment 用途放行 PDF 且不标记位图.
func TestValidateUploadAttachmentPDF(t *testing.T) {
	svc := newImageServiceForTest(nil, nil, nil)
	data := []byte("%PDF-1.4\n%\xE2\xE3\xCF\xD3\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

	v, err := svc.ValidateUpload(data, model.PurposeAttachment)
	if err != nil {
		t.Fatalf("ValidateUpload failed for PDF attachment: %v", err)
	}

	if v.MIME != "application/pdf" {
		t.Errorf("Expected application/pdf, got %s", v.MIME)
	}

	if v.Raster {
		t.Error("Expected non-raster flag for PDF")
	}

	// 同样的 PDF 在 gallery 用途下必须被拒绝
	if _, err := svc.ValidateUpload(data, model.PurposeGallery); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Expected ErrUnsupportedType for PDF in gallery purpose, got %v", err)
	}
}
