package service

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"

	"github.com/yeisme/assetvault/pkg/configs"
)

// TestMain 用默认配置初始化，测试不依赖外部配置文件.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "assetvault-service-test")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	if err := configs.InitConfig(dir); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

// newTestPNG 生成指定尺寸的纯色 PNG.
func newTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}

	return buf.Bytes()
}

// newTestJPEG 生成指定尺寸的纯色 JPEG.
func newTestJPEG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 30, B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}

	return buf.Bytes()
}
