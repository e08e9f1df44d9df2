package configs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yeisme/assetvault/pkg/configs"
)

// TestInitConfigDefaults 无配置文件时全部使用默认值.
func TestInitConfigDefaults(t *testing.T) {
	if err := configs.InitConfig(t.TempDir()); err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}

	cfg := configs.GetConfig()

	if cfg.Server.Port != configs.DefaultPort {
		t.Errorf("Expected default port %d, got %d", configs.DefaultPort, cfg.Server.Port)
	}

	if cfg.Pipeline.MaxUploadBytes != configs.DefaultMaxUploadBytes {
		t.Errorf("Expected default upload limit %d, got %d",
			configs.DefaultMaxUploadBytes, cfg.Pipeline.MaxUploadBytes)
	}

	if cfg.Pipeline.MinLinkTTLSeconds != configs.MinLinkTTLSeconds ||
		cfg.Pipeline.MaxLinkTTLSeconds != configs.MaxLinkTTLSeconds {
		t.Errorf("Expected default TTL bounds [%d, %d], got [%d, %d]",
			configs.MinLinkTTLSeconds, configs.MaxLinkTTLSeconds,
			cfg.Pipeline.MinLinkTTLSeconds, cfg.Pipeline.MaxLinkTTLSeconds)
	}

	if cfg.MQ.Enabled {
		t.Error("Expected MQ disabled by default")
	}
}

// TestInitConfigFromFile 配置文件覆盖默认值，未覆盖的字段保持默认.
func TestInitConfigFromFile(t *testing.T) {
	dir := t.TempDir()

	content := []byte(`server:
  port: 9090
pipeline:
  jpeg_quality: 70
  trash_retention_days: 7
db:
  type: sqlite
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := configs.InitConfig(dir); err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}

	cfg := configs.GetConfig()

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}

	if cfg.Pipeline.JPEGQuality != 70 {
		t.Errorf("Expected jpeg quality 70, got %d", cfg.Pipeline.JPEGQuality)
	}

	if cfg.Pipeline.TrashRetentionDays != 7 {
		t.Errorf("Expected retention 7 days, got %d", cfg.Pipeline.TrashRetentionDays)
	}

	if cfg.DB.Type != configs.SQLite {
		t.Errorf("Expected sqlite db type, got %s", cfg.DB.Type)
	}

	// 未覆盖的字段保持默认
	if cfg.Pipeline.ThumbnailSize != configs.DefaultThumbnailSize {
		t.Errorf("Expected default thumbnail size, got %d", cfg.Pipeline.ThumbnailSize)
	}
}

// TestInitConfigInvalid 非法值被校验拒绝.
func TestInitConfigInvalid(t *testing.T) {
	dir := t.TempDir()

	content := []byte(`pipeline:
  jpeg_quality: 400
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := configs.InitConfig(dir); err == nil {
		t.Error("Expected validation error for jpeg_quality 400, got nil")
	}
}

// TestTTLInRange 策略区间判断含边界.
func TestTTLInRange(t *testing.T) {
	if err := configs.InitConfig(t.TempDir()); err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}

	p := configs.GetConfig().Pipeline

	if !p.TTLInRange(p.MinLinkTTLSeconds) || !p.TTLInRange(p.MaxLinkTTLSeconds) {
		t.Error("Expected boundary values in range")
	}

	if p.TTLInRange(p.MinLinkTTLSeconds-1) || p.TTLInRange(p.MaxLinkTTLSeconds+1) {
		t.Error("Expected out-of-bound values rejected")
	}
}
