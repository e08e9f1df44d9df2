package service

import (
	"errors"
	"testing"
	"time"

	"github.com/yeisme/assetvault/pkg/configs"
)

// TestResolveTTLDefault 零值取默认有效期.
func TestResolveTTLDefault(t *testing.T) {
	cfg := configs.GetConfig().Pipeline

	d, err := resolveTTL(0)
	if err != nil {
		t.Fatalf("resolveTTL(0) failed: %v", err)
	}

	if d != cfg.DefaultLinkTTL() {
		t.Errorf("Expected default TTL %v, got %v", cfg.DefaultLinkTTL(), d)
	}
}

// TestResolveTTLInRange 区间内的值原样换算.
func TestResolveTTLInRange(t *testing.T) {
	d, err := resolveTTL(600)
	if err != nil {
		t.Fatalf("resolveTTL(600) failed: %v", err)
	}

	if d != 600*time.Second {
		t.Errorf("Expected 600s, got %v", d)
	}

	// 边界值也接受
	cfg := configs.GetConfig().Pipeline

	if _, err := resolveTTL(cfg.MinLinkTTLSeconds); err != nil {
		t.Errorf("Expected min boundary accepted, got %v", err)
	}

	if _, err := resolveTTL(cfg.MaxLinkTTLSeconds); err != nil {
		t.Errorf("Expected max boundary accepted, got %v", err)
	}
}

// TestResolveTTLOutOfRange 越界拒绝而不是截断.
func TestResolveTTLOutOfRange(t *testing.T) {
	cfg := configs.GetConfig().Pipeline

	if _, err := resolveTTL(cfg.MinLinkTTLSeconds - 1); !errors.Is(err, ErrTTLOutOfRange) {
		t.Errorf("Expected ErrTTLOutOfRange below min, got %v", err)
	}

	if _, err := resolveTTL(cfg.MaxLinkTTLSeconds + 1); !errors.Is(err, ErrTTLOutOfRange) {
		t.Errorf("Expected ErrTTLOutOfRange above max, got %v", err)
	}

	if _, err := resolveTTL(-10); !errors.Is(err, ErrTTLOutOfRange) {
		t.Errorf("Expected ErrTTLOutOfRange for negative, got %v", err)
	}
}
