package rule_test

import (
	"testing"

	"github.com/yeisme/assetvault/pkg/rule"
)

// reorderItem 模拟排序请求项，覆盖实际请求里使用的规则组合.
type reorderItem struct {
	ID    string `rule:"required"`
	Order int    `rule:"gte=0"`
}

// TestEngine 测试 Engine 函数返回非 nil 实例.
func TestEngine(t *testing.T) {
	if rule.Engine() == nil {
		t.Error("Engine() returned nil")
	}
}

// TestValidateStruct 测试 ValidateStruct 对有效和无效结构体的验证.
func TestValidateStruct(t *testing.T) {
	valid := reorderItem{ID: "01J8ZQ6T1N3WAF7P", Order: 2}
	if err := rule.ValidateStruct(valid); err != nil {
		t.Errorf("expected no error for valid struct, got %v", err)
	}

	// 缺少 ID
	if err := rule.ValidateStruct(reorderItem{Order: 1}); err == nil {
		t.Error("expected error for missing id, got nil")
	}

	// Order 为负
	if err := rule.ValidateStruct(reorderItem{ID: "x", Order: -1}); err == nil {
		t.Error("expected error for negative order, got nil")
	}
}

// TestValidateVar 测试 ValidateVar 对变量的验证.
func TestValidateVar(t *testing.T) {
	// 有效 TTL 范围
	if err := rule.ValidateVar(3600, "gte=60,lte=86400"); err != nil {
		t.Errorf("expected no error for 3600s ttl, got %v", err)
	}

	// 超下界
	if err := rule.ValidateVar(30, "gte=60,lte=86400"); err == nil {
		t.Error("expected error for 30s ttl, got nil")
	}

	// 超上界
	if err := rule.ValidateVar(90000, "gte=60,lte=86400"); err == nil {
		t.Error("expected error for 90000s ttl, got nil")
	}
}

// TestRegisterAlias 测试注册别名规则.
func TestRegisterAlias(t *testing.T) {
	rule.RegisterAlias("link_ttl", "gte=60,lte=86400")

	if err := rule.ValidateVar(600, "link_ttl"); err != nil {
		t.Errorf("expected no error for aliased rule, got %v", err)
	}

	if err := rule.ValidateVar(1, "link_ttl"); err == nil {
		t.Error("expected error for aliased rule violation, got nil")
	}
}
