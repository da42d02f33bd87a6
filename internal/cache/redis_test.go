package cache

import (
	"context"
	"testing"

	"github.com/fulfillcore/internal/config"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init redis failed: %v", err)
	}
	if Enabled() || Client() != nil {
		t.Fatalf("cache should be disabled")
	}
	if err := SetIssuingTemplates(context.Background(), nil); err != nil {
		t.Fatalf("set on disabled cache should be noop, got %v", err)
	}
	snapshot, hit, err := GetIssuingTemplates(context.Background())
	if err != nil || hit || snapshot != nil {
		t.Fatalf("get on disabled cache should miss, hit=%v err=%v", hit, err)
	}
	if err := DelIssuingTemplates(context.Background()); err != nil {
		t.Fatalf("del on disabled cache should be noop, got %v", err)
	}
}

func TestBuildKeyPrefix(t *testing.T) {
	Use(nil, "")
	if got := Key("coupon:templates:issuing"); got != "fc:coupon:templates:issuing" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := Key("  "); got != "fc" {
		t.Fatalf("unexpected empty key: %s", got)
	}
	Use(nil, "shop")
	if got := Key("a"); got != "shop:a" {
		t.Fatalf("unexpected custom prefix key: %s", got)
	}
}

func TestInitRedisUnreachableStaysDisabled(t *testing.T) {
	err := InitRedis(&config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1})
	if err == nil {
		t.Fatalf("unreachable redis should fail ping")
	}
	if Enabled() {
		t.Fatalf("cache should stay disabled after failed ping")
	}
}
