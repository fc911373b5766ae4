package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestResultCache_GetSet(t *testing.T) {
	c := &ResultCache{}

	if _, ok := c.Get("missing"); ok {
		t.Error("empty cache should miss")
	}

	c.Set("k", 42)
	v, ok := c.Get("k")
	if !ok || v.(int) != 42 {
		t.Errorf("Get = (%v, %v), want (42, true)", v, ok)
	}

	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("deleted key should miss")
	}
}

func TestResultCache_TTLExpiry(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	c := &ResultCache{TTL: time.Minute, Clock: func() time.Time { return now }}

	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatal("fresh entry should hit")
	}

	now = now.Add(61 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry should miss")
	}
	// 惰性过期：读取时已删除
	if c.Len() != 0 {
		t.Errorf("expired entry not removed, len = %d", c.Len())
	}
}

func TestResultCache_SweepOnOverflow(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	c := &ResultCache{TTL: time.Minute, MaxSize: 10, Clock: func() time.Time { return now }}

	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("old_%d", i), i)
	}
	if c.Len() != 10 {
		t.Fatalf("len = %d, want 10", c.Len())
	}

	// 全部过期后再写入：超过 MaxSize 触发清扫，只剩新条目
	now = now.Add(2 * time.Minute)
	c.Set("new", 1)
	if c.Len() != 1 {
		t.Errorf("sweep should drop expired entries, len = %d", c.Len())
	}
	if _, ok := c.Get("new"); !ok {
		t.Error("fresh entry lost in sweep")
	}
}
