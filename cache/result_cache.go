// Package cache 提供进程内的结果缓存：带 TTL 的惰性过期 map。
// 用于缓存计算开销大的榜单类结果（艺人榜、热榜），不追求分布式一致性。
package cache

import (
	"sync"
	"time"
)

const (
	// DefaultTTL 是结果缓存的默认有效期
	DefaultTTL = 5 * time.Minute

	// DefaultMaxSize 超过该条目数时，写入会顺带清理过期条目
	DefaultMaxSize = 100
)

type entry struct {
	value      any
	insertedAt time.Time
}

// ResultCache 是并发安全的 TTL 缓存。
// 读取时惰性过期；写入时若条目数超过 MaxSize 则扫一遍清理过期条目。
// 没有后台协程，生命周期随持有者。
type ResultCache struct {
	// TTL 条目有效期，默认 5 分钟
	TTL time.Duration

	// MaxSize 触发清扫的条目数阈值，默认 100
	MaxSize int

	// Clock 用于测试注入时间，默认 time.Now
	Clock func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

func (c *ResultCache) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

func (c *ResultCache) ttl() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return DefaultTTL
}

// Get 返回未过期的缓存值；过期条目在读取时删除。
func (c *ResultCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.insertedAt) > c.ttl() {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set 写入缓存；条目数超过 MaxSize 时顺带清理所有过期条目。
func (c *ResultCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries == nil {
		c.entries = make(map[string]entry)
	}
	now := c.now()
	c.entries[key] = entry{value: value, insertedAt: now}

	maxSize := c.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if len(c.entries) > maxSize {
		ttl := c.ttl()
		for k, e := range c.entries {
			if now.Sub(e.insertedAt) > ttl {
				delete(c.entries, k)
			}
		}
	}
}

// Delete 删除指定条目。
func (c *ResultCache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len 返回当前条目数（含尚未惰性清理的过期条目）。
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
