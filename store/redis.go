package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rushteam/listenkit/core"
)

// RedisStore 是 Redis 实现的 KeyValueStore。
// 生产环境承载流派热榜有序集合与结果缓存，支持持久化、集群、哨兵等。
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, core.ErrStoreNotFound
	}
	return val, err
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	var expiration time.Duration
	if len(ttl) > 0 && ttl[0] > 0 {
		expiration = time.Duration(ttl[0]) * time.Second
	}
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return r.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
}

// ZRange 按分数降序返回 [start, stop] 区间的成员（热榜语义）。
func (r *RedisStore) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return r.client.ZRevRange(ctx, key, start, stop).Result()
}

func (r *RedisStore) ZScore(ctx context.Context, key string, member string) (float64, error) {
	score, err := r.client.ZScore(ctx, key, member).Result()
	if err == redis.Nil {
		return 0, core.ErrStoreNotFound
	}
	return score, err
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

var _ core.KeyValueStore = (*RedisStore)(nil)

// RedisProfileStore 是基于 KeyValueStore 的画像快照存储，JSON 序列化。
// UserIDs 需要全量用户清单，KV 存储不提供扫描语义，由注册表键维护。
type RedisProfileStore struct {
	Store core.KeyValueStore

	// KeyPrefix 画像快照键前缀，默认 "profile"
	KeyPrefix string

	// TTLSeconds 快照有效期（秒），0 表示不过期
	TTLSeconds int
}

func (s *RedisProfileStore) prefix() string {
	if s.KeyPrefix != "" {
		return s.KeyPrefix
	}
	return "profile"
}

func (s *RedisProfileStore) registryKey() string {
	return s.prefix() + ":users"
}

func (s *RedisProfileStore) Profile(ctx context.Context, userID string) (*core.ListeningProfile, error) {
	if s.Store == nil {
		return nil, core.NewDomainError(core.ModuleProfile, core.ErrorCodeUnavailable, "profile store not configured")
	}
	raw, err := s.Store.Get(ctx, s.prefix()+":"+userID)
	if err != nil {
		return nil, err
	}
	var p core.ListeningProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, core.NewDomainError(core.ModuleProfile, core.ErrorCodeInternalError, "profile snapshot decode failed: "+err.Error())
	}
	return &p, nil
}

func (s *RedisProfileStore) PersistProfile(ctx context.Context, p *core.ListeningProfile) error {
	if s.Store == nil {
		return core.NewDomainError(core.ModuleProfile, core.ErrorCodeUnavailable, "profile store not configured")
	}
	if p == nil || p.UserID == "" {
		return core.NewDomainError(core.ModuleProfile, core.ErrorCodeInvalidInput, "profile missing user id")
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return core.NewDomainError(core.ModuleProfile, core.ErrorCodeInternalError, "profile snapshot encode failed: "+err.Error())
	}
	if err := s.Store.Set(ctx, s.prefix()+":"+p.UserID, raw, s.TTLSeconds); err != nil {
		return err
	}
	// 注册表记录用户清单，供批量聚类枚举
	return s.Store.ZAdd(ctx, s.registryKey(), float64(time.Now().Unix()), p.UserID)
}

func (s *RedisProfileStore) UserIDs(ctx context.Context) ([]string, error) {
	if s.Store == nil {
		return nil, core.NewDomainError(core.ModuleProfile, core.ErrorCodeUnavailable, "profile store not configured")
	}
	return s.Store.ZRange(ctx, s.registryKey(), 0, -1)
}

var _ core.ProfileStore = (*RedisProfileStore)(nil)
