package core

import (
	"context"
	"time"
)

// ErrStoreNotFound 是存储层“记录不存在”的哨兵错误。
// 对本引擎而言，记录不存在是合法的预期状态，调用方应降级而不是上抛。
var ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "record not found")

// IsStoreNotFound 检查错误是否为存储层 NOT_FOUND。
func IsStoreNotFound(err error) bool {
	if err == nil {
		return false
	}
	if err == ErrStoreNotFound {
		return true
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Module == ModuleStore && domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// EventStore 是外部事件存储的领域接口（对引擎只读）。
//
// 设计原则：
//   - 接口定义在领域层（core），由基础设施层（store）实现
//   - 所有查询都要求调用方/传输层保证有界超时；超时以错误返回，由组件降级
type EventStore interface {
	// ListeningHistory 返回用户的收听历史，按 PlayedAt 倒序，最多 limit 条
	ListeningHistory(ctx context.Context, userID string, limit int) ([]PlayEvent, error)

	// StreamEvents 返回曲目自 since 以来的播放流事件，按 CreatedAt 倒序
	StreamEvents(ctx context.Context, trackID string, since time.Time) ([]StreamEvent, error)

	// ArtistGrowthStats 返回满足最小流量门槛的艺人增长统计
	ArtistGrowthStats(ctx context.Context, lookbackDays int, minStreams int) ([]ArtistGrowthStats, error)

	// TracksByArtists 返回这些艺人的曲目，最多 limit 条
	TracksByArtists(ctx context.Context, artistIDs []string, limit int) ([]Track, error)

	// TrendingByGenres 返回这些流派内按播放量降序的热门曲目，最多 limit 条
	TrendingByGenres(ctx context.Context, genres []string, limit int) ([]Track, error)

	// TracksByIDs 按 ID 批量取曲目元数据；不存在的 ID 直接跳过
	TracksByIDs(ctx context.Context, trackIDs []string) ([]Track, error)

	// ListenersOfTracks 返回近期播放过这些曲目的去重用户，最多 limit 个
	ListenersOfTracks(ctx context.Context, trackIDs []string, limit int) ([]string, error)
}

// ProfileStore 是画像存储的领域接口。
// 除 profile.Resolver 的快照回写外，引擎对画像存储只读。
type ProfileStore interface {
	// Profile 读取已存的画像快照；不存在时返回 ErrStoreNotFound
	Profile(ctx context.Context, userID string) (*ListeningProfile, error)

	// PersistProfile 回写重建后的画像快照（尽力而为，失败只记日志）
	PersistProfile(ctx context.Context, profile *ListeningProfile) error

	// UserIDs 返回已有画像快照的全部用户，供批量聚类取全量人群
	UserIDs(ctx context.Context) ([]string, error)
}

// KeyValueStore 是通用 KV 存储的领域接口。
//
// 使用场景：
//   - 流派热榜：有序集合（ZAdd/ZRange）
//   - 画像快照缓存：普通 key（Get/Set）
//
// 实现：store.MemoryStore（测试/开发）、store.RedisStore（生产）。
type KeyValueStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl ...int) error
	Delete(ctx context.Context, key string) error

	// ZAdd/ZRange/ZScore 操作有序集合；ZRange 按分数降序返回 [start, stop]
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZScore(ctx context.Context, key string, member string) (float64, error)

	Close() error
}
