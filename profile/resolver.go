package profile

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rushteam/listenkit/core"
)

const (
	maxTopGenres  = 5
	maxTopArtists = 10

	defaultHistoryLimit = 100
)

// Resolver 负责解析用户收听画像。
//
// 解析顺序：内存缓存 -> ProfileStore 快照 -> 从收听历史实时构建 -> 默认画像。
// Resolve 永远不返回错误：缺失历史是合法的冷启动状态，存储故障降级为默认画像并记日志。
type Resolver struct {
	Profiles core.ProfileStore
	Events   core.EventStore

	// HistoryLimit 构建画像时取多少条近期历史，默认 100
	HistoryLimit int

	Logger zerolog.Logger

	mu    sync.RWMutex
	cache map[string]*core.ListeningProfile
}

// Resolve 返回用户画像，永远不会返回 nil。
func (r *Resolver) Resolve(ctx context.Context, userID string) *core.ListeningProfile {
	if userID == "" {
		return core.DefaultProfile(userID)
	}

	r.mu.RLock()
	cached, ok := r.cache[userID]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	p := r.load(ctx, userID)
	r.mu.Lock()
	if r.cache == nil {
		r.cache = make(map[string]*core.ListeningProfile)
	}
	r.cache[userID] = p
	r.mu.Unlock()
	return p
}

func (r *Resolver) load(ctx context.Context, userID string) *core.ListeningProfile {
	if r.Profiles != nil {
		p, err := r.Profiles.Profile(ctx, userID)
		if err == nil && p != nil {
			return p
		}
		if err != nil && !core.IsStoreNotFound(err) {
			r.Logger.Warn().
				Err(err).
				Str("user_id", userID).
				Msg("profile store failed, building from history")
		}
	}

	p, err := r.BuildFromHistory(ctx, userID)
	if err != nil {
		r.Logger.Warn().
			Err(err).
			Str("user_id", userID).
			Msg("profile build failed, falling back to default")
		return core.DefaultProfile(userID)
	}
	return p
}

// BuildFromHistory 从收听历史聚合画像。历史为空时返回默认画像。
func (r *Resolver) BuildFromHistory(ctx context.Context, userID string) (*core.ListeningProfile, error) {
	if r.Events == nil {
		return core.DefaultProfile(userID), nil
	}
	limit := r.HistoryLimit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	history, err := r.Events.ListeningHistory(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return core.DefaultProfile(userID), nil
	}

	p := &core.ListeningProfile{
		UserID:              userID,
		ListeningTimeByHour: make(map[int]int),
		RepeatCounts:        make(map[string]int),
	}

	genreCounts := make(map[string]int)
	artistCounts := make(map[string]int)
	genreOrder := make([]string, 0, 8)
	artistOrder := make([]string, 0, 16)

	var tempoSum, energySum, valenceSum float64
	var featured int

	for _, ev := range history {
		if ev.Genre != "" {
			if _, ok := genreCounts[ev.Genre]; !ok {
				genreOrder = append(genreOrder, ev.Genre)
			}
			genreCounts[ev.Genre]++
		}
		if ev.ArtistID != "" {
			if _, ok := artistCounts[ev.ArtistID]; !ok {
				artistOrder = append(artistOrder, ev.ArtistID)
			}
			artistCounts[ev.ArtistID]++
		}
		if ev.Features != nil {
			tempoSum += ev.Features.Tempo
			energySum += ev.Features.Energy
			valenceSum += ev.Features.Valence
			featured++
		}
		if !ev.PlayedAt.IsZero() {
			p.ListeningTimeByHour[ev.PlayedAt.Hour()]++
		}
		p.TotalListeningTime += ev.Duration
		p.RepeatCounts[ev.TrackID]++
	}
	p.UniqueTrackCount = len(p.RepeatCounts)

	if featured > 0 {
		p.AvgTempo = tempoSum / float64(featured)
		p.AvgEnergy = energySum / float64(featured)
		p.AvgValence = valenceSum / float64(featured)
	} else {
		p.AvgTempo = core.DefaultAvgTempo
		p.AvgEnergy = core.DefaultAvgEnergy
		p.AvgValence = core.DefaultAvgValence
	}

	p.TopGenres = topK(genreCounts, genreOrder, maxTopGenres)
	p.TopArtists = topK(artistCounts, artistOrder, maxTopArtists)
	return p, nil
}

// Refresh 重建画像并尽力持久化快照（持久化失败只记日志），同时刷新缓存。
func (r *Resolver) Refresh(ctx context.Context, userID string) (*core.ListeningProfile, error) {
	p, err := r.BuildFromHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	if r.Profiles != nil {
		if err := r.Profiles.PersistProfile(ctx, p); err != nil {
			r.Logger.Warn().
				Err(err).
				Str("user_id", userID).
				Msg("profile snapshot persist failed")
		}
	}
	r.mu.Lock()
	if r.cache == nil {
		r.cache = make(map[string]*core.ListeningProfile)
	}
	r.cache[userID] = p
	r.mu.Unlock()
	return p, nil
}

// Invalidate 清除用户的画像缓存。
func (r *Resolver) Invalidate(userID string) {
	r.mu.Lock()
	delete(r.cache, userID)
	r.mu.Unlock()
}

// topK 按计数降序取前 k 个，计数相同时按首次出现顺序。
func topK(counts map[string]int, order []string, k int) []string {
	keys := append([]string(nil), order...)
	sort.SliceStable(keys, func(i, j int) bool {
		return counts[keys[i]] > counts[keys[j]]
	})
	if len(keys) > k {
		keys = keys[:k]
	}
	return keys
}
