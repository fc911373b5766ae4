package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rushteam/listenkit/core"
)

// MemoryStore 是内存实现的存储，同时实现 EventStore、ProfileStore 和
// KeyValueStore，用于测试/开发/原型。进程重启后数据丢失。
//
// KV 部分的 TTL 是惰性过期：读取时检查，不起后台协程。
type MemoryStore struct {
	mu sync.RWMutex

	events   map[string][]core.PlayEvent   // userID -> 播放历史（新到旧）
	streams  map[string][]core.StreamEvent // trackID -> 播放流事件
	tracks   map[string]core.Track
	growth   []core.ArtistGrowthStats
	profiles map[string]*core.ListeningProfile

	data  map[string]kvEntry
	zsets map[string]map[string]float64 // key -> member -> score
}

type kvEntry struct {
	value    []byte
	expireAt *time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:   make(map[string][]core.PlayEvent),
		streams:  make(map[string][]core.StreamEvent),
		tracks:   make(map[string]core.Track),
		profiles: make(map[string]*core.ListeningProfile),
		data:     make(map[string]kvEntry),
		zsets:    make(map[string]map[string]float64),
	}
}

func (m *MemoryStore) Name() string { return "memory" }

// 种子方法：测试与示例用，生产数据由真实存储提供

func (m *MemoryStore) AddTrack(t core.Track) {
	m.mu.Lock()
	m.tracks[t.TrackID] = t
	m.mu.Unlock()
}

func (m *MemoryStore) AddPlayEvent(userID string, ev core.PlayEvent) {
	m.mu.Lock()
	m.events[userID] = append(m.events[userID], ev)
	m.mu.Unlock()
}

func (m *MemoryStore) AddStreamEvent(ev core.StreamEvent) {
	m.mu.Lock()
	m.streams[ev.TrackID] = append(m.streams[ev.TrackID], ev)
	m.mu.Unlock()
}

func (m *MemoryStore) SetArtistGrowthStats(stats []core.ArtistGrowthStats) {
	m.mu.Lock()
	m.growth = append([]core.ArtistGrowthStats(nil), stats...)
	m.mu.Unlock()
}

// EventStore

func (m *MemoryStore) ListeningHistory(_ context.Context, userID string, limit int) ([]core.PlayEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.events[userID]
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	return append([]core.PlayEvent(nil), history...), nil
}

func (m *MemoryStore) StreamEvents(_ context.Context, trackID string, since time.Time) ([]core.StreamEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.StreamEvent, 0)
	for _, ev := range m.streams[trackID] {
		if ev.CreatedAt.After(since) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *MemoryStore) ArtistGrowthStats(_ context.Context, _ int, minStreams int) ([]core.ArtistGrowthStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.ArtistGrowthStats, 0, len(m.growth))
	for _, st := range m.growth {
		if st.CurrentListeners >= int64(minStreams) {
			out = append(out, st)
		}
	}
	return out, nil
}

func (m *MemoryStore) TracksByArtists(_ context.Context, artistIDs []string, limit int) ([]core.Track, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[string]struct{}, len(artistIDs))
	for _, id := range artistIDs {
		wanted[id] = struct{}{}
	}
	out := make([]core.Track, 0)
	for _, t := range m.tracks {
		if _, ok := wanted[t.ArtistID]; ok {
			out = append(out, t)
		}
	}
	sortTracks(out)
	return truncateTracks(out, limit), nil
}

func (m *MemoryStore) TrendingByGenres(_ context.Context, genres []string, limit int) ([]core.Track, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		wanted[g] = struct{}{}
	}
	out := make([]core.Track, 0)
	for _, t := range m.tracks {
		if _, ok := wanted[t.Genre]; ok {
			out = append(out, t)
		}
	}
	// 热榜按播放量降序，同量按 trackID 保证确定性
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayCount != out[j].PlayCount {
			return out[i].PlayCount > out[j].PlayCount
		}
		return out[i].TrackID < out[j].TrackID
	})
	return truncateTracks(out, limit), nil
}

func (m *MemoryStore) TracksByIDs(_ context.Context, trackIDs []string) ([]core.Track, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.Track, 0, len(trackIDs))
	for _, id := range trackIDs {
		if t, ok := m.tracks[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MemoryStore) ListenersOfTracks(_ context.Context, trackIDs []string, limit int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[string]struct{}, len(trackIDs))
	for _, id := range trackIDs {
		wanted[id] = struct{}{}
	}
	users := make([]string, 0)
	for userID, history := range m.events {
		for _, ev := range history {
			if _, ok := wanted[ev.TrackID]; ok {
				users = append(users, userID)
				break
			}
		}
	}
	sort.Strings(users)
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

// ProfileStore

func (m *MemoryStore) Profile(_ context.Context, userID string) (*core.ListeningProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return p, nil
}

func (m *MemoryStore) PersistProfile(_ context.Context, p *core.ListeningProfile) error {
	if p == nil || p.UserID == "" {
		return core.NewDomainError(core.ModuleProfile, core.ErrorCodeInvalidInput, "profile missing user id")
	}
	m.mu.Lock()
	m.profiles[p.UserID] = p
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) UserIDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{}, len(m.profiles)+len(m.events))
	for id := range m.profiles {
		seen[id] = struct{}{}
	}
	for id := range m.events {
		seen[id] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// KeyValueStore

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	if e.expireAt != nil && time.Now().After(*e.expireAt) {
		return nil, core.ErrStoreNotFound
	}
	return e.value, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := kvEntry{value: value}
	if len(ttl) > 0 && ttl[0] > 0 {
		expire := time.Now().Add(time.Duration(ttl[0]) * time.Second)
		e.expireAt = &expire
	}
	m.data[key] = e
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) ZAdd(_ context.Context, key string, score float64, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.zsets[key] == nil {
		m.zsets[key] = make(map[string]float64)
	}
	m.zsets[key][member] = score
	return nil
}

func (m *MemoryStore) ZRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	zset, ok := m.zsets[key]
	if !ok || len(zset) == 0 {
		return nil, nil
	}

	type pair struct {
		member string
		score  float64
	}
	pairs := make([]pair, 0, len(zset))
	for member, score := range zset {
		pairs = append(pairs, pair{member: member, score: score})
	}
	// 分数降序，同分按 member 保证确定性
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		return pairs[i].member < pairs[j].member
	})

	if start < 0 {
		start = 0
	}
	if stop < 0 || stop >= int64(len(pairs)) {
		stop = int64(len(pairs)) - 1
	}
	if start > stop {
		return nil, nil
	}

	out := make([]string, 0, stop-start+1)
	for i := start; i <= stop && i < int64(len(pairs)); i++ {
		out = append(out, pairs[i].member)
	}
	return out, nil
}

func (m *MemoryStore) ZScore(_ context.Context, key string, member string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	zset, ok := m.zsets[key]
	if !ok {
		return 0, core.ErrStoreNotFound
	}
	score, ok := zset[member]
	if !ok {
		return 0, core.ErrStoreNotFound
	}
	return score, nil
}

func (m *MemoryStore) Close() error { return nil }

func sortTracks(tracks []core.Track) {
	sort.Slice(tracks, func(i, j int) bool {
		return tracks[i].TrackID < tracks[j].TrackID
	})
}

func truncateTracks(tracks []core.Track, limit int) []core.Track {
	if limit > 0 && len(tracks) > limit {
		return tracks[:limit]
	}
	return tracks
}

// 确保 MemoryStore 实现了全部存储接口
var (
	_ core.EventStore    = (*MemoryStore)(nil)
	_ core.ProfileStore  = (*MemoryStore)(nil)
	_ core.KeyValueStore = (*MemoryStore)(nil)
)
