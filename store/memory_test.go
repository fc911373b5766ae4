package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/listenkit/core"
)

func TestMemoryStore_KV(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if _, err := m.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("missing key error = %v, want store not found", err)
	}

	if err := m.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	v, err := m.Get(ctx, "k")
	if err != nil || string(v) != "v" {
		t.Errorf("Get = (%s, %v)", v, err)
	}

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Error("deleted key should be not found")
	}
}

func TestMemoryStore_ZRangeDescending(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	for member, score := range map[string]float64{"low": 1, "high": 9, "mid": 5} {
		if err := m.ZAdd(ctx, "board", score, member); err != nil {
			t.Fatal(err)
		}
	}

	got, err := m.ZRange(ctx, "board", 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"high", "mid", "low"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ZRange = %v, want %v", got, want)
		}
	}

	top, err := m.ZRange(ctx, "board", 0, 0)
	if err != nil || len(top) != 1 || top[0] != "high" {
		t.Errorf("ZRange top = (%v, %v), want [high]", top, err)
	}

	score, err := m.ZScore(ctx, "board", "mid")
	if err != nil || score != 5 {
		t.Errorf("ZScore = (%v, %v), want 5", score, err)
	}
}

func TestMemoryStore_ListenersOfTracks(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	now := time.Now()

	m.AddPlayEvent("bob", core.PlayEvent{TrackID: "t1", PlayedAt: now})
	m.AddPlayEvent("alice", core.PlayEvent{TrackID: "t1", PlayedAt: now})
	m.AddPlayEvent("carol", core.PlayEvent{TrackID: "t9", PlayedAt: now})

	users, err := m.ListenersOfTracks(ctx, []string{"t1"}, 10)
	if err != nil {
		t.Fatal(err)
	}
	// 按 userID 排序保证确定性
	if len(users) != 2 || users[0] != "alice" || users[1] != "bob" {
		t.Errorf("ListenersOfTracks = %v, want [alice bob]", users)
	}
}

func TestMemoryStore_TrendingByGenres(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	m.AddTrack(core.Track{TrackID: "a", Genre: "pop", PlayCount: 10})
	m.AddTrack(core.Track{TrackID: "b", Genre: "pop", PlayCount: 90})
	m.AddTrack(core.Track{TrackID: "c", Genre: "jazz", PlayCount: 50})

	got, err := m.TrendingByGenres(ctx, []string{"pop"}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].TrackID != "b" {
		t.Errorf("TrendingByGenres = %v, want [b a]", got)
	}
}

func TestRedisProfileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	// 用内存 KV 验证 JSON 快照编解码逻辑
	ps := &RedisProfileStore{Store: NewMemoryStore()}

	p := &core.ListeningProfile{
		UserID:             "u1",
		TopGenres:          []string{"pop", "rock"},
		AvgTempo:           118,
		TotalListeningTime: 3 * time.Hour,
		RepeatCounts:       map[string]int{"t1": 4},
	}
	if err := ps.PersistProfile(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, err := ps.Profile(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.AvgTempo != 118 || got.RepeatCounts["t1"] != 4 || got.TotalListeningTime != 3*time.Hour {
		t.Errorf("round trip mismatch: %+v", got)
	}

	ids, err := ps.UserIDs(ctx)
	if err != nil || len(ids) != 1 || ids[0] != "u1" {
		t.Errorf("UserIDs = (%v, %v), want [u1]", ids, err)
	}

	if _, err := ps.Profile(ctx, "ghost"); !core.IsStoreNotFound(err) {
		t.Errorf("missing profile error = %v, want store not found", err)
	}

	if err := ps.PersistProfile(ctx, &core.ListeningProfile{}); err == nil {
		t.Error("expected error for profile without user id")
	}
}
