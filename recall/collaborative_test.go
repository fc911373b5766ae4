package recall

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/store"
)

func seedCollaborative(t *testing.T) *store.MemoryStore {
	t.Helper()
	mem := store.NewMemoryStore()
	now := time.Now()

	play := func(userID, trackID, artistID, genre string) {
		mem.AddPlayEvent(userID, core.PlayEvent{
			TrackID:  trackID,
			ArtistID: artistID,
			Genre:    genre,
			PlayedAt: now,
			Duration: 3 * time.Minute,
		})
	}

	// alice 与 bob 高度重叠：bob 的 t3 成为 alice 的候选
	play("alice", "t1", "a1", "pop")
	play("alice", "t2", "a1", "pop")
	play("bob", "t1", "a1", "pop")
	play("bob", "t2", "a1", "pop")
	play("bob", "t3", "a2", "rock")

	// carol 与 alice 只有 1/5 重叠（0.2 未达阈值需要 >= 0.2；1/(2+4-1)=0.2）
	// carol: t1, x1, x2, x3 -> common=1, union=5, overlap=0.2，刚好达到阈值
	play("carol", "t1", "a1", "pop")
	play("carol", "x1", "a3", "jazz")
	play("carol", "x2", "a3", "jazz")
	play("carol", "x3", "a3", "jazz")

	return mem
}

func TestCollaborative_Recall(t *testing.T) {
	mem := seedCollaborative(t)
	r := &Collaborative{Events: mem}
	rctx := &core.RecommendContext{UserID: "alice", Profile: core.DefaultProfile("alice")}

	out, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected candidates from neighbor history")
	}

	byID := make(map[string]*core.Candidate, len(out))
	for _, c := range out {
		// 目标用户已播放的曲目绝不能出现在候选里
		if c.TrackID == "t1" || c.TrackID == "t2" {
			t.Errorf("played track %s must not be recommended", c.TrackID)
		}
		byID[c.TrackID] = c
	}

	t3, ok := byID["t3"]
	if !ok {
		t.Fatal("expected t3 from bob's history")
	}
	// 1 次邻居播放：min(0.9, 1/1000 + 0.3) = 0.301
	if math.Abs(t3.Score-0.301) > 1e-9 {
		t.Errorf("t3 score = %v, want 0.301", t3.Score)
	}
	if t3.Reason != core.ReasonCollaborativeFiltering {
		t.Errorf("t3 reason = %s, want %s", t3.Reason, core.ReasonCollaborativeFiltering)
	}
	if t3.Confidence != 0.85 {
		t.Errorf("t3 confidence = %v, want 0.85", t3.Confidence)
	}

	// carol 重叠度 0.2 达到阈值：她的 jazz 曲目也可以进入候选
	if _, ok := byID["x1"]; !ok {
		t.Error("expected x1 from carol (overlap exactly at threshold)")
	}
}

func TestCollaborative_ColdStart(t *testing.T) {
	mem := store.NewMemoryStore()
	r := &Collaborative{Events: mem}
	rctx := &core.RecommendContext{UserID: "nobody", Profile: core.DefaultProfile("nobody")}

	out, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("cold start should yield empty pool, got %d", len(out))
	}
}

func TestCollaborative_ScoreCap(t *testing.T) {
	mem := store.NewMemoryStore()
	now := time.Now()

	mem.AddPlayEvent("alice", core.PlayEvent{TrackID: "t1", PlayedAt: now})
	// 邻居播放同一曲目 700 次：0.7+0.3 超过 0.9，封顶
	mem.AddPlayEvent("bob", core.PlayEvent{TrackID: "t1", PlayedAt: now})
	for i := 0; i < 700; i++ {
		mem.AddPlayEvent("bob", core.PlayEvent{TrackID: "hot", PlayedAt: now})
	}

	r := &Collaborative{Events: mem, HistoryLimit: 1000}
	rctx := &core.RecommendContext{UserID: "alice", Profile: core.DefaultProfile("alice")}

	out, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall error: %v", err)
	}
	for _, c := range out {
		if c.TrackID == "hot" && c.Score != 0.9 {
			t.Errorf("hot score = %v, want capped at 0.9", c.Score)
		}
	}
}
