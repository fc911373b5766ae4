package recall

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/store"
)

func TestGenreTrending_ScoreFormula(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.AddTrack(core.Track{TrackID: "hot_pop", Genre: "pop", PlayCount: 5000})
	mem.AddTrack(core.Track{TrackID: "mega_pop", Genre: "pop", PlayCount: 50000})
	mem.AddTrack(core.Track{TrackID: "hot_jazz", Genre: "jazz", PlayCount: 5000})

	r := &GenreTrending{Events: mem}
	profile := &core.ListeningProfile{UserID: "u1", TopGenres: []string{"pop"}}
	rctx := &core.RecommendContext{UserID: "u1", Profile: profile}

	out, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall error: %v", err)
	}

	byID := make(map[string]*core.Candidate)
	for _, c := range out {
		byID[c.TrackID] = c
	}

	// 0.6 基准 + min(5000/10000, 0.3) + 0.1 流派命中 = 1.0
	hot := byID["hot_pop"]
	if hot == nil {
		t.Fatal("hot_pop missing")
	}
	if math.Abs(hot.Score-1.0) > 1e-9 {
		t.Errorf("hot_pop score = %v, want 1.0", hot.Score)
	}
	if hot.Confidence != 0.75 || hot.Reason != core.ReasonTrendingInNetwork {
		t.Errorf("hot_pop conf/reason = %v/%s", hot.Confidence, hot.Reason)
	}

	// 播放量加成封顶 0.3：更大的播放量不再加分
	if mega := byID["mega_pop"]; mega == nil || math.Abs(mega.Score-hot.Score) > 1e-9 {
		t.Errorf("play count bonus should cap at 0.3")
	}

	// jazz 不在偏好流派里，不会被召回
	if _, ok := byID["hot_jazz"]; ok {
		t.Error("hot_jazz should not be recalled for a pop listener")
	}
}

func TestGenreTrending_StoreLeaderboardPreferred(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	mem.AddTrack(core.Track{TrackID: "ranked_1", Genre: "pop", PlayCount: 100})
	mem.AddTrack(core.Track{TrackID: "ranked_2", Genre: "pop", PlayCount: 200})

	if err := mem.ZAdd(ctx, "trending:genre:pop", 99, "ranked_1"); err != nil {
		t.Fatal(err)
	}
	if err := mem.ZAdd(ctx, "trending:genre:pop", 50, "ranked_2"); err != nil {
		t.Fatal(err)
	}

	r := &GenreTrending{Events: mem, Store: mem, Limit: 10}
	rctx := &core.RecommendContext{
		UserID:  "u1",
		Profile: &core.ListeningProfile{UserID: "u1", TopGenres: []string{"pop"}},
	}

	out, err := r.Recall(ctx, rctx)
	if err != nil {
		t.Fatalf("Recall error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 candidates from leaderboard, got %d", len(out))
	}
	// 有序集合按分数降序：ranked_1 在前
	if out[0].TrackID != "ranked_1" {
		t.Errorf("leaderboard order not preserved: first = %s", out[0].TrackID)
	}
}

func TestArtistTracks_Recall(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.AddTrack(core.Track{TrackID: "t_fav", ArtistID: "fav", Genre: "pop"})
	mem.AddTrack(core.Track{TrackID: "t_other", ArtistID: "other", Genre: "pop"})

	r := &ArtistTracks{Events: mem}
	rctx := &core.RecommendContext{
		UserID:  "u1",
		Profile: &core.ListeningProfile{UserID: "u1", TopArtists: []string{"fav"}},
	}

	out, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall error: %v", err)
	}
	if len(out) != 1 || out[0].TrackID != "t_fav" {
		t.Fatalf("expected only favorite artist track, got %v", out)
	}
	if out[0].Score != 0.8 || out[0].Confidence != 0.85 || out[0].Reason != core.ReasonArtistSimilarity {
		t.Errorf("artist pool contract: score=%v conf=%v reason=%s", out[0].Score, out[0].Confidence, out[0].Reason)
	}
}
