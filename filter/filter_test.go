package filter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/store"
)

func TestPlayed_FiltersRecentHistory(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.AddPlayEvent("u1", core.PlayEvent{TrackID: "heard", PlayedAt: time.Now()})

	node := &Node{
		Filters: []Filter{&Played{Events: mem}},
		Logger:  zerolog.Nop(),
	}
	rctx := &core.RecommendContext{UserID: "u1"}
	candidates := []*core.Candidate{
		core.NewCandidate(core.Track{TrackID: "heard"}),
		core.NewCandidate(core.Track{TrackID: "fresh"}),
	}

	out, err := node.Process(context.Background(), rctx, candidates)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].TrackID != "fresh" {
		t.Fatalf("expected only unplayed track, got %v", out)
	}
}

type errorFilter struct{}

func (errorFilter) Name() string { return "filter.error" }

func (errorFilter) ShouldFilter(context.Context, *core.RecommendContext, *core.Candidate) (bool, error) {
	return true, errors.New("boom")
}

func TestNode_FilterErrorKeepsCandidate(t *testing.T) {
	node := &Node{
		Filters: []Filter{errorFilter{}},
		Logger:  zerolog.Nop(),
	}
	candidates := []*core.Candidate{core.NewCandidate(core.Track{TrackID: "t1"})}

	out, err := node.Process(context.Background(), &core.RecommendContext{UserID: "u1"}, candidates)
	if err != nil {
		t.Fatal(err)
	}
	// 过滤器故障不应让候选丢失
	if len(out) != 1 {
		t.Errorf("filter error dropped candidate: got %d", len(out))
	}
}

func TestDSL_Filter(t *testing.T) {
	f := &DSL{Expr: "candidate.play_count < 100"}

	unpopular := core.NewCandidate(core.Track{TrackID: "t1", PlayCount: 10})
	popular := core.NewCandidate(core.Track{TrackID: "t2", PlayCount: 50000})
	rctx := &core.RecommendContext{UserID: "u1", Profile: core.DefaultProfile("u1")}

	if hit, err := f.ShouldFilter(context.Background(), rctx, unpopular); err != nil || !hit {
		t.Errorf("unpopular: (%v, %v), want filtered", hit, err)
	}
	if hit, err := f.ShouldFilter(context.Background(), rctx, popular); err != nil || hit {
		t.Errorf("popular: (%v, %v), want kept", hit, err)
	}

	// 空表达式不过滤
	empty := &DSL{}
	if hit, err := empty.ShouldFilter(context.Background(), rctx, unpopular); err != nil || hit {
		t.Errorf("empty expr: (%v, %v), want kept", hit, err)
	}
}
