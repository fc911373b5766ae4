package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/listenkit/core"
)

func moodCandidate(trackID string, f *core.AudioFeatures) *core.Candidate {
	return core.NewCandidate(core.Track{TrackID: trackID, Features: f})
}

func TestMatchesMood(t *testing.T) {
	tests := []struct {
		name     string
		features core.AudioFeatures
		mood     core.Mood
		want     bool
	}{
		{name: "happy hit", features: core.AudioFeatures{Valence: 0.7, Energy: 0.6}, mood: core.MoodHappy, want: true},
		{name: "happy boundary excluded", features: core.AudioFeatures{Valence: 0.6, Energy: 0.6}, mood: core.MoodHappy, want: false},
		{name: "sad hit", features: core.AudioFeatures{Valence: 0.3, Energy: 0.4}, mood: core.MoodSad, want: true},
		{name: "energetic hit", features: core.AudioFeatures{Energy: 0.8, Tempo: 130}, mood: core.MoodEnergetic, want: true},
		{name: "energetic slow tempo", features: core.AudioFeatures{Energy: 0.8, Tempo: 110}, mood: core.MoodEnergetic, want: false},
		{name: "calm hit", features: core.AudioFeatures{Energy: 0.2, Tempo: 80}, mood: core.MoodCalm, want: true},
		{name: "calm too fast", features: core.AudioFeatures{Energy: 0.2, Tempo: 120}, mood: core.MoodCalm, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.features
			if got := MatchesMood(&f, tt.mood); got != tt.want {
				t.Errorf("MatchesMood(%+v, %s) = %v, want %v", tt.features, tt.mood, got, tt.want)
			}
		})
	}
}

func TestMood_Process(t *testing.T) {
	node := &Mood{}
	candidates := []*core.Candidate{
		moodCandidate("happy", &core.AudioFeatures{Valence: 0.8, Energy: 0.7}),
		moodCandidate("sad", &core.AudioFeatures{Valence: 0.2, Energy: 0.3}),
		moodCandidate("unknown", nil),
	}

	// 未指定心情：原样放行，特征缺失的候选也保留
	out, err := node.Process(context.Background(), &core.RecommendContext{}, candidates)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Errorf("no mood filter should pass all, got %d", len(out))
	}

	// 指定心情：只留命中区间的，特征缺失的一并丢弃
	rctx := &core.RecommendContext{Options: core.RecommendOptions{MoodFilter: core.MoodHappy}}
	out, err = node.Process(context.Background(), rctx, candidates)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].TrackID != "happy" {
		t.Errorf("happy filter result = %v, want only 'happy'", out)
	}
}
