package rank

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/listenkit/core"
)

func testProfile() *core.ListeningProfile {
	return &core.ListeningProfile{
		UserID:     "u1",
		TopGenres:  []string{"pop"},
		AvgTempo:   120,
		AvgEnergy:  0.5,
		AvgValence: 0.5,
	}
}

func TestContentScorer_Score(t *testing.T) {
	scorer := &ContentScorer{}

	tests := []struct {
		name  string
		track core.Track
		want  float64
	}{
		{
			// 每个维度都完全匹配：0.15+0.25+0.25+0.15+0.1+0.1 = 1.0
			name: "perfect match without genre bonus",
			track: core.Track{
				TrackID: "t1",
				Genre:   "rock",
				Features: &core.AudioFeatures{
					Tempo: 120, Energy: 0.5, Valence: 0.5,
					Danceability: 0.7, Acousticness: 0.5, Instrumentalness: 0.5,
				},
			},
			want: 1.0,
		},
		{
			// 流派加成把分数推过 1，钳制回 1
			name: "genre bonus clamped",
			track: core.Track{
				TrackID: "t2",
				Genre:   "pop",
				Features: &core.AudioFeatures{
					Tempo: 120, Energy: 0.5, Valence: 0.5,
					Danceability: 0.7, Acousticness: 0.5, Instrumentalness: 0.5,
				},
			},
			want: 1.0,
		},
		{
			// 节奏差 40 BPM：0.15*(1-40/200) = 0.12，其余维度匹配
			name: "tempo off by 40",
			track: core.Track{
				TrackID: "t3",
				Genre:   "rock",
				Features: &core.AudioFeatures{
					Tempo: 160, Energy: 0.5, Valence: 0.5,
					Danceability: 0.7, Acousticness: 0.5, Instrumentalness: 0.5,
				},
			},
			want: 0.97,
		},
		{name: "missing features", track: core.Track{TrackID: "t4"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(tt.track, testProfile())
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContentScorer_CloserTempoScoresHigher(t *testing.T) {
	scorer := &ContentScorer{}
	base := core.AudioFeatures{Energy: 0.5, Valence: 0.5, Danceability: 0.7, Acousticness: 0.5, Instrumentalness: 0.5}

	near := base
	near.Tempo = 118
	far := base
	far.Tempo = 60

	nearScore := scorer.Score(core.Track{Features: &near}, testProfile())
	farScore := scorer.Score(core.Track{Features: &far}, testProfile())
	if nearScore <= farScore {
		t.Errorf("tempo 118 scored %v, tempo 60 scored %v; closer tempo should score higher", nearScore, farScore)
	}

	// 节奏差超过 200 BPM 后封顶，不再继续扣分
	veryFar := base
	veryFar.Tempo = 400
	extreme := base
	extreme.Tempo = 500
	if a, b := scorer.Score(core.Track{Features: &veryFar}, testProfile()), scorer.Score(core.Track{Features: &extreme}, testProfile()); math.Abs(a-b) > 1e-9 {
		t.Errorf("tempo gap beyond 200 should saturate: %v != %v", a, b)
	}
}

func TestContentNode_OnlyRaisesScore(t *testing.T) {
	node := &ContentNode{}
	rctx := &core.RecommendContext{UserID: "u1", Profile: testProfile()}

	high := core.NewCandidate(core.Track{
		TrackID: "high",
		Genre:   "rock",
		Features: &core.AudioFeatures{
			Tempo: 120, Energy: 0.5, Valence: 0.5,
			Danceability: 0.7, Acousticness: 0.5, Instrumentalness: 0.5,
		},
	})
	high.SetScore(0.99, 0.85, core.ReasonCollaborativeFiltering)

	low := core.NewCandidate(core.Track{
		TrackID:  "low",
		Genre:    "rock",
		Features: &core.AudioFeatures{Tempo: 60, Energy: 0.9, Valence: 0.1},
	})
	low.SetScore(0.1, 0.85, core.ReasonCollaborativeFiltering)

	out, err := node.Process(context.Background(), rctx, []*core.Candidate{high, low})
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}

	// 内容分 1.0 > 0.99：理由切换为内容相似
	if out[0].Reason != core.ReasonSimilarAudioFeatures {
		t.Errorf("high candidate reason = %s, want %s", out[0].Reason, core.ReasonSimilarAudioFeatures)
	}
	if out[0].Confidence != 0.8 {
		t.Errorf("content confidence = %v, want 0.8", out[0].Confidence)
	}

	// 内容分高于原 0.1：低分候选也被内容分覆盖
	if out[1].Score <= 0.1 {
		t.Errorf("low candidate score = %v, should have been raised", out[1].Score)
	}
}
