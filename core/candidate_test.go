package core

import (
	"testing"

	"github.com/rushteam/listenkit/pkg/utils"
)

func TestCandidate_SetScoreKeepsHighest(t *testing.T) {
	c := NewCandidate(Track{TrackID: "t1"})

	if !c.SetScore(0.4, 0.85, ReasonCollaborativeFiltering) {
		t.Error("first score must always apply")
	}
	if c.SetScore(0.3, 0.8, ReasonSimilarAudioFeatures) {
		t.Error("lower score must not overwrite")
	}
	if c.Reason != ReasonCollaborativeFiltering || c.Score != 0.4 {
		t.Errorf("candidate = %v/%s after lower score", c.Score, c.Reason)
	}

	if !c.SetScore(0.9, 0.8, ReasonSimilarAudioFeatures) {
		t.Error("higher score must overwrite")
	}
	if c.Reason != ReasonSimilarAudioFeatures || c.Confidence != 0.8 {
		t.Errorf("candidate = %s/%v after higher score", c.Reason, c.Confidence)
	}
}

func TestCandidate_RecommendationClamps(t *testing.T) {
	c := NewCandidate(Track{TrackID: "t1"})
	c.Score = 1.3
	c.Confidence = -0.1
	c.Reason = ReasonTrendingInNetwork

	rec := c.Recommendation()
	if rec.Score != 1 || rec.Confidence != 0 {
		t.Errorf("clamp failed: %+v", rec)
	}
}

func TestCandidate_PutLabelMerges(t *testing.T) {
	c := NewCandidate(Track{TrackID: "t1"})
	c.PutLabel("recall_source", utils.Label{Value: "artist", Source: "recall"})
	c.PutLabel("recall_source", utils.Label{Value: "collaborative", Source: "recall"})

	lbl := c.Labels["recall_source"]
	if lbl.Value != "artist|collaborative" {
		t.Errorf("merged value = %q, want artist|collaborative", lbl.Value)
	}
}

func TestDefaultProfileIsCopy(t *testing.T) {
	a := DefaultProfile("u1")
	a.TopGenres[0] = "mutated"

	b := DefaultProfile("u2")
	if b.TopGenres[0] != DefaultTopGenres[0] {
		t.Error("DefaultProfile must return an independent copy")
	}
}

func TestParsers(t *testing.T) {
	if _, ok := ParseReason("similar_audio_features"); !ok {
		t.Error("known reason rejected")
	}
	if _, ok := ParseReason("bribery"); ok {
		t.Error("unknown reason accepted")
	}
	if m, ok := ParseMood(""); !ok || m != MoodNone {
		t.Error("empty mood should parse to MoodNone")
	}
	if _, ok := ParseAnomalyType("vpn_spoofing"); !ok {
		t.Error("known anomaly type rejected")
	}
	if _, ok := ParseClusterType("regional_fan"); !ok {
		t.Error("known cluster type rejected")
	}
}
