package core

import "github.com/rushteam/listenkit/pkg/utils"

// Candidate 是推荐链路中的统一承载结构：曲目元数据、分数、理由、标签。
// Labels 用于解释与观测（候选来源、过滤原因等）；Score*Confidence 用于最终排序。
type Candidate struct {
	Track

	Score      float64
	Confidence float64
	Reason     Reason

	Labels map[string]utils.Label
}

// NewCandidate 基于曲目元数据创建候选。
func NewCandidate(t Track) *Candidate {
	return &Candidate{
		Track:  t,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// SetScore 仅在新分数更高时覆盖分数/理由/置信度，
// 保证同一曲目多个理由打分时只保留最高分的理由。
func (c *Candidate) SetScore(score, confidence float64, reason Reason) bool {
	if score <= c.Score && c.Reason != "" {
		return false
	}
	c.Score = score
	c.Confidence = confidence
	c.Reason = reason
	return true
}

// Recommendation 将候选转为对外的推荐结果，分数与置信度钳制到 [0,1]。
func (c *Candidate) Recommendation() TrackRecommendation {
	return TrackRecommendation{
		TrackID:    c.TrackID,
		Score:      clamp01(c.Score),
		Reason:     c.Reason,
		Confidence: clamp01(c.Confidence),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
