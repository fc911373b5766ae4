package rerank

import (
	"context"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pipeline"
)

// 心情区间阈值。区间允许重叠，一首曲目可以同时匹配多个心情。
const (
	happyValenceMin = 0.6
	happyEnergyMin  = 0.5

	sadValenceMax = 0.4
	sadEnergyMax  = 0.5

	energeticEnergyMin = 0.7
	energeticTempoMin  = 120.0

	calmEnergyMax = 0.3
	calmTempoMax  = 100.0
)

// Mood 按请求指定的心情过滤候选。
// 未指定心情时原样放行；指定心情时，特征缺失的候选一并丢弃
// （无法证明匹配的曲目不能出现在心情过滤后的结果里）。
type Mood struct{}

func (n *Mood) Name() string        { return "rerank.mood" }
func (n *Mood) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *Mood) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if rctx == nil || rctx.Options.MoodFilter == core.MoodNone {
		return candidates, nil
	}

	mood := rctx.Options.MoodFilter
	out := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil || c.Features == nil {
			continue
		}
		if MatchesMood(c.Features, mood) {
			out = append(out, c)
		}
	}
	return out, nil
}

// MatchesMood 判断音频特征是否落在指定心情的区间内。
func MatchesMood(f *core.AudioFeatures, mood core.Mood) bool {
	if f == nil {
		return false
	}
	switch mood {
	case core.MoodHappy:
		return f.Valence > happyValenceMin && f.Energy > happyEnergyMin
	case core.MoodSad:
		return f.Valence < sadValenceMax && f.Energy < sadEnergyMax
	case core.MoodEnergetic:
		return f.Energy > energeticEnergyMin && f.Tempo > energeticTempoMin
	case core.MoodCalm:
		return f.Energy < calmEnergyMax && f.Tempo < calmTempoMax
	}
	return false
}

var _ pipeline.Node = (*Mood)(nil)
