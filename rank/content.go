package rank

import (
	"context"
	"math"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pipeline"
	"github.com/rushteam/listenkit/pkg/stat"
)

// 内容相似度权重（总和 1.0 + 流派加成 0.25，结果钳制到 [0,1]）。
// 这些精确值是打分契约的一部分，改动会直接改变推荐排序。
const (
	weightTempo            = 0.15
	weightEnergy           = 0.25
	weightValence          = 0.25
	weightDanceability     = 0.15
	weightAcousticness     = 0.1
	weightInstrumentalness = 0.1

	genreMatchBonus = 0.25

	// tempoNormalizeRange 是节奏差值的归一化范围（BPM）
	tempoNormalizeRange = 200.0

	contentConfidence = 0.8
)

// 画像不覆盖的维度使用固定目标值。
const (
	targetDanceability     = 0.7
	targetAcousticness     = 0.5
	targetInstrumentalness = 0.5
)

// ContentScorer 计算曲目音频特征与用户画像的相似度，范围 [0,1]。
//
// 打分公式（各维度相似度 = 1 - 归一化差值）：
//
//	score = 0.15*tempo + 0.25*energy + 0.25*valence
//	      + 0.15*danceability + 0.10*acousticness + 0.10*instrumentalness
//	      + 0.25*(流派命中)
//
// 节奏差值除以 200 BPM 归一化；energy/valence 与画像均值比较，
// danceability/acousticness/instrumentalness 与固定目标值比较。
type ContentScorer struct{}

// Score 返回曲目与画像的内容相似度。Features 缺失时返回 0。
func (s *ContentScorer) Score(t core.Track, profile *core.ListeningProfile) float64 {
	if t.Features == nil || profile == nil {
		return 0
	}
	f := t.Features

	tempoDiff := math.Min(math.Abs(f.Tempo-profile.AvgTempo)/tempoNormalizeRange, 1)
	score := weightTempo * (1 - tempoDiff)
	score += weightEnergy * (1 - math.Abs(f.Energy-profile.AvgEnergy))
	score += weightValence * (1 - math.Abs(f.Valence-profile.AvgValence))
	score += weightDanceability * (1 - math.Abs(f.Danceability-targetDanceability))
	score += weightAcousticness * (1 - math.Abs(f.Acousticness-targetAcousticness))
	score += weightInstrumentalness * (1 - math.Abs(f.Instrumentalness-targetInstrumentalness))

	if profile.HasGenre(t.Genre) {
		score += genreMatchBonus
	}
	return stat.Clamp01(score)
}

// ContentNode 是排序阶段的 Pipeline 节点：对每个候选计算内容相似度，
// 仅当内容分高于已有分数时覆盖（理由替换为 similar_audio_features）。
type ContentNode struct {
	Scorer ContentScorer
}

func (n *ContentNode) Name() string        { return "rank.content" }
func (n *ContentNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ContentNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if rctx == nil || rctx.Profile == nil {
		return candidates, nil
	}
	for _, c := range candidates {
		if c == nil || c.Features == nil {
			continue
		}
		score := n.Scorer.Score(c.Track, rctx.Profile)
		c.SetScore(score, contentConfidence, core.ReasonSimilarAudioFeatures)
	}
	return candidates, nil
}

var _ pipeline.Node = (*ContentNode)(nil)
