package rerank

import (
	"context"
	"sort"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pipeline"
)

// TopN 是出口节点：按 Score*Confidence 降序稳定排序，
// 去重（同一 TrackID 只保留排序后的第一个），截断到请求的 Limit。
type TopN struct {
	// DefaultLimit 在请求未指定 Limit 时生效，默认 20
	DefaultLimit int
}

func (n *TopN) Name() string        { return "rerank.topn" }
func (n *TopN) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopN) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	out := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			out = append(out, c)
		}
	}

	// 稳定排序：同分保持上游顺序，保证结果可复现
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score*out[i].Confidence > out[j].Score*out[j].Confidence
	})

	seen := make(map[string]struct{}, len(out))
	deduped := out[:0]
	for _, c := range out {
		if _, ok := seen[c.TrackID]; ok {
			continue
		}
		seen[c.TrackID] = struct{}{}
		deduped = append(deduped, c)
	}

	limit := 0
	if rctx != nil {
		limit = rctx.Limit
	}
	if limit <= 0 {
		limit = n.DefaultLimit
	}
	if limit <= 0 {
		limit = 20
	}
	if len(deduped) > limit {
		deduped = deduped[:limit]
	}
	return deduped, nil
}

var _ pipeline.Node = (*TopN)(nil)
