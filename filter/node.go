package filter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pipeline"
)

// Node 是过滤阶段的 Pipeline 节点：依次应用多个 Filter。
// 单个 Filter 出错时保留候选并记日志（过滤失败不应让整条请求失败）。
type Node struct {
	Filters []Filter
	Logger  zerolog.Logger
}

func (n *Node) Name() string        { return "filter" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Filters) == 0 || len(candidates) == 0 {
		return candidates, nil
	}

	out := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		filtered := false
		for _, f := range n.Filters {
			hit, err := f.ShouldFilter(ctx, rctx, c)
			if err != nil {
				n.Logger.Warn().
					Err(err).
					Str("filter", f.Name()).
					Str("track_id", c.TrackID).
					Msg("filter failed, keeping candidate")
				continue
			}
			if hit {
				filtered = true
				break
			}
		}
		if !filtered {
			out = append(out, c)
		}
	}
	return out, nil
}

var _ pipeline.Node = (*Node)(nil)
