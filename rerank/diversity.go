package rerank

import (
	"context"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pipeline"
)

// GenreDiversity 打散节点：限制滑动窗口内同一流派的数量，避免结果被单一流派刷屏。
// 超出窗口限制的候选被顺延到后面，相对顺序不变。
type GenreDiversity struct {
	// MaxPerWindow 滑动窗口内同一流派的最大数量，默认 2
	MaxPerWindow int

	// WindowSize 滑动窗口大小，默认 5
	WindowSize int
}

func (n *GenreDiversity) Name() string        { return "rerank.genre_diversity" }
func (n *GenreDiversity) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *GenreDiversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	maxPer := n.MaxPerWindow
	if maxPer <= 0 {
		maxPer = 2
	}
	window := n.WindowSize
	if window <= 0 {
		window = 5
	}
	if len(candidates) <= maxPer {
		return candidates, nil
	}

	out := make([]*core.Candidate, 0, len(candidates))
	pending := append([]*core.Candidate(nil), candidates...)

	for len(pending) > 0 {
		picked := -1
		for i, c := range pending {
			if c == nil {
				continue
			}
			if n.countInWindow(out, c.Genre, window) < maxPer {
				picked = i
				break
			}
		}
		// 剩余候选全部超限时放弃打散，按原顺序补齐
		if picked < 0 {
			for _, c := range pending {
				if c != nil {
					out = append(out, c)
				}
			}
			break
		}
		out = append(out, pending[picked])
		pending = append(pending[:picked], pending[picked+1:]...)
	}
	return out, nil
}

// countInWindow 统计 out 尾部窗口内指定流派的数量。
func (n *GenreDiversity) countInWindow(out []*core.Candidate, genre string, window int) int {
	if genre == "" {
		return 0
	}
	start := len(out) - window + 1
	if start < 0 {
		start = 0
	}
	count := 0
	for _, c := range out[start:] {
		if c.Genre == genre {
			count++
		}
	}
	return count
}

var _ pipeline.Node = (*GenreDiversity)(nil)
