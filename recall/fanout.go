package recall

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pipeline"
)

// Fanout 是一个 Recall Node：并发执行多个候选池，并合并结果。
//
// 失败语义：单个池失败（超时/存储错误）只影响该池，记一条 Warn 日志后当作空池；
// 只有全部池都失败/为空时整体结果才为空。
//
// 合并语义：同一曲目可能被多个池以不同理由打分，合并时只保留分数更高的那个理由，
// recall_source 标签按 Merge 规则累积，便于 explain。
type Fanout struct {
	Sources       []Source
	Timeout       time.Duration // 每个候选池的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
	Logger        zerolog.Logger
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	var (
		mu    sync.Mutex
		all   []*core.Candidate
		eg, _ = errgroup.WithContext(ctx)
	)

	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for _, src := range n.Sources {
		s := src
		eg.Go(func() error {
			recallCtx := ctx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(ctx, n.Timeout)
				defer cancel()
			}

			candidates, err := s.Recall(recallCtx, rctx)
			if err != nil {
				// 单池失败不中断其他池：记日志后降级为空池
				n.Logger.Warn().
					Err(err).
					Str("source", s.Name()).
					Str("user_id", rctx.UserID).
					Msg("recall source failed, treating pool as empty")
				return nil
			}

			mu.Lock()
			all = append(all, candidates...)
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return n.merge(all), nil
}

// merge 按 TrackID 去重：保留分数更高的理由，标签累积。
func (n *Fanout) merge(all []*core.Candidate) []*core.Candidate {
	seen := make(map[string]*core.Candidate, len(all))
	out := make([]*core.Candidate, 0, len(all))
	for _, c := range all {
		if c == nil || c.TrackID == "" {
			continue
		}
		old, ok := seen[c.TrackID]
		if !ok {
			seen[c.TrackID] = c
			out = append(out, c)
			continue
		}

		// 同一曲目多个理由：保留最高分，合并标签与缺失的元数据
		if c.Score > old.Score {
			old.Score = c.Score
			old.Confidence = c.Confidence
			old.Reason = c.Reason
		}
		if old.Features == nil && c.Features != nil {
			old.Features = c.Features
		}
		if old.PlayCount == 0 && c.PlayCount > 0 {
			old.PlayCount = c.PlayCount
		}
		for k, v := range c.Labels {
			old.PutLabel(k, v)
		}
	}
	return out
}

var _ pipeline.Node = (*Fanout)(nil)
