package recall

import (
	"context"

	"github.com/rushteam/listenkit/core"
)

// Source 表示一个可复用的候选池（偏好艺人/流派热榜/协同过滤/...）。
// 你可以把它理解为“可并发 fan-out 的策略单元”。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Candidate, error)
}
