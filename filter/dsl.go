package filter

import (
	"context"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pkg/dsl"
)

// DSL 是基于表达式的过滤器：表达式求值为 true 时过滤该候选。
//
// 表达式语法见 pkg/dsl，示例：
//
//	candidate.play_count < 100
//	label.recall_source == "collaborative" && candidate.score < 0.5
type DSL struct {
	// Expr 是过滤表达式，求值为 true 的候选被移除
	Expr string
}

func (f *DSL) Name() string { return "filter.dsl" }

func (f *DSL) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	candidate *core.Candidate,
) (bool, error) {
	if f.Expr == "" {
		return false, nil
	}
	return dsl.NewEval(candidate, rctx).Evaluate(f.Expr)
}

var _ Filter = (*DSL)(nil)
