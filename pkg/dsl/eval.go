// Package dsl 提供基于 CEL (Common Expression Language) 的候选过滤表达式解释器。
// 调用方可以用声明式规则剔除候选，而不用为每条业务规则写一个 Filter 实现。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/listenkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		// 定义变量类型
		cel.Variable("candidate", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("user", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是候选规则解释器。表达式返回 true 表示候选命中规则（应被过滤）。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：candidate.score < 0.3 / candidate.play_count > 100000
//   - 标签：label.recall_source == "genre_trending"
//   - 逻辑：label.recall_source.contains("collaborative") && candidate.score < 0.4
//   - 用户：user.id == "u1" / candidate.genre in user.top_genres
type Eval struct {
	candidate *core.Candidate
	rctx      *core.RecommendContext
	env       *cel.Env
}

// NewEval 创建一个新的规则解释器。
func NewEval(candidate *core.Candidate, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		candidate: candidate,
		rctx:      rctx,
		env:       env,
	}
}

// Evaluate 解析并执行表达式，返回布尔结果。
// 表达式编译或求值失败时返回错误，由调用方决定是否忽略该规则。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if e.env == nil {
		return false, fmt.Errorf("cel env not initialized")
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile expression: %w", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("build program: %w", err)
	}

	out, _, err := prg.Eval(e.activation())
	if err != nil {
		return false, fmt.Errorf("eval expression: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression did not return bool: %v", out.Value())
	}
	return result, nil
}

// activation 将候选/标签/用户展开为 CEL 求值上下文。
func (e *Eval) activation() map[string]any {
	candidate := map[string]any{}
	label := map[string]any{}
	user := map[string]any{}

	if e.candidate != nil {
		candidate["track_id"] = e.candidate.TrackID
		candidate["artist_id"] = e.candidate.ArtistID
		candidate["genre"] = e.candidate.Genre
		candidate["play_count"] = e.candidate.PlayCount
		candidate["score"] = e.candidate.Score
		candidate["confidence"] = e.candidate.Confidence
		candidate["reason"] = string(e.candidate.Reason)
		for k, lbl := range e.candidate.Labels {
			label[k] = lbl.Value
		}
	}

	if e.rctx != nil {
		user["id"] = e.rctx.UserID
		if p := e.rctx.Profile; p != nil {
			user["top_genres"] = p.TopGenres
			user["top_artists"] = p.TopArtists
			user["avg_tempo"] = p.AvgTempo
			user["avg_energy"] = p.AvgEnergy
			user["avg_valence"] = p.AvgValence
		}
	}

	return map[string]any{
		"candidate": candidate,
		"label":     label,
		"user":      user,
	}
}
