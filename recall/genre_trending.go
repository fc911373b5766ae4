package recall

import (
	"context"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pipeline"
	"github.com/rushteam/listenkit/pkg/stat"
	"github.com/rushteam/listenkit/pkg/utils"
)

// 流派热榜打分：基准分 + 播放量加成（上限 0.3）+ 命中偏好流派加成。
const (
	trendingBaseScore      = 0.6
	trendingPlayCountScale = 10000.0
	trendingPlayCountCap   = 0.3
	trendingGenreBonus     = 0.1
	trendingConfidence     = 0.75
)

// GenreTrending 是流派热榜候选池：取用户偏好流派内的热门曲目。
//   - 如果配置了 KeyValueStore，优先从有序集合 {KeyPrefix}:{genre} 读热榜
//     trackID（ZRange 按分数降序），再经 EventStore 补全元数据
//   - 否则直接走 EventStore.TrendingByGenres
//
// GenreTrending 同时实现了 Source 和 Node 接口。
type GenreTrending struct {
	Events core.EventStore
	Store  core.KeyValueStore

	// KeyPrefix 是热榜有序集合的 key 前缀，默认 "trending:genre"
	KeyPrefix string

	// Limit 池内候选上限，默认 100
	Limit int
}

func (r *GenreTrending) Name() string        { return "recall.genre_trending" }
func (r *GenreTrending) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *GenreTrending) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *GenreTrending) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if r.Events == nil || rctx == nil || rctx.Profile == nil {
		return nil, nil
	}
	genres := rctx.Profile.TopGenres
	if len(genres) == 0 {
		return nil, nil
	}

	limit := r.Limit
	if limit <= 0 {
		limit = 100
	}

	tracks := r.fromStore(ctx, genres, limit)
	if len(tracks) == 0 {
		var err error
		tracks, err = r.Events.TrendingByGenres(ctx, genres, limit)
		if err != nil {
			return nil, err
		}
	}

	out := make([]*core.Candidate, 0, len(tracks))
	for _, t := range tracks {
		c := core.NewCandidate(t)
		c.SetScore(r.score(t, rctx.Profile), trendingConfidence, core.ReasonTrendingInNetwork)
		c.PutLabel("recall_source", utils.Label{Value: "genre_trending", Source: "recall"})
		out = append(out, c)
	}
	return out, nil
}

// fromStore 尝试从有序集合读取热榜 trackID 并补全元数据；任何一步失败都回退。
func (r *GenreTrending) fromStore(ctx context.Context, genres []string, limit int) []core.Track {
	if r.Store == nil {
		return nil
	}
	prefix := r.KeyPrefix
	if prefix == "" {
		prefix = "trending:genre"
	}

	perGenre := int64(limit/len(genres)) + 1
	ids := make([]string, 0, limit)
	for _, genre := range genres {
		members, err := r.Store.ZRange(ctx, prefix+":"+genre, 0, perGenre-1)
		if err != nil {
			continue
		}
		ids = append(ids, members...)
	}
	if len(ids) == 0 {
		return nil
	}

	tracks, err := r.Events.TracksByIDs(ctx, ids)
	if err != nil {
		return nil
	}
	return tracks
}

// score 按播放量与流派命中计算热榜分。
func (r *GenreTrending) score(t core.Track, profile *core.ListeningProfile) float64 {
	score := trendingBaseScore
	score += stat.Clamp(float64(t.PlayCount)/trendingPlayCountScale, 0, trendingPlayCountCap)
	if profile.HasGenre(t.Genre) {
		score += trendingGenreBonus
	}
	return stat.Clamp01(score)
}
