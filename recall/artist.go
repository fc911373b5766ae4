package recall

import (
	"context"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pipeline"
	"github.com/rushteam/listenkit/pkg/utils"
)

// 偏好艺人池的固定打分：曲目出自用户 Top 艺人即给基准分。
const (
	artistBaseScore      = 0.8
	artistBaseConfidence = 0.85
)

// ArtistTracks 是偏好艺人候选池：取用户 Top 艺人的曲目。
// 画像无偏好艺人时返回空（冷启动用户依赖其他池）。
// ArtistTracks 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type ArtistTracks struct {
	Events core.EventStore

	// Limit 池内候选上限，默认 100
	Limit int
}

func (r *ArtistTracks) Name() string        { return "recall.artist" }
func (r *ArtistTracks) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *ArtistTracks) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *ArtistTracks) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if r.Events == nil || rctx == nil || rctx.Profile == nil {
		return nil, nil
	}
	if len(rctx.Profile.TopArtists) == 0 {
		return nil, nil
	}

	limit := r.Limit
	if limit <= 0 {
		limit = 100
	}

	tracks, err := r.Events.TracksByArtists(ctx, rctx.Profile.TopArtists, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Candidate, 0, len(tracks))
	for _, t := range tracks {
		c := core.NewCandidate(t)
		c.SetScore(artistBaseScore, artistBaseConfidence, core.ReasonArtistSimilarity)
		c.PutLabel("recall_source", utils.Label{Value: "artist", Source: "recall"})
		out = append(out, c)
	}
	return out, nil
}
