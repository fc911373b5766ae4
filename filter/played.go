package filter

import (
	"context"
	"sync"

	"github.com/rushteam/listenkit/core"
)

// Played 过滤掉用户近期播放过的曲目（用于 ExcludeRecentlyPlayed 选项）。
// 同一次请求内只取一次播放历史，之后走内存集合判断。
type Played struct {
	Events core.EventStore

	// HistoryLimit 取多少条近期历史构建已播放集合，默认 100
	HistoryLimit int

	once   sync.Once
	played map[string]struct{}
	err    error
}

func (f *Played) Name() string { return "filter.played" }

func (f *Played) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	candidate *core.Candidate,
) (bool, error) {
	if f.Events == nil || rctx == nil || rctx.UserID == "" {
		return false, nil
	}

	f.once.Do(func() {
		limit := f.HistoryLimit
		if limit <= 0 {
			limit = 100
		}
		history, err := f.Events.ListeningHistory(ctx, rctx.UserID, limit)
		if err != nil {
			f.err = err
			return
		}
		f.played = make(map[string]struct{}, len(history))
		for _, ev := range history {
			f.played[ev.TrackID] = struct{}{}
		}
	})
	if f.err != nil {
		return false, f.err
	}

	_, ok := f.played[candidate.TrackID]
	return ok, nil
}

var _ Filter = (*Played)(nil)
