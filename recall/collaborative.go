package recall

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pipeline"
	"github.com/rushteam/listenkit/pkg/utils"
)

// 协同过滤契约常量（精确值即契约，不是可调默认值）。
const (
	// collabSimilarityThreshold 是邻居入选的最小 Jaccard 重叠度
	collabSimilarityThreshold = 0.2

	// collabMaxNeighbors 是按重叠度取的 TopK 邻居数
	collabMaxNeighbors = 10

	// 候选分 = min(0.9, 邻居播放次数/1000 + 0.3)
	collabScoreCap   = 0.9
	collabScoreScale = 1000.0
	collabScoreBase  = 0.3

	collabConfidence = 0.85
)

// Collaborative 是协同过滤候选池（User-based CF）。
//
// 核心思想："兴趣相似的用户，喜欢相似的曲目"
//
// 算法流程：
//  1. 取目标用户近期播放的 trackID 集合
//  2. 找到同样播放过这些曲目的用户，计算 Jaccard 重叠度
//  3. 重叠度 >= 0.2 的用户按重叠度取 Top 10 为邻居
//  4. 邻居播放历史中目标用户未播放过的曲目成为候选，
//     分数 = min(0.9, 邻居累计播放次数/1000 + 0.3)
//
// 工程特征：
//   - 确定性：相同输入产出相同结果（没有随机占位分数）
//   - 冷启动：目标用户无历史时返回空，由其他池兜底
//
// Collaborative 同时实现了 Source 和 Node 接口。
type Collaborative struct {
	Events core.EventStore

	// HistoryLimit 目标用户/邻居取多少条近期历史参与计算，默认 100
	HistoryLimit int

	// CandidateUserLimit 参与重叠度计算的候选邻居上限，默认 50
	CandidateUserLimit int

	// Limit 池内候选上限，默认 100
	Limit int
}

func (r *Collaborative) Name() string        { return "recall.collaborative" }
func (r *Collaborative) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Collaborative) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Collaborative) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if r.Events == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	historyLimit := r.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = 100
	}

	// 目标用户的播放集合
	history, err := r.Events.ListeningHistory(ctx, rctx.UserID, historyLimit)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, nil
	}
	played := make(map[string]struct{}, len(history))
	playedIDs := make([]string, 0, len(history))
	for _, ev := range history {
		if _, ok := played[ev.TrackID]; ok {
			continue
		}
		played[ev.TrackID] = struct{}{}
		playedIDs = append(playedIDs, ev.TrackID)
	}

	neighbors, err := r.findNeighbors(ctx, rctx.UserID, played, playedIDs, historyLimit)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return nil, nil
	}

	// 邻居播放历史中，目标用户未播放的曲目累计播放次数
	type candidateTrack struct {
		track core.Track
		plays int64
	}
	counts := make(map[string]*candidateTrack)
	for _, nb := range neighbors {
		for _, ev := range nb.history {
			if _, ok := played[ev.TrackID]; ok {
				continue // 已播放的曲目不参与候选
			}
			ct, ok := counts[ev.TrackID]
			if !ok {
				ct = &candidateTrack{track: core.Track{
					TrackID:  ev.TrackID,
					ArtistID: ev.ArtistID,
					Genre:    ev.Genre,
					Features: ev.Features,
				}}
				counts[ev.TrackID] = ct
			}
			ct.plays++
		}
	}

	out := make([]*core.Candidate, 0, len(counts))
	for _, ct := range counts {
		c := core.NewCandidate(ct.track)
		score := math.Min(collabScoreCap, float64(ct.plays)/collabScoreScale+collabScoreBase)
		c.SetScore(score, collabConfidence, core.ReasonCollaborativeFiltering)
		c.PutLabel("recall_source", utils.Label{Value: "collaborative", Source: "recall"})
		out = append(out, c)
	}

	// 确定性排序：分数降序，同分按 trackID
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].TrackID < out[j].TrackID
	})

	limit := r.Limit
	if limit <= 0 {
		limit = 100
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type neighbor struct {
	userID  string
	overlap float64
	history []core.PlayEvent
}

// findNeighbors 取播放过目标曲目的用户并按 Jaccard 重叠度筛选 TopK。
func (r *Collaborative) findNeighbors(
	ctx context.Context,
	userID string,
	played map[string]struct{},
	playedIDs []string,
	historyLimit int,
) ([]neighbor, error) {
	userLimit := r.CandidateUserLimit
	if userLimit <= 0 {
		userLimit = 50
	}

	users, err := r.Events.ListenersOfTracks(ctx, playedIDs, userLimit)
	if err != nil {
		return nil, err
	}

	neighbors := make([]neighbor, 0, len(users))
	for _, other := range users {
		if other == userID {
			continue
		}
		otherHistory, err := r.Events.ListeningHistory(ctx, other, historyLimit)
		if err != nil || len(otherHistory) == 0 {
			continue // 单个邻居取数失败不影响其他邻居
		}

		otherSet := make(map[string]struct{}, len(otherHistory))
		for _, ev := range otherHistory {
			otherSet[ev.TrackID] = struct{}{}
		}

		common := 0
		for id := range otherSet {
			if _, ok := played[id]; ok {
				common++
			}
		}
		union := len(played) + len(otherSet) - common
		if union == 0 {
			continue
		}
		overlap := float64(common) / float64(union)
		if overlap < collabSimilarityThreshold {
			continue
		}
		neighbors = append(neighbors, neighbor{userID: other, overlap: overlap, history: otherHistory})
	}

	// 重叠度降序取 TopK，同分按 userID 保证确定性
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].overlap != neighbors[j].overlap {
			return neighbors[i].overlap > neighbors[j].overlap
		}
		return neighbors[i].userID < neighbors[j].userID
	})
	if len(neighbors) > collabMaxNeighbors {
		neighbors = neighbors[:collabMaxNeighbors]
	}
	return neighbors, nil
}
