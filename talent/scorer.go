package talent

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/rushteam/listenkit/cache"
	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pkg/stat"
)

// 人才评分公式常量。
const (
	// engagement = 0.3*完播率 + 0.2*分享 + 0.25*歌单收录 + 0.25*重复收听
	engagementWeightCompletion  = 0.3
	engagementWeightShare       = 0.2
	engagementWeightPlaylistAdd = 0.25
	engagementWeightRepeat      = 0.25

	// 比率信号在加权前先放大再钳制到 1，低基数艺人也能拿到有效信号
	shareRateScale       = 10.0
	playlistAddRateScale = 5.0
	repeatRateScale      = 2.0

	// viral = 0.4*增长 + 0.4*互动 + 0.2*动量
	viralWeightGrowth     = 0.4
	viralWeightEngagement = 0.4
	viralWeightMomentum   = 0.2

	// 新星门槛：病毒传播潜力 > 0.7
	emergingViralThreshold = 0.7

	// 周增长 = 日增长率 * 7
	weeklyGrowthDays = 7.0
)

// 默认取数范围。
const (
	DefaultLookbackDays = 30
	DefaultMinStreams   = 1000
)

// Scorer 从艺人增长统计计算新星潜力榜。
//
// 榜单计算开销大且结果短时间内稳定，所以经过 ResultCache；
// 取数失败降级为空榜并记日志，失败结果不写缓存。
type Scorer struct {
	Events core.EventStore
	Cache  *cache.ResultCache

	// LookbackDays 统计回看天数，默认 30
	LookbackDays int

	// MinStreams 入榜艺人的最低播放量，默认 1000
	MinStreams int

	Logger zerolog.Logger
}

// TopPerformingArtists 返回病毒传播潜力最高的头部艺人。
// topPercentile 是头部比例（如 0.1 表示前 10%），limit 是结果上限。
func (s *Scorer) TopPerformingArtists(ctx context.Context, topPercentile float64, limit int) []core.EmergingArtist {
	if topPercentile <= 0 || topPercentile > 1 {
		topPercentile = 0.1
	}
	if limit <= 0 {
		limit = 20
	}

	key := fmt.Sprintf("top_performing:%g:%d", topPercentile, limit)
	if cached, ok := s.fromCache(key); ok {
		return cached
	}

	scored := s.scoreAll(ctx)
	if scored == nil {
		return nil
	}

	head := int(math.Ceil(topPercentile * float64(len(scored))))
	if head > len(scored) {
		head = len(scored)
	}
	scored = scored[:head]
	if len(scored) > limit {
		scored = scored[:limit]
	}

	s.toCache(key, scored)
	return scored
}

// EmergingArtists 返回病毒传播潜力超过 0.7 的新星艺人。
func (s *Scorer) EmergingArtists(ctx context.Context, limit int) []core.EmergingArtist {
	if limit <= 0 {
		limit = 20
	}

	key := fmt.Sprintf("emerging:%d", limit)
	if cached, ok := s.fromCache(key); ok {
		return cached
	}

	scored := s.scoreAll(ctx)
	if scored == nil {
		return nil
	}

	emerging := make([]core.EmergingArtist, 0, len(scored))
	for _, a := range scored {
		if a.ViralPotential > emergingViralThreshold {
			emerging = append(emerging, a)
		}
	}
	if len(emerging) > limit {
		emerging = emerging[:limit]
	}

	s.toCache(key, emerging)
	return emerging
}

// scoreAll 对全部合格艺人评分，按病毒传播潜力降序。取数失败返回 nil。
func (s *Scorer) scoreAll(ctx context.Context) []core.EmergingArtist {
	if s.Events == nil {
		return nil
	}
	lookback := s.LookbackDays
	if lookback <= 0 {
		lookback = DefaultLookbackDays
	}
	minStreams := s.MinStreams
	if minStreams <= 0 {
		minStreams = DefaultMinStreams
	}

	stats, err := s.Events.ArtistGrowthStats(ctx, lookback, minStreams)
	if err != nil {
		s.Logger.Warn().
			Err(err).
			Int("lookback_days", lookback).
			Msg("artist growth stats fetch failed, returning empty leaderboard")
		return nil
	}

	scored := make([]core.EmergingArtist, 0, len(stats))
	for _, st := range stats {
		scored = append(scored, Score(st))
	}

	// 确定性排序：潜力降序，同分按 artistID
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].ViralPotential != scored[j].ViralPotential {
			return scored[i].ViralPotential > scored[j].ViralPotential
		}
		return scored[i].ArtistID < scored[j].ArtistID
	})
	return scored
}

// Score 对单个艺人的增长统计计算人才评分。
func Score(st core.ArtistGrowthStats) core.EmergingArtist {
	growth := GrowthRate(st.CurrentListeners, st.PreviousListeners)
	engagement := EngagementScore(st)
	// 增长率不单独钳制，只钳制加权和
	viral := stat.Clamp01(
		viralWeightGrowth*growth +
			viralWeightEngagement*engagement +
			viralWeightMomentum*stat.Clamp01(st.MomentumScore))

	return core.EmergingArtist{
		ArtistID:        st.ArtistID,
		GrowthRate:      growth,
		EngagementScore: engagement,
		ViralPotential:  viral,
		Metrics: core.ArtistMetrics{
			WeeklyListenerGrowth: growth * weeklyGrowthDays,
			PlaylistAdditions:    st.PlaylistAdditions,
			ShareRate:            st.ShareRate,
			CompletionRate:       st.AvgCompletionRate,
		},
	}
}

// GrowthRate 计算听众增长率，分母下限 1 避免除零。
func GrowthRate(current, previous int64) float64 {
	denom := float64(previous)
	if denom < 1 {
		denom = 1
	}
	return float64(current-previous) / denom
}

// EngagementScore 计算互动评分，范围 [0,1]。
func EngagementScore(st core.ArtistGrowthStats) float64 {
	score := engagementWeightCompletion * stat.Clamp01(st.AvgCompletionRate)
	score += engagementWeightShare * math.Min(st.ShareRate*shareRateScale, 1)
	score += engagementWeightPlaylistAdd * math.Min(st.PlaylistAddRate*playlistAddRateScale, 1)
	score += engagementWeightRepeat * math.Min(st.RepeatListenRate*repeatRateScale, 1)
	return stat.Clamp01(score)
}

func (s *Scorer) fromCache(key string) ([]core.EmergingArtist, bool) {
	if s.Cache == nil {
		return nil, false
	}
	v, ok := s.Cache.Get(key)
	if !ok {
		return nil, false
	}
	artists, ok := v.([]core.EmergingArtist)
	return artists, ok
}

func (s *Scorer) toCache(key string, artists []core.EmergingArtist) {
	if s.Cache != nil {
		s.Cache.Set(key, artists)
	}
}
