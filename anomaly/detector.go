package anomaly

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pkg/stat"
)

// 检测阈值。间隔统计都以秒为单位。
const (
	// 机器人：>10 次播放且间隔标准差小于均值的 10%（过于规律）
	botMinStreams        = 10
	botIntervalStdDevPct = 0.1
	botConfidence        = 0.85

	// 刷量：单个用户在窗口内播放同一曲目超过 50 次
	farmingMaxPerUser = 50
	farmingConfidence = 0.9

	// 异常重复：单个用户 >20 次播放且间隔几乎完全一致（最大偏差 < 均值 5%）
	repeatMinStreams      = 20
	repeatMaxDeviationPct = 0.05
	repeatConfidence      = 0.9
)

// Detector 对单曲目的播放流做完整性检测。
//
// Detect 永远不返回错误：检测是尽力而为的旁路逻辑，
// 存储故障降级为"未检出"并记日志，绝不阻塞主链路。
type Detector struct {
	Events core.EventStore

	// Clock 用于测试注入时间，默认 time.Now
	Clock func() time.Time

	Logger zerolog.Logger
}

func (d *Detector) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now()
}

// Detect 检测 trackID 在 window 窗口内的播放异常。
// 同一批事件可能同时触发多类异常，全部返回。
func (d *Detector) Detect(ctx context.Context, trackID string, window time.Duration) []core.StreamAnomaly {
	if d.Events == nil || trackID == "" {
		return nil
	}
	if window <= 0 {
		window = 24 * time.Hour
	}
	now := d.now()

	events, err := d.Events.StreamEvents(ctx, trackID, now.Add(-window))
	if err != nil {
		d.Logger.Warn().
			Err(err).
			Str("track_id", trackID).
			Msg("stream event fetch failed, skipping anomaly detection")
		return nil
	}
	if len(events) == 0 {
		return nil
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})

	var out []core.StreamAnomaly
	if a := d.detectBot(trackID, events, now); a != nil {
		out = append(out, *a)
	}
	if a := d.detectFarming(trackID, events, now); a != nil {
		out = append(out, *a)
	}
	out = append(out, d.detectRepeatPattern(trackID, events, now)...)
	return out
}

// detectBot 检查整条曲目的播放间隔是否规律到不像人类。
func (d *Detector) detectBot(trackID string, events []core.StreamEvent, now time.Time) *core.StreamAnomaly {
	if len(events) <= botMinStreams {
		return nil
	}
	intervals := intervalsOf(events)
	mean := stat.Mean(intervals)
	if mean <= 0 {
		return nil
	}
	stddev := stat.StdDev(intervals)
	if stddev >= botIntervalStdDevPct*mean {
		return nil
	}
	return &core.StreamAnomaly{
		TrackID:     trackID,
		AnomalyType: core.AnomalyBotBehavior,
		Confidence:  botConfidence,
		DetectedAt:  now,
		Metadata: map[string]any{
			"stream_count":    len(events),
			"avg_interval":    mean,
			"interval_stddev": stddev,
		},
	}
}

// detectFarming 检查是否有用户的播放量超出刷量阈值。
// 多个用户同时超限也只产出一条异常，违规用户列在 Metadata 里。
func (d *Detector) detectFarming(trackID string, events []core.StreamEvent, now time.Time) *core.StreamAnomaly {
	counts := countByUser(events)

	offenders := make([]string, 0)
	for user, n := range counts {
		if n > farmingMaxPerUser {
			offenders = append(offenders, user)
		}
	}
	if len(offenders) == 0 {
		return nil
	}
	sort.Strings(offenders)

	offenderCounts := make(map[string]int, len(offenders))
	for _, user := range offenders {
		offenderCounts[user] = counts[user]
	}
	return &core.StreamAnomaly{
		TrackID:     trackID,
		AnomalyType: core.AnomalyStreamFarming,
		Confidence:  farmingConfidence,
		DetectedAt:  now,
		Metadata: map[string]any{
			"offending_users": offenders,
			"stream_counts":   offenderCounts,
		},
	}
}

// detectRepeatPattern 对每个高频用户检查其播放间隔是否机械一致。
func (d *Detector) detectRepeatPattern(trackID string, events []core.StreamEvent, now time.Time) []core.StreamAnomaly {
	byUser := make(map[string][]core.StreamEvent)
	for _, ev := range events {
		if ev.UserID == "" {
			continue
		}
		byUser[ev.UserID] = append(byUser[ev.UserID], ev)
	}

	users := make([]string, 0, len(byUser))
	for user := range byUser {
		users = append(users, user)
	}
	sort.Strings(users)

	var out []core.StreamAnomaly
	for _, user := range users {
		userEvents := byUser[user]
		if len(userEvents) <= repeatMinStreams {
			continue
		}
		intervals := intervalsOf(userEvents)
		mean := stat.Mean(intervals)
		if mean <= 0 {
			continue
		}
		maxDev := 0.0
		for _, iv := range intervals {
			if dev := math.Abs(iv - mean); dev > maxDev {
				maxDev = dev
			}
		}
		if maxDev >= repeatMaxDeviationPct*mean {
			continue
		}
		out = append(out, core.StreamAnomaly{
			UserID:      user,
			TrackID:     trackID,
			AnomalyType: core.AnomalyUnusualRepeatPattern,
			Confidence:  repeatConfidence,
			DetectedAt:  now,
			Metadata: map[string]any{
				"stream_count":  len(userEvents),
				"avg_interval":  mean,
				"max_deviation": maxDev,
			},
		})
	}
	return out
}

// intervalsOf 返回相邻事件的时间间隔（秒）。事件必须已按时间升序排列。
func intervalsOf(events []core.StreamEvent) []float64 {
	if len(events) < 2 {
		return nil
	}
	intervals := make([]float64, 0, len(events)-1)
	for i := 1; i < len(events); i++ {
		intervals = append(intervals, events[i].CreatedAt.Sub(events[i-1].CreatedAt).Seconds())
	}
	return intervals
}

func countByUser(events []core.StreamEvent) map[string]int {
	counts := make(map[string]int)
	for _, ev := range events {
		if ev.UserID != "" {
			counts[ev.UserID]++
		}
	}
	return counts
}
