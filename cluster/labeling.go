package cluster

import (
	"fmt"
	"sort"

	"github.com/rushteam/listenkit/core"
)

// 分群标注阈值，作用在簇内平均值上。
const (
	discoveryUniqueTracksMin = 1000.0
	discoveryDiversityMin    = 0.7

	powerUserHoursMin = 50.0

	specialistDiversityMax = 0.3
	loyalistRepeatRateMin  = 0.6
)

// 活跃档位按簇平均收听小时数划分。
const (
	engagementLowMax    = 5.0
	engagementMediumMax = 20.0
	engagementHighMax   = 50.0
)

// label 聚合每个簇的成员特征并标注分群类型。
// 始终产出 k 个簇，空簇以 MemberCount 0 占位。
func (e *Engine) label(vectors []BehaviorVector, assignments []int, k int) []core.UserCluster {
	out := make([]core.UserCluster, 0, k)
	for c := 0; c < k; c++ {
		var (
			members   []BehaviorVector
			hours     float64
			unique    float64
			diversity float64
			repeat    float64
		)
		for i, a := range assignments {
			if a != c {
				continue
			}
			v := vectors[i]
			members = append(members, v)
			hours += v.ListeningHours
			unique += v.UniqueTracks
			diversity += v.GenreDiversity
			repeat += v.RepeatRate
		}
		if len(members) == 0 {
			out = append(out, core.UserCluster{
				ClusterID:   fmt.Sprintf("cluster_%d", c),
				ClusterType: core.ClusterCasualListener,
				Characteristics: core.ClusterCharacteristics{
					EngagementLevel: core.EngagementLow,
				},
			})
			continue
		}
		n := float64(len(members))
		hours /= n
		unique /= n
		diversity /= n
		repeat /= n

		out = append(out, core.UserCluster{
			ClusterID:   fmt.Sprintf("cluster_%d", c),
			ClusterType: classify(hours, unique, diversity, repeat),
			Characteristics: core.ClusterCharacteristics{
				AvgListeningHours: hours,
				TopGenres:         commonGenres(members, 3),
				EngagementLevel:   engagementLevel(hours),
			},
			MemberCount: len(members),
		})
	}
	return out
}

// classify 按簇平均行为标注分群类型。规则按优先级从强到弱匹配，
// regional_fan 需要地域信号，行为向量不包含地域维度，这里不会产出。
func classify(hours, unique, diversity, repeat float64) core.ClusterType {
	switch {
	case unique > discoveryUniqueTracksMin && diversity > discoveryDiversityMin:
		return core.ClusterDiscoverySeeker
	case hours > powerUserHoursMin:
		return core.ClusterPowerUser
	case diversity < specialistDiversityMax:
		return core.ClusterGenreSpecialist
	case repeat > loyalistRepeatRateMin:
		return core.ClusterArtistLoyalist
	default:
		return core.ClusterCasualListener
	}
}

func engagementLevel(hours float64) core.EngagementLevel {
	switch {
	case hours < engagementLowMax:
		return core.EngagementLow
	case hours < engagementMediumMax:
		return core.EngagementMedium
	case hours < engagementHighMax:
		return core.EngagementHigh
	default:
		return core.EngagementPower
	}
}

// commonGenres 取簇内成员出现最多的流派，计数相同时按流派名排序保证确定性。
func commonGenres(members []BehaviorVector, k int) []string {
	counts := make(map[string]int)
	for _, m := range members {
		for _, g := range m.TopGenres {
			counts[g]++
		}
	}
	genres := make([]string, 0, len(counts))
	for g := range counts {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool {
		if counts[genres[i]] != counts[genres[j]] {
			return counts[genres[i]] > counts[genres[j]]
		}
		return genres[i] < genres[j]
	})
	if len(genres) > k {
		genres = genres[:k]
	}
	return genres
}

// ClassifyProfile 对单个用户画像做轻量分群（不跑聚类，直接走启发式规则）。
func ClassifyProfile(p *core.ListeningProfile) core.ClusterType {
	if p == nil {
		return core.ClusterCasualListener
	}
	hours := p.ListeningHours()
	uniqueRatio := 0.0
	if hours > 0 {
		uniqueRatio = float64(p.UniqueTrackCount) / hours
	}
	switch {
	case hours > 100 && uniqueRatio > 10:
		return core.ClusterDiscoverySeeker
	case hours > 50:
		return core.ClusterPowerUser
	case len(p.TopGenres) == 1:
		return core.ClusterGenreSpecialist
	case len(p.TopArtists) >= 1 && len(p.TopArtists) <= 3:
		return core.ClusterArtistLoyalist
	default:
		return core.ClusterCasualListener
	}
}
