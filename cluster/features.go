package cluster

import "github.com/rushteam/listenkit/core"

// behaviorDims 是行为向量参与聚类的维度数。
const behaviorDims = 10

// BehaviorVector 是单个用户的行为特征向量，聚类的输入。
// 数值维度参与 K-means 距离计算，TopGenres 只用于分群标注。
type BehaviorVector struct {
	UserID string

	ListeningHours     float64 // 周期内累计收听小时数
	UniqueTracks       float64 // 去重曲目数
	SessionsPerDay     float64
	PlaylistsCreated   float64
	SocialShares       float64
	AvgSessionDuration float64 // 分钟
	GenreDiversity     float64 // [0,1]
	DiscoveryRate      float64 // [0,1]，新曲目占比
	RepeatRate         float64 // [0,1]，重复播放占比
	PeakHour           float64 // 0-23

	TopGenres []string
}

// Dims 返回参与距离计算的数值维度，顺序固定。
func (v BehaviorVector) Dims() []float64 {
	return []float64{
		v.ListeningHours,
		v.UniqueTracks,
		v.SessionsPerDay,
		v.PlaylistsCreated,
		v.SocialShares,
		v.AvgSessionDuration,
		v.GenreDiversity,
		v.DiscoveryRate,
		v.RepeatRate,
		v.PeakHour,
	}
}

// VectorFromProfile 从收听画像派生行为向量。
// 画像没有会话/社交维度，对应维度置 0；特征服务可用时优先走特征服务。
func VectorFromProfile(p *core.ListeningProfile) BehaviorVector {
	if p == nil {
		return BehaviorVector{}
	}
	v := BehaviorVector{
		UserID:         p.UserID,
		ListeningHours: p.ListeningHours(),
		UniqueTracks:   float64(p.UniqueTrackCount),
		PeakHour:       float64(p.PeakListeningHour()),
		TopGenres:      append([]string(nil), p.TopGenres...),
	}

	if p.UniqueTrackCount > 0 {
		v.GenreDiversity = float64(len(p.TopGenres)) / 5.0
		if v.GenreDiversity > 1 {
			v.GenreDiversity = 1
		}
	}

	var plays, repeats int
	for _, c := range p.RepeatCounts {
		plays += c
		if c > 1 {
			repeats += c - 1
		}
	}
	if plays > 0 {
		v.RepeatRate = float64(repeats) / float64(plays)
		v.DiscoveryRate = float64(p.UniqueTrackCount) / float64(plays)
	}
	return v
}
