package core

import "time"

// ListeningProfile 是用户收听画像，由收听历史聚合而来。
//
// 约定：
//   - 画像是派生数据：只能整体重建（或从快照加载），不允许就地修改
//   - 除 profile.Resolver 外，所有组件对画像只读
//   - TopGenres / TopArtists 按播放次数降序排列，次数相同时按首次出现顺序
type ListeningProfile struct {
	UserID string

	// TopGenres 最多 5 个，TopArtists 最多 10 个
	TopGenres  []string
	TopArtists []string

	AvgTempo   float64
	AvgEnergy  float64
	AvgValence float64

	// ListeningTimeByHour 是 小时(0-23) -> 播放次数 的分布
	ListeningTimeByHour map[int]int

	TotalListeningTime time.Duration
	UniqueTrackCount   int

	// RepeatCounts 是 trackID -> 播放次数
	RepeatCounts map[string]int
}

// 默认画像常量：无历史用户的冷启动画像。
// 缺失历史是合法的预期状态，解析器永远返回该常量画像而不是报错。
const (
	DefaultAvgTempo   = 120.0
	DefaultAvgEnergy  = 0.5
	DefaultAvgValence = 0.5
)

// DefaultTopGenres 是冷启动画像的默认流派集合。
var DefaultTopGenres = []string{"pop", "hip-hop", "electronic"}

// DefaultProfile 返回 userID 的默认画像（每次调用返回独立副本，调用方可安全持有）。
func DefaultProfile(userID string) *ListeningProfile {
	genres := make([]string, len(DefaultTopGenres))
	copy(genres, DefaultTopGenres)
	return &ListeningProfile{
		UserID:              userID,
		TopGenres:           genres,
		TopArtists:          []string{},
		AvgTempo:            DefaultAvgTempo,
		AvgEnergy:           DefaultAvgEnergy,
		AvgValence:          DefaultAvgValence,
		ListeningTimeByHour: map[int]int{},
		RepeatCounts:        map[string]int{},
	}
}

// HasGenre 检查流派是否在用户偏好流派中。
func (p *ListeningProfile) HasGenre(genre string) bool {
	if p == nil || genre == "" {
		return false
	}
	for _, g := range p.TopGenres {
		if g == genre {
			return true
		}
	}
	return false
}

// HasArtist 检查艺人是否在用户偏好艺人中。
func (p *ListeningProfile) HasArtist(artistID string) bool {
	if p == nil || artistID == "" {
		return false
	}
	for _, a := range p.TopArtists {
		if a == artistID {
			return true
		}
	}
	return false
}

// ListeningHours 返回累计收听时长（小时）。
func (p *ListeningProfile) ListeningHours() float64 {
	if p == nil {
		return 0
	}
	return p.TotalListeningTime.Hours()
}

// PeakListeningHour 返回播放次数最多的小时；无分布数据时返回 12（正午）。
func (p *ListeningProfile) PeakListeningHour() int {
	if p == nil || len(p.ListeningTimeByHour) == 0 {
		return 12
	}
	peak, best := 12, -1
	for h := 0; h < 24; h++ {
		if c, ok := p.ListeningTimeByHour[h]; ok && c > best {
			peak, best = h, c
		}
	}
	return peak
}
