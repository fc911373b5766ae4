package core

import "time"

// AudioFeatures 是曲目的声学特征描述，不可变，随曲目元数据一起分发。
//
// 各字段语义：
//   - Tempo: 节奏（BPM）
//   - Energy/Danceability/Valence/Acousticness/Instrumentalness/Speechiness: [0,1] 区间
//   - Valence: 音乐积极度，0（消极/悲伤）到 1（积极/快乐）
//   - Loudness: 响度（dB，通常为负值）
//   - Key: 调（0-11），Mode: 大调/小调（1/0）
type AudioFeatures struct {
	Tempo            float64
	Energy           float64
	Danceability     float64
	Valence          float64
	Acousticness     float64
	Instrumentalness float64
	Loudness         float64
	Speechiness      float64
	Key              int
	Mode             int
	Duration         time.Duration
}

// Track 是候选生成链路中的曲目元数据载体。
// PlayCount 是平台级累计播放数，用于热度/协同打分。
type Track struct {
	TrackID   string
	ArtistID  string
	Genre     string
	Features  *AudioFeatures
	PlayCount int64
}

// PlayEvent 是一条收听历史事件，由外部事件存储按时间倒序返回。
type PlayEvent struct {
	TrackID  string
	ArtistID string
	Genre    string
	Features *AudioFeatures
	PlayedAt time.Time
	Duration time.Duration
}

// StreamEvent 是一条播放流事件，用于流完整性检测。
// Location 可选，缺失时为空字符串。
type StreamEvent struct {
	UserID    string
	TrackID   string
	CreatedAt time.Time
	Location  string
}

// ArtistGrowthStats 是事件存储聚合出的艺人增长统计，
// 对应 EventStore.ArtistGrowthStats 的返回行。
type ArtistGrowthStats struct {
	ArtistID          string
	CurrentListeners  int64
	PreviousListeners int64

	// 互动率指标，均为原始比率（未归一化）
	ShareRate         float64
	PlaylistAddRate   float64
	RepeatListenRate  float64
	AvgCompletionRate float64

	// PlaylistAdditions 是窗口内歌单收录次数（计数）
	PlaylistAdditions int64

	// MomentumScore 是上游计算的动量分数 [0,1]
	MomentumScore float64
}
