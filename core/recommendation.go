package core

// Reason 是推荐理由的封闭枚举。
// 存储边界读入的未知值必须经 ParseReason 归一化，不允许向内传播任意字符串。
type Reason string

const (
	ReasonSimilarAudioFeatures   Reason = "similar_audio_features"
	ReasonCollaborativeFiltering Reason = "collaborative_filtering"
	ReasonArtistSimilarity       Reason = "artist_similarity"
	ReasonTrendingInNetwork      Reason = "trending_in_network"
	ReasonPlaylistCompatibility  Reason = "playlist_compatibility"
)

// ParseReason 归一化推荐理由；未知值返回 (“”, false)。
func ParseReason(s string) (Reason, bool) {
	switch Reason(s) {
	case ReasonSimilarAudioFeatures,
		ReasonCollaborativeFiltering,
		ReasonArtistSimilarity,
		ReasonTrendingInNetwork,
		ReasonPlaylistCompatibility:
		return Reason(s), true
	}
	return "", false
}

// TrackRecommendation 是单条推荐结果，按请求生成，不持久化。
// Score 与 Confidence 在返回前都会被钳制到 [0,1]。
type TrackRecommendation struct {
	TrackID    string
	Score      float64
	Reason     Reason
	Confidence float64
}

// Mood 是推荐请求的情绪过滤档位。
type Mood string

const (
	MoodNone      Mood = ""
	MoodHappy     Mood = "happy"
	MoodSad       Mood = "sad"
	MoodEnergetic Mood = "energetic"
	MoodCalm      Mood = "calm"
)

// ParseMood 归一化情绪档位；未知值返回 (MoodNone, false)。
func ParseMood(s string) (Mood, bool) {
	switch Mood(s) {
	case MoodNone, MoodHappy, MoodSad, MoodEnergetic, MoodCalm:
		return Mood(s), true
	}
	return MoodNone, false
}

// RecommendOptions 是推荐请求的可选项。
type RecommendOptions struct {
	// ExcludeRecentlyPlayed 为 true 时，候选集中剔除用户近期播放过的曲目
	ExcludeRecentlyPlayed bool

	// MoodFilter 在截断之前应用固定的 情绪 -> 声学特征区间 过滤
	MoodFilter Mood
}
