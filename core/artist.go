package core

// ArtistMetrics 是新锐艺人榜单条目的明细指标。
type ArtistMetrics struct {
	WeeklyListenerGrowth float64
	PlaylistAdditions    int64
	ShareRate            float64
	CompletionRate       float64
}

// EmergingArtist 是多信号融合后的艺人潜力评分结果。
// EngagementScore / ViralPotential 在返回前钳制到 [0,1]；
// GrowthRate 原样返回，高增长时可以大于 1，下跌时为负。
type EmergingArtist struct {
	ArtistID        string
	GrowthRate      float64
	EngagementScore float64
	ViralPotential  float64

	// SimilarToTrending 是与其声学特征相近的当前热门艺人
	SimilarToTrending []string

	Metrics ArtistMetrics
}
