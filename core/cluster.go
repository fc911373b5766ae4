package core

// ClusterType 是听众行为分群的封闭枚举。
type ClusterType string

const (
	ClusterCasualListener  ClusterType = "casual_listener"
	ClusterPowerUser       ClusterType = "power_user"
	ClusterGenreSpecialist ClusterType = "genre_specialist"
	ClusterArtistLoyalist  ClusterType = "artist_loyalist"
	ClusterDiscoverySeeker ClusterType = "discovery_seeker"
	ClusterRegionalFan     ClusterType = "regional_fan"
)

// ParseClusterType 归一化分群类型；未知值返回 (“”, false)。
func ParseClusterType(s string) (ClusterType, bool) {
	switch ClusterType(s) {
	case ClusterCasualListener, ClusterPowerUser, ClusterGenreSpecialist,
		ClusterArtistLoyalist, ClusterDiscoverySeeker, ClusterRegionalFan:
		return ClusterType(s), true
	}
	return "", false
}

// EngagementLevel 是分群平均收听时长对应的活跃档位。
type EngagementLevel string

const (
	EngagementLow    EngagementLevel = "low"
	EngagementMedium EngagementLevel = "medium"
	EngagementHigh   EngagementLevel = "high"
	EngagementPower  EngagementLevel = "power"
)

// ClusterCharacteristics 描述一个分群的聚合特征。
type ClusterCharacteristics struct {
	AvgListeningHours float64
	TopGenres         []string
	EngagementLevel   EngagementLevel
}

// UserCluster 是一次批量聚类产出的听众分群。
// 每轮批量运行整体替换上一轮结果，不做增量合并。
type UserCluster struct {
	ClusterID       string
	ClusterType     ClusterType
	Characteristics ClusterCharacteristics
	MemberCount     int
}
