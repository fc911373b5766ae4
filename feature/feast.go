package feature

import (
	"context"
	"fmt"
	"strings"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"
	"github.com/rs/zerolog"

	"github.com/rushteam/listenkit/cluster"
	"github.com/rushteam/listenkit/core"
)

// 行为特征视图及其特征名。视图由特征工程离线物化到在线存储。
const (
	behaviorFeatureView = "listener_behavior"

	featureListeningHours     = "listening_hours"
	featureUniqueTracks       = "unique_tracks"
	featureSessionsPerDay     = "sessions_per_day"
	featurePlaylistsCreated   = "playlists_created"
	featureSocialShares       = "social_shares"
	featureAvgSessionDuration = "avg_session_duration"
	featureGenreDiversity     = "genre_diversity"
	featureDiscoveryRate      = "discovery_rate"
	featureRepeatRate         = "repeat_rate"
	featurePeakHour           = "peak_hour"
	featureTopGenres          = "top_genres" // 逗号分隔的流派列表
)

// behaviorFeatureRefs 是一次在线请求拉取的全部特征引用。
var behaviorFeatureRefs = []string{
	behaviorFeatureView + ":" + featureListeningHours,
	behaviorFeatureView + ":" + featureUniqueTracks,
	behaviorFeatureView + ":" + featureSessionsPerDay,
	behaviorFeatureView + ":" + featurePlaylistsCreated,
	behaviorFeatureView + ":" + featureSocialShares,
	behaviorFeatureView + ":" + featureAvgSessionDuration,
	behaviorFeatureView + ":" + featureGenreDiversity,
	behaviorFeatureView + ":" + featureDiscoveryRate,
	behaviorFeatureView + ":" + featureRepeatRate,
	behaviorFeatureView + ":" + featurePeakHour,
	behaviorFeatureView + ":" + featureTopGenres,
}

// FeastProvider 从 Feast 特征服务在线获取行为特征向量。
type FeastProvider struct {
	client  *feastsdk.GrpcClient
	project string

	Logger zerolog.Logger
}

// NewFeastProvider 连接 Feast Feature Server。port 为 0 时用默认 gRPC 端口 6565。
func NewFeastProvider(host string, port int, project string) (*FeastProvider, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("feast grpc client: %w", err)
	}
	return &FeastProvider{client: client, project: project}, nil
}

func (p *FeastProvider) Name() string { return "feast" }

func (p *FeastProvider) Vectors(ctx context.Context, userIDs []string) ([]cluster.BehaviorVector, error) {
	if p.client == nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnavailable, "feast client not configured")
	}
	if len(userIDs) == 0 {
		return nil, nil
	}

	entities := make([]feastsdk.Row, 0, len(userIDs))
	requested := make([]string, 0, len(userIDs))
	for _, userID := range userIDs {
		if userID == "" {
			continue
		}
		entities = append(entities, feastsdk.Row{"user_id": feastsdk.StrVal(userID)})
		requested = append(requested, userID)
	}
	if len(entities) == 0 {
		return nil, nil
	}

	resp, err := p.client.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: behaviorFeatureRefs,
		Entities: entities,
		Project:  p.project,
	})
	if err != nil {
		return nil, fmt.Errorf("feast get online features: %w", err)
	}

	rows := resp.Rows()
	out := make([]cluster.BehaviorVector, 0, len(rows))
	for i, row := range rows {
		if i >= len(requested) {
			break
		}
		v := cluster.BehaviorVector{
			UserID:             requested[i],
			ListeningHours:     floatFeature(row, featureListeningHours),
			UniqueTracks:       floatFeature(row, featureUniqueTracks),
			SessionsPerDay:     floatFeature(row, featureSessionsPerDay),
			PlaylistsCreated:   floatFeature(row, featurePlaylistsCreated),
			SocialShares:       floatFeature(row, featureSocialShares),
			AvgSessionDuration: floatFeature(row, featureAvgSessionDuration),
			GenreDiversity:     floatFeature(row, featureGenreDiversity),
			DiscoveryRate:      floatFeature(row, featureDiscoveryRate),
			RepeatRate:         floatFeature(row, featureRepeatRate),
			PeakHour:           floatFeature(row, featurePeakHour),
			TopGenres:          genreFeature(row, featureTopGenres),
		}
		// 没有任何收听时长的行视为特征缺失，跳过
		if v.ListeningHours <= 0 {
			p.Logger.Debug().
				Str("user_id", requested[i]).
				Msg("behavior features missing, skipping user")
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// floatFeature 按特征名取数值，全引用和短名都尝试。
func floatFeature(row feastsdk.Row, name string) float64 {
	val, ok := row[behaviorFeatureView+":"+name]
	if !ok {
		val, ok = row[name]
	}
	if !ok || val == nil {
		return 0
	}
	switch v := val.GetVal().(type) {
	case *feasttypes.Value_DoubleVal:
		return v.DoubleVal
	case *feasttypes.Value_FloatVal:
		return float64(v.FloatVal)
	case *feasttypes.Value_Int64Val:
		return float64(v.Int64Val)
	case *feasttypes.Value_Int32Val:
		return float64(v.Int32Val)
	}
	return 0
}

func genreFeature(row feastsdk.Row, name string) []string {
	val, ok := row[behaviorFeatureView+":"+name]
	if !ok {
		val, ok = row[name]
	}
	if !ok || val == nil {
		return nil
	}
	raw := val.GetStringVal()
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if g := strings.TrimSpace(p); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

var _ Provider = (*FeastProvider)(nil)
