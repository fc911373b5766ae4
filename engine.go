package listenkit

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/listenkit/anomaly"
	"github.com/rushteam/listenkit/cache"
	"github.com/rushteam/listenkit/cluster"
	"github.com/rushteam/listenkit/config"
	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/feature"
	"github.com/rushteam/listenkit/filter"
	"github.com/rushteam/listenkit/pipeline"
	"github.com/rushteam/listenkit/profile"
	"github.com/rushteam/listenkit/rank"
	"github.com/rushteam/listenkit/recall"
	"github.com/rushteam/listenkit/rerank"
	"github.com/rushteam/listenkit/store"
	"github.com/rushteam/listenkit/talent"
)

// Engine 是听众智能引擎的统一入口。
// 用 New 创建，零值不可用。
type Engine struct {
	events   core.EventStore
	profiles core.ProfileStore
	kv       core.KeyValueStore

	resolver *profile.Resolver
	provider feature.Provider

	clusterer *cluster.Engine
	detector  *anomaly.Detector
	scorer    *talent.Scorer

	recallTimeout time.Duration
	maxConcurrent int
	poolLimit     int
	diversity     *rerank.GenreDiversity

	logger zerolog.Logger
	clock  func() time.Time
}

// Option 配置 Engine 的可选依赖。
type Option func(*Engine)

// WithLogger 注入日志器，默认丢弃日志。
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithKeyValueStore 注入 KV 存储（流派热榜有序集合等）。
func WithKeyValueStore(kv core.KeyValueStore) Option {
	return func(e *Engine) { e.kv = kv }
}

// WithFeatureProvider 注入行为特征提供方，默认从画像派生。
func WithFeatureProvider(p feature.Provider) Option {
	return func(e *Engine) { e.provider = p }
}

// WithClock 注入时钟，测试用。
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithClusterRand 注入聚类随机源，固定种子保证批次可复现。
func WithClusterRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.clusterer.Rand = rng }
}

// WithClusterParams 覆盖聚类参数，非正值保持默认。
func WithClusterParams(k, maxIterations, minProfiles int, minListeningHours float64) Option {
	return func(e *Engine) {
		if k > 0 {
			e.clusterer.K = k
		}
		if maxIterations > 0 {
			e.clusterer.MaxIterations = maxIterations
		}
		if minProfiles > 0 {
			e.clusterer.MinProfiles = minProfiles
		}
		if minListeningHours > 0 {
			e.clusterer.MinListeningHours = minListeningHours
		}
	}
}

// WithCache 覆盖榜单结果缓存。
func WithCache(c *cache.ResultCache) Option {
	return func(e *Engine) { e.scorer.Cache = c }
}

// WithRecallTimeout 覆盖单个候选池的超时时间。
func WithRecallTimeout(timeout time.Duration) Option {
	return func(e *Engine) { e.recallTimeout = timeout }
}

// WithRecallLimits 覆盖候选池并发数与单池候选上限。
func WithRecallLimits(maxConcurrent, poolLimit int) Option {
	return func(e *Engine) {
		e.maxConcurrent = maxConcurrent
		e.poolLimit = poolLimit
	}
}

// WithGenreDiversity 在截断之后追加流派打散节点。
// 打散会为了多样性调整顺序，结果不再严格按 Score*Confidence 降序，
// 所以默认不开启。参数非正时使用节点默认值。
func WithGenreDiversity(maxPerWindow, windowSize int) Option {
	return func(e *Engine) {
		e.diversity = &rerank.GenreDiversity{
			MaxPerWindow: maxPerWindow,
			WindowSize:   windowSize,
		}
	}
}

// WithTalentParams 覆盖人才评分的取数范围。
func WithTalentParams(lookbackDays, minStreams int) Option {
	return func(e *Engine) {
		if lookbackDays > 0 {
			e.scorer.LookbackDays = lookbackDays
		}
		if minStreams > 0 {
			e.scorer.MinStreams = minStreams
		}
	}
}

// New 创建引擎。events 必填；profiles 可为 nil，此时画像每次从历史构建。
func New(events core.EventStore, profiles core.ProfileStore, opts ...Option) *Engine {
	e := &Engine{
		events:        events,
		profiles:      profiles,
		logger:        zerolog.Nop(),
		clock:         time.Now,
		recallTimeout: 500 * time.Millisecond,
		clusterer:     &cluster.Engine{},
		scorer:        &talent.Scorer{Events: events, Cache: &cache.ResultCache{}},
	}
	for _, opt := range opts {
		opt(e)
	}

	e.resolver = &profile.Resolver{
		Profiles: profiles,
		Events:   events,
		Logger:   e.logger.With().Str("component", "profile").Logger(),
	}
	if e.provider == nil {
		e.provider = &feature.ProfileProvider{Resolver: e.resolver}
	}
	e.clusterer.Logger = e.logger.With().Str("component", "cluster").Logger()
	e.detector = &anomaly.Detector{
		Events: events,
		Clock:  e.clock,
		Logger: e.logger.With().Str("component", "anomaly").Logger(),
	}
	e.scorer.Logger = e.logger.With().Str("component", "talent").Logger()
	return e
}

// NewFromConfig 按 YAML 配置装配引擎，连接 Redis/Feast 等外部依赖。
func NewFromConfig(cfg *config.EngineConfig, events core.EventStore, opts ...Option) (*Engine, error) {
	assembled := make([]Option, 0, len(opts)+8)

	var profiles core.ProfileStore
	if cfg.Redis.Addr != "" {
		kv, err := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		assembled = append(assembled, WithKeyValueStore(kv))
		profiles = &store.RedisProfileStore{Store: kv}
	}
	if cfg.Feast.Host != "" {
		provider, err := feature.NewFeastProvider(cfg.Feast.Host, cfg.Feast.Port, cfg.Feast.Project)
		if err != nil {
			return nil, err
		}
		assembled = append(assembled, WithFeatureProvider(provider))
	}

	assembled = append(assembled,
		WithCache(&cache.ResultCache{TTL: cfg.CacheTTL(), MaxSize: cfg.Cache.MaxSize}),
		WithRecallTimeout(cfg.RecallTimeout()),
		WithRecallLimits(cfg.Recall.MaxConcurrent, cfg.Recall.PoolLimit),
		WithClusterParams(cfg.Cluster.K, cfg.Cluster.MaxIterations, cfg.Cluster.MinProfiles, cfg.Cluster.MinListeningHours),
		WithTalentParams(cfg.Talent.LookbackDays, cfg.Talent.MinStreams),
	)
	if cfg.Cluster.Seed != 0 {
		assembled = append(assembled, WithClusterRand(rand.New(rand.NewSource(cfg.Cluster.Seed))))
	}
	assembled = append(assembled, opts...)

	return New(events, profiles, assembled...), nil
}

// Recommendations 为用户生成个性化推荐。
// limit 非正时默认 20。无历史用户走默认画像，永远能产出推荐（除非曲库为空）。
func (e *Engine) Recommendations(ctx context.Context, userID string, limit int, options core.RecommendOptions) ([]core.TrackRecommendation, error) {
	rctx := &core.RecommendContext{
		UserID:  userID,
		Profile: e.resolver.Resolve(ctx, userID),
		Limit:   limit,
		Options: options,
	}

	candidates, err := e.recommendPipeline(rctx).Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	out := make([]core.TrackRecommendation, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Recommendation())
	}
	return out, nil
}

func (e *Engine) recommendPipeline(rctx *core.RecommendContext) *pipeline.Pipeline {
	recallLogger := e.logger.With().Str("component", "recall").Logger()
	nodes := []pipeline.Node{
		&recall.Fanout{
			Sources: []recall.Source{
				&recall.ArtistTracks{Events: e.events, Limit: e.poolLimit},
				&recall.GenreTrending{Events: e.events, Store: e.kv, Limit: e.poolLimit},
				&recall.Collaborative{Events: e.events, Limit: e.poolLimit},
			},
			Timeout:       e.recallTimeout,
			MaxConcurrent: e.maxConcurrent,
			Logger:        recallLogger,
		},
	}
	if rctx.Options.ExcludeRecentlyPlayed {
		nodes = append(nodes, &filter.Node{
			Filters: []filter.Filter{&filter.Played{Events: e.events}},
			Logger:  e.logger.With().Str("component", "filter").Logger(),
		})
	}
	nodes = append(nodes,
		&rank.ContentNode{},
		&rerank.Mood{},
		&rerank.TopN{},
	)
	if e.diversity != nil {
		nodes = append(nodes, e.diversity)
	}
	return &pipeline.Pipeline{Nodes: nodes}
}

// ClusterListeners 对全量用户做行为聚类，返回带标注的分群。
// 合格样本不足时返回空结果；取数失败记日志并降级为空结果，不抛给调用方。
func (e *Engine) ClusterListeners(ctx context.Context) ([]core.UserCluster, error) {
	if e.profiles == nil {
		return nil, core.NewDomainError(core.ModuleCluster, core.ErrorCodeUnavailable, "profile store required for clustering")
	}
	userIDs, err := e.profiles.UserIDs(ctx)
	if err != nil {
		e.clusterer.Logger.Warn().Err(err).Msg("user id listing failed, skipping clustering run")
		return nil, nil
	}
	vectors, err := e.provider.Vectors(ctx, userIDs)
	if err != nil {
		e.clusterer.Logger.Warn().Err(err).Msg("behavior vector fetch failed, skipping clustering run")
		return nil, nil
	}
	return e.clusterer.Cluster(ctx, vectors)
}

// ClassifyListener 对单个用户做轻量分群（不跑批量聚类）。
func (e *Engine) ClassifyListener(ctx context.Context, userID string) core.ClusterType {
	return cluster.ClassifyProfile(e.resolver.Resolve(ctx, userID))
}

// DetectAnomalies 检测曲目在时间窗口内的播放异常。
func (e *Engine) DetectAnomalies(ctx context.Context, trackID string, window time.Duration) []core.StreamAnomaly {
	return e.detector.Detect(ctx, trackID, window)
}

// TopPerformingArtists 返回病毒传播潜力最高的头部艺人。
func (e *Engine) TopPerformingArtists(ctx context.Context, topPercentile float64, limit int) []core.EmergingArtist {
	return e.scorer.TopPerformingArtists(ctx, topPercentile, limit)
}

// EmergingArtists 返回新星艺人榜。
func (e *Engine) EmergingArtists(ctx context.Context, limit int) []core.EmergingArtist {
	return e.scorer.EmergingArtists(ctx, limit)
}

// RefreshProfile 重建并持久化用户画像。
func (e *Engine) RefreshProfile(ctx context.Context, userID string) (*core.ListeningProfile, error) {
	return e.resolver.Refresh(ctx, userID)
}

// HealthCheck 检查引擎外部依赖的可用性。
func (e *Engine) HealthCheck(ctx context.Context) error {
	if e.events == nil {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "event store not configured")
	}
	if e.kv != nil {
		if _, err := e.kv.Get(ctx, "health"); err != nil && !core.IsStoreNotFound(err) {
			return core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "key value store unreachable: "+err.Error())
		}
	}
	return nil
}

// Close 释放引擎持有的连接。
func (e *Engine) Close() error {
	if e.kv != nil {
		return e.kv.Close()
	}
	return nil
}
