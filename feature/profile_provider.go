package feature

import (
	"context"

	"github.com/rushteam/listenkit/cluster"
	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/profile"
)

// ProfileProvider 从收听画像派生行为向量。
// 画像缺少会话/社交维度，对应维度为 0，聚类质量不如特征服务，
// 用于开发/测试以及特征服务不可用时的降级路径。
type ProfileProvider struct {
	Resolver *profile.Resolver
}

func (p *ProfileProvider) Name() string { return "profile" }

func (p *ProfileProvider) Vectors(ctx context.Context, userIDs []string) ([]cluster.BehaviorVector, error) {
	if p.Resolver == nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnavailable, "profile resolver not configured")
	}
	out := make([]cluster.BehaviorVector, 0, len(userIDs))
	for _, userID := range userIDs {
		if userID == "" {
			continue
		}
		out = append(out, cluster.VectorFromProfile(p.Resolver.Resolve(ctx, userID)))
	}
	return out, nil
}

var _ Provider = (*ProfileProvider)(nil)
