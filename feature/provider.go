// Package feature 提供听众行为特征向量的获取：
//   - FeastProvider：从 Feast 特征服务在线获取（生产）
//   - ProfileProvider：从收听画像派生（开发/测试/降级）
//
// 聚类引擎只依赖 Provider 接口，不关心特征来自哪里。
package feature

import (
	"context"

	"github.com/rushteam/listenkit/cluster"
)

// Provider 批量获取用户的行为特征向量。
// 单个用户缺失特征时跳过该用户，不算错误；整体不可用才返回错误。
type Provider interface {
	// Name 返回提供方名称
	Name() string

	// Vectors 返回 userIDs 中可获取到特征的用户的行为向量
	Vectors(ctx context.Context, userIDs []string) ([]cluster.BehaviorVector, error)
}
