package cluster

import (
	"context"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/rushteam/listenkit/core"
	"github.com/rushteam/listenkit/pkg/stat"
)

// K-means 默认参数。
const (
	DefaultK             = 6
	DefaultMaxIterations = 100

	// 样本门槛：至少 10 个合格用户，每个用户至少 1 小时收听时长
	DefaultMinProfiles       = 10
	DefaultMinListeningHours = 1.0
)

// Engine 用 K-means 将听众行为向量聚成分群。
//
// 约定：
//   - 输入先按列做 min-max 归一化，避免量纲大的维度（收听小时数）支配距离
//   - 迭代中出现空簇时保留上一轮质心，不重新随机
//   - 合格样本不足 MinProfiles 时返回空结果（样本不足不是错误）
//   - 固定 Rand 种子时结果完全确定
type Engine struct {
	K             int
	MaxIterations int

	MinProfiles       int
	MinListeningHours float64

	Rand   *rand.Rand
	Logger zerolog.Logger
}

// Cluster 对行为向量聚类并产出带标注的分群。
func (e *Engine) Cluster(ctx context.Context, vectors []BehaviorVector) ([]core.UserCluster, error) {
	minProfiles := e.MinProfiles
	if minProfiles <= 0 {
		minProfiles = DefaultMinProfiles
	}
	minHours := e.MinListeningHours
	if minHours <= 0 {
		minHours = DefaultMinListeningHours
	}

	qualified := make([]BehaviorVector, 0, len(vectors))
	for _, v := range vectors {
		if v.ListeningHours >= minHours {
			qualified = append(qualified, v)
		}
	}
	if len(qualified) < minProfiles {
		e.Logger.Info().
			Int("qualified", len(qualified)).
			Int("min_profiles", minProfiles).
			Msg("not enough qualified listeners for clustering")
		return nil, nil
	}

	k := e.K
	if k <= 0 {
		k = DefaultK
	}
	if k > len(qualified) {
		k = len(qualified)
	}

	rows := make([][]float64, len(qualified))
	for i, v := range qualified {
		rows[i] = v.Dims()
	}
	normalized := stat.MinMaxNormalize(rows)

	assignments := e.kmeans(ctx, normalized, k)

	return e.label(qualified, assignments, k), nil
}

// kmeans 返回每个样本的簇下标。
func (e *Engine) kmeans(ctx context.Context, rows [][]float64, k int) []int {
	rng := e.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	maxIter := e.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	// 随机取 k 个不同样本作为初始质心
	centroids := make([][]float64, k)
	for i, idx := range rng.Perm(len(rows))[:k] {
		centroids[i] = append([]float64(nil), rows[idx]...)
	}

	assignments := make([]int, len(rows))
	for iter := 0; iter < maxIter; iter++ {
		if ctx.Err() != nil {
			break
		}

		changed := false
		for i, row := range rows {
			best := nearest(centroids, row)
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// 重算质心：空簇保留上一轮质心
		for c := 0; c < k; c++ {
			sum := make([]float64, len(rows[0]))
			count := 0
			for i, a := range assignments {
				if a != c {
					continue
				}
				for d, v := range rows[i] {
					sum[d] += v
				}
				count++
			}
			if count == 0 {
				continue
			}
			for d := range sum {
				sum[d] /= float64(count)
			}
			centroids[c] = sum
		}
	}

	// 质心最后一次更新后再做一次分配，保证返回的是最终分配
	for i, row := range rows {
		assignments[i] = nearest(centroids, row)
	}
	return assignments
}

func nearest(centroids [][]float64, row []float64) int {
	best, bestDist := 0, stat.SquaredDistance(centroids[0], row)
	for c := 1; c < len(centroids); c++ {
		if d := stat.SquaredDistance(centroids[c], row); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
