// Package stat 提供引擎内共用的轻量统计工具：均值/标准差/钳制/归一化。
// 这些是确定性的启发式计算，不依赖任何数值库（契约与库无关）。
package stat

import "math"

// Mean 计算均值；空切片返回 0。
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev 计算总体标准差；空切片返回 0。
func StdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mean := Mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// Clamp01 将 v 钳制到 [0,1]。
// 所有对外返回的 score/confidence/potential 都必须先经过钳制。
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp 将 v 钳制到 [lo, hi]。
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MinMaxNormalize 对矩阵按列做 min-max 归一化到 [0,1]，返回新矩阵不改输入。
// 某列取值恒定时除数回退为 1（该列归一化后全为 0），避免除零。
func MinMaxNormalize(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	dims := len(rows[0])
	mins := make([]float64, dims)
	maxs := make([]float64, dims)
	for d := 0; d < dims; d++ {
		mins[d] = math.Inf(1)
		maxs[d] = math.Inf(-1)
	}
	for _, row := range rows {
		for d := 0; d < dims && d < len(row); d++ {
			if row[d] < mins[d] {
				mins[d] = row[d]
			}
			if row[d] > maxs[d] {
				maxs[d] = row[d]
			}
		}
	}

	out := make([][]float64, len(rows))
	for i, row := range rows {
		normalized := make([]float64, dims)
		for d := 0; d < dims && d < len(row); d++ {
			span := maxs[d] - mins[d]
			if span == 0 {
				span = 1
			}
			normalized[d] = (row[d] - mins[d]) / span
		}
		out[i] = normalized
	}
	return out
}

// SquaredDistance 计算两个向量的欧氏距离平方。
func SquaredDistance(a, b []float64) float64 {
	var sum float64
	for i := 0; i < len(a) && i < len(b); i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
