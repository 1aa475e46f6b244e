// Package similarity 提供相似度计算与相似度矩阵：
//   - 稀疏评分向量的余弦/皮尔逊（仅在共同维度上计算，带最小重叠阈值）
//   - 单位化内容向量的点积
//   - 对称矩阵（稠密下三角存储，按整数索引寻址）
//
// 快照构建阶段批量产出矩阵，请求路径只做查表。
package similarity

import "math"

// Vector 是稀疏向量：key 为稠密维度索引（快照分配），value 为分量值。
// 缺失的维度表示"无数据"，而不是 0。
type Vector map[int]float64

// Metric 是相似度度量方式。
type Metric string

const (
	MetricCosine  Metric = "cosine"
	MetricPearson Metric = "pearson"
)

// Cosine 计算两个稀疏向量的余弦相似度，仅在共同维度（评分重叠）上计算。
// 重叠维度数 < minOverlap 时返回 0，避免单一共同评分撑出虚高相似度。
// 任一侧在重叠维度上范数为 0 时返回 0（冷实体约定）。
func Cosine(a, b Vector, minOverlap int) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	// 遍历较小的一侧
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot, normA, normB float64
	overlap := 0
	for dim, va := range a {
		vb, ok := b[dim]
		if !ok {
			continue
		}
		overlap++
		dot += va * vb
		normA += va * va
		normB += vb * vb
	}

	if overlap < minOverlap {
		return 0
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Pearson 计算两个稀疏向量在共同维度上的皮尔逊相关系数。
// 与 Cosine 一样受 minOverlap 约束；方差为 0 时返回 0。
func Pearson(a, b Vector, minOverlap int) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}

	type pair struct{ x, y float64 }
	pairs := make([]pair, 0, len(a))
	for dim, va := range a {
		if vb, ok := b[dim]; ok {
			pairs = append(pairs, pair{x: va, y: vb})
		}
	}
	if len(pairs) < minOverlap || len(pairs) == 0 {
		return 0
	}

	var meanX, meanY float64
	for _, p := range pairs {
		meanX += p.x
		meanY += p.y
	}
	meanX /= float64(len(pairs))
	meanY /= float64(len(pairs))

	var cov, varX, varY float64
	for _, p := range pairs {
		dx := p.x - meanX
		dy := p.y - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

// Dot 计算两个稀疏向量的点积。
// 两侧都已单位化时（TF-IDF 内容向量），点积即余弦相似度 ∈ [0,1]。
func Dot(a, b Vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for dim, va := range a {
		if vb, ok := b[dim]; ok {
			dot += va * vb
		}
	}
	return dot
}

// Compute 按 metric 分发到具体度量；未知 metric 按 cosine 处理。
func Compute(metric Metric, a, b Vector, minOverlap int) float64 {
	switch metric {
	case MetricPearson:
		return Pearson(a, b, minOverlap)
	case MetricCosine:
		fallthrough
	default:
		return Cosine(a, b, minOverlap)
	}
}
