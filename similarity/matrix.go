package similarity

import "sort"

// Matrix 是对称相似度矩阵，按稠密整数索引寻址。
// 只存上三角（含对角线），n 个实体占用 n*(n+1)/2 个 float64。
// 随快照整体重建、整体替换，构建完成后只读，可被并发读取。
type Matrix struct {
	n    int
	data []float64
}

// NewMatrix 创建 n×n 对称矩阵，初值全 0。
func NewMatrix(n int) *Matrix {
	if n < 0 {
		n = 0
	}
	return &Matrix{
		n:    n,
		data: make([]float64, n*(n+1)/2),
	}
}

// Size 返回实体数量 n。
func (m *Matrix) Size() int { return m.n }

func (m *Matrix) index(i, j int) int {
	if i > j {
		i, j = j, i
	}
	// 上三角按行展开：行 i 之前累计 i*n - i*(i-1)/2 个元素
	return i*m.n - i*(i-1)/2 + (j - i)
}

// Set 写入 sim(i,j)；对称性由存储结构保证，Set(i,j) 等价于 Set(j,i)。
func (m *Matrix) Set(i, j int, v float64) {
	if i < 0 || j < 0 || i >= m.n || j >= m.n {
		return
	}
	m.data[m.index(i, j)] = v
}

// Get 读取 sim(i,j)。越界返回 0。
func (m *Matrix) Get(i, j int) float64 {
	if i < 0 || j < 0 || i >= m.n || j >= m.n {
		return 0
	}
	return m.data[m.index(i, j)]
}

// Neighbor 是 TopNeighbors 的返回项。
type Neighbor struct {
	Index int
	Sim   float64
}

// TopNeighbors 返回实体 i 相似度最高的至多 topN 个邻居（不含自身），
// 只保留 sim > minSim 的项；相似度相同按索引升序，保证确定性。
func (m *Matrix) TopNeighbors(i, topN int, minSim float64) []Neighbor {
	if i < 0 || i >= m.n || topN <= 0 {
		return nil
	}

	neighbors := make([]Neighbor, 0, m.n)
	for j := 0; j < m.n; j++ {
		if j == i {
			continue
		}
		if sim := m.Get(i, j); sim > minSim {
			neighbors = append(neighbors, Neighbor{Index: j, Sim: sim})
		}
	}

	sort.Slice(neighbors, func(a, b int) bool {
		if neighbors[a].Sim != neighbors[b].Sim {
			return neighbors[a].Sim > neighbors[b].Sim
		}
		return neighbors[a].Index < neighbors[b].Index
	})

	if len(neighbors) > topN {
		neighbors = neighbors[:topN]
	}
	return neighbors
}
