// Package snapshot 实现不可变的服务快照：评分矩阵、用户相似度矩阵、
// 内容向量与趋势榜在离线刷新阶段一次性构建，经单一原子引用整体换入。
// 读请求各自捕获一份引用，同一代快照内的 CF/CBF/Trending 结果天然一致。
package snapshot

import (
	"time"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/similarity"
)

// TrendingEntry 是趋势榜的一项，按分数降序预排好。
type TrendingEntry struct {
	ItemID string
	Score  float64
}

// BuildStats 是一次构建的统计信息，用于日志与降级判断。
type BuildStats struct {
	Users           int
	Items           int
	Ratings         int
	DroppedRatings  int // 引用了目录外书目、被丢弃的评分数
	DuplicateWrites int // 同 (user,item) 的旧评分被覆盖的次数
	BuildDuration   time.Duration
}

// Snapshot 是一代服务数据的不可变视图。构建完成后所有字段只读，
// 可被任意多个请求并发访问，不需要额外加锁。
type Snapshot struct {
	// Version 单调标识一代快照（构建时刻的 UnixNano）。
	Version int64
	BuiltAt time.Time

	// FeatureVersion 是内容特征口径（见 similarity.FeatureVersion）。
	FeatureVersion string

	Stats BuildStats

	books map[string]*core.Book

	// 外部 string ID ↔ 稠密整数索引，一次换算、处处查表
	users   []string
	items   []string
	userIdx map[string]int
	itemIdx map[string]int

	// userRatings[u] 是用户 u 的稀疏评分向量（维度 = 书目索引）
	userRatings []similarity.Vector

	// userSim 是用户-用户相似度矩阵（CF 用）
	userSim *similarity.Matrix

	// itemVecs[i] 是书目 i 的单位化 TF-IDF 内容向量（CBF 用）
	itemVecs []similarity.Vector

	// lastRated[i] 是书目 i 最近一次被评分的时间；零值表示从未被评分
	lastRated []time.Time

	trending []TrendingEntry
}

// Book 按 ID 查书目；不存在返回 nil。
func (s *Snapshot) Book(id string) *core.Book { return s.books[id] }

// Books 返回目录（只读约定，调用方不得修改）。
func (s *Snapshot) Books() map[string]*core.Book { return s.books }

// UserCount 返回快照内有评分行为的用户数。
func (s *Snapshot) UserCount() int { return len(s.users) }

// ItemCount 返回快照内的书目数。
func (s *Snapshot) ItemCount() int { return len(s.items) }

// UserIndex 把外部用户 ID 换算为稠密索引。
func (s *Snapshot) UserIndex(id string) (int, bool) {
	idx, ok := s.userIdx[id]
	return idx, ok
}

// ItemIndex 把外部书目 ID 换算为稠密索引。
func (s *Snapshot) ItemIndex(id string) (int, bool) {
	idx, ok := s.itemIdx[id]
	return idx, ok
}

// ItemID 把稠密索引换算回外部书目 ID；越界返回空串。
func (s *Snapshot) ItemID(idx int) string {
	if idx < 0 || idx >= len(s.items) {
		return ""
	}
	return s.items[idx]
}

// UserRatings 返回用户的稀疏评分向量；越界返回 nil。
func (s *Snapshot) UserRatings(userIdx int) similarity.Vector {
	if userIdx < 0 || userIdx >= len(s.userRatings) {
		return nil
	}
	return s.userRatings[userIdx]
}

// HasRated 判断用户是否已评分过某书目（按稠密索引）。
func (s *Snapshot) HasRated(userIdx, itemIdx int) bool {
	v := s.UserRatings(userIdx)
	if v == nil {
		return false
	}
	_, ok := v[itemIdx]
	return ok
}

// UserSim 返回用户相似度矩阵。
func (s *Snapshot) UserSim() *similarity.Matrix { return s.userSim }

// ItemVector 返回书目的内容向量；越界返回 nil。
func (s *Snapshot) ItemVector(itemIdx int) similarity.Vector {
	if itemIdx < 0 || itemIdx >= len(s.itemVecs) {
		return nil
	}
	return s.itemVecs[itemIdx]
}

// LastRated 返回书目最近一次被评分的时间；零值表示从未被评分。
func (s *Snapshot) LastRated(itemIdx int) time.Time {
	if itemIdx < 0 || itemIdx >= len(s.lastRated) {
		return time.Time{}
	}
	return s.lastRated[itemIdx]
}

// Trending 返回预排好的趋势榜（降序）。调用方不得修改。
func (s *Snapshot) Trending() []TrendingEntry { return s.trending }
