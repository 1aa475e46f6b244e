package recall

import (
	"sort"

	"github.com/rushteam/bookrec/core"
)

// TieBreak 指定分数相同时的第二排序键；第三键恒为书目 ID 升序，
// 保证同一快照下两次相同查询产出完全一致的序。
type TieBreak int

const (
	// TieByReviewCount 评论数降序（CF / Trending）
	TieByReviewCount TieBreak = iota
	// TieByAvgRating 平均评分降序（CBF / Hybrid）
	TieByAvgRating
)

// SortItems 按分数降序排序，平分按 tie 规则，再按 ID 升序。
func SortItems(items []*core.Item, tie TieBreak) {
	sort.Slice(items, func(a, b int) bool {
		ia, ib := items[a], items[b]
		if ia.Score != ib.Score {
			return ia.Score > ib.Score
		}
		switch tie {
		case TieByAvgRating:
			if ia.AvgRating() != ib.AvgRating() {
				return ia.AvgRating() > ib.AvgRating()
			}
		default:
			if ia.ReviewCount() != ib.ReviewCount() {
				return ia.ReviewCount() > ib.ReviewCount()
			}
		}
		return ia.ID < ib.ID
	})
}
