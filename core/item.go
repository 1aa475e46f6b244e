package core

import "github.com/rushteam/bookrec/pkg/utils"

// Item 是推荐结果中的统一承载结构：书目元信息、分数、标签。
// Labels 用于解释与回退标记（fallback/partial）；Score 用于排序决策。
type Item struct {
	ID    string
	Score float64

	// TrendingScore 是趋势榜的原始分数（仅 Trending 策略填充）。
	TrendingScore float64

	// Book 是快照中的书目元信息，召回后由引擎回填。
	Book *Book

	Labels map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// ReviewCount 返回书目的评论数；无元信息时为 0（用于平分排序）。
func (it *Item) ReviewCount() int {
	if it.Book == nil {
		return 0
	}
	return it.Book.ReviewCount
}

// AvgRating 返回书目的平均评分；无元信息时为 0（用于平分排序）。
func (it *Item) AvgRating() float64 {
	if it.Book == nil {
		return 0
	}
	return it.Book.AvgRating
}
