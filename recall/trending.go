package recall

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/utils"
	"github.com/rushteam/bookrec/snapshot"
)

// Trending 是趋势榜召回：直接读快照预排好的全目录榜单。
// 分数 = avg_rating · log(1+review_count) · 按半衰期衰减的活跃度权重，
// 在快照构建阶段算好，这里只是查表——匿名流量不应触发任何重计算。
type Trending struct{}

func (r *Trending) Name() string { return "recall.trending" }

func (r *Trending) Recall(
	ctx context.Context,
	snap *snapshot.Snapshot,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	entries := snap.Trending()
	out := make([]*core.Item, 0, len(entries))
	for _, e := range entries {
		it := core.NewItem(e.ItemID)
		it.Score = e.Score
		it.TrendingScore = e.Score
		it.Book = snap.Book(e.ItemID)
		it.PutLabel("strategy", utils.Label{Value: "trending", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
