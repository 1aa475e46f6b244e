package filter

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/snapshot"
)

// Rated 过滤掉当前用户已经评分过的书目。
// CF 在召回内部已经排除了已评分书目；此过滤器让 Hybrid / CBF / Trending
// 的结果在需要时也遵守同一约束。匿名查询（无 UserID）不过滤。
type Rated struct{}

func (f *Rated) Name() string { return "filter.rated" }

func (f *Rated) ShouldFilter(
	_ context.Context,
	snap *snapshot.Snapshot,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if rctx == nil || rctx.UserID == "" {
		return false, nil
	}
	userIdx, ok := snap.UserIndex(rctx.UserID)
	if !ok {
		return false, nil
	}
	itemIdx, ok := snap.ItemIndex(item.ID)
	if !ok {
		return false, nil
	}
	return snap.HasRated(userIdx, itemIdx), nil
}
