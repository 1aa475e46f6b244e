// Package filter 提供候选过滤：黑名单、已评分剔除、CEL 规则表达式。
// 过滤器通过 FilterNode 组合进引擎的后处理 pipeline，对所有策略生效。
package filter

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/snapshot"
)

// Filter 是过滤器的抽象接口，用于判断一个 Item 是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 item 是否应该被过滤
	ShouldFilter(ctx context.Context, snap *snapshot.Snapshot, rctx *core.RecommendContext, item *core.Item) (bool, error)
}
