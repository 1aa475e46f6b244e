// Package recall 实现三种召回策略：用户协同过滤（CF）、内容相似（CBF）、
// 趋势榜（Trending）。策略只读快照、不做截断——统一的过滤与 Top-K
// 截断由引擎的 pipeline 完成，Hybrid 也依赖未截断的完整候选打分。
package recall

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/snapshot"
)

// Source 表示一个可复用的召回策略。
// 返回的候选已按策略自身的确定性规则排好序，但未截断。
type Source interface {
	Name() string
	Recall(ctx context.Context, snap *snapshot.Snapshot, rctx *core.RecommendContext) ([]*core.Item, error)
}
