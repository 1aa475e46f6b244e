// Package rerank 提供排序结果上的最终修饰，目前只有 Top-N 截断。
package rerank

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/snapshot"
)

// TopN 是 Top-N 截断节点：策略召回与过滤都在未截断的候选上进行，
// 结果上限 K 统一由此节点落实。
type TopN struct {
	// N 要保留的书目数量；<=0 表示不截断
	N int
}

func (n *TopN) Name() string { return "rerank.topn" }

func (n *TopN) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopN) Process(
	_ context.Context,
	_ *snapshot.Snapshot,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}

var _ pipeline.Node = (*TopN)(nil)
