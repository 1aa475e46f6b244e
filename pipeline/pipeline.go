// Package pipeline 把推荐后处理拆成可组合的 Node 链（Filter → ReRank → ...）。
// 引擎为每个策略的输出套用同一条链，保证过滤与截断行为跨策略一致。
package pipeline

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/snapshot"
)

// Pipeline 是 Node 链：前一个 Node 的输出作为后一个的输入。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	snap *snapshot.Snapshot,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, snap, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
