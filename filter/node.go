package filter

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/pkg/utils"
	"github.com/rushteam/bookrec/snapshot"
)

// Node 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该书目就会被过滤掉。
type Node struct {
	Filters []Filter
}

func (n *Node) Name() string { return "filter.node" }

func (n *Node) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *Node) Process(
	ctx context.Context,
	snap *snapshot.Snapshot,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		shouldFilter := false
		filterReason := ""
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, snap, rctx, item)
			if err != nil {
				// 过滤器错误时记录但不中断流程
				continue
			}
			if ok {
				shouldFilter = true
				filterReason = f.Name()
				break
			}
		}

		if shouldFilter {
			// 记录过滤原因（用于调试/观测）
			item.PutLabel("filtered", utils.Label{Value: "true", Source: filterReason})
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

var _ pipeline.Node = (*Node)(nil)
