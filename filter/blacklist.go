package filter

import (
	"context"
	"encoding/json"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/snapshot"
)

// Blacklist 是黑名单过滤器，过滤掉黑名单中的书目（下架、版权下线等）。
// 支持内存 ID 列表与 Store 两种来源：Store 中存 JSON 数组，key 由 Key 指定。
type Blacklist struct {
	// ItemIDs 是内存中的黑名单书目 ID 列表
	ItemIDs []string

	// Store 用于从存储中读取黑名单（可选）
	Store core.Store

	// Key 是 Store 中的黑名单 key（可选）
	Key string
}

func (f *Blacklist) Name() string { return "filter.blacklist" }

func (f *Blacklist) ShouldFilter(
	ctx context.Context,
	_ *snapshot.Snapshot,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	for _, id := range f.ItemIDs {
		if item.ID == id {
			return true, nil
		}
	}

	if f.Store != nil && f.Key != "" {
		data, err := f.Store.Get(ctx, f.Key)
		if err == nil {
			var ids []string
			if json.Unmarshal(data, &ids) == nil {
				for _, id := range ids {
					if item.ID == id {
						return true, nil
					}
				}
			}
		}
	}
	return false, nil
}
