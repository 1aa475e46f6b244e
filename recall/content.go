package recall

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/utils"
	"github.com/rushteam/bookrec/similarity"
	"github.com/rushteam/bookrec/snapshot"
)

// ContentCBF 是基于内容的召回（Content-Based Filtering）：
// 给定锚定书目，按内容向量（标题/作者/标签的 TF-IDF，快照内单位化）
// 与全量书目逐一求点积，排除锚定书目自身。
//
// 排序：相似度降序；平分按平均评分降序、再按书目 ID 升序。
//
// 冷启动：未知书目返回 NOT_FOUND——没有书目自身的内容属性，
// 不存在有意义的内容回退。
type ContentCBF struct{}

func (r *ContentCBF) Name() string { return "recall.cbf" }

func (r *ContentCBF) Recall(
	ctx context.Context,
	snap *snapshot.Snapshot,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	queryIdx, ok := snap.ItemIndex(rctx.ItemID)
	if !ok {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeNotFound, "cbf: unknown item "+rctx.ItemID)
	}

	queryVec := snap.ItemVector(queryIdx)

	out := make([]*core.Item, 0, snap.ItemCount()-1)
	for j := 0; j < snap.ItemCount(); j++ {
		if j == queryIdx {
			continue
		}
		sim := similarity.Dot(queryVec, snap.ItemVector(j))
		if sim <= 0 {
			continue
		}
		id := snap.ItemID(j)
		it := core.NewItem(id)
		it.Score = sim
		it.Book = snap.Book(id)
		it.PutLabel("strategy", utils.Label{Value: "cbf", Source: "recall"})
		out = append(out, it)
	}

	SortItems(out, TieByAvgRating)
	return out, nil
}
