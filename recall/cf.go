package recall

import (
	"context"
	"math"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/utils"
	"github.com/rushteam/bookrec/snapshot"
)

// UserCF 是基于用户的协同过滤召回（User-based Collaborative Filtering）。
//
// 核心思想："兴趣相似的用户，喜欢相似的书"
//
// 算法流程：
//  1. 从快照的用户相似度矩阵取 TopN 相似用户（排除自身，仅 sim > 0）
//  2. 对邻居评过、目标用户未评过的每本书，计算相似度加权平均分：
//     predicted(item) = Σ(sim(u,n)·rating(n,item)) / Σ|sim(u,n)|，
//     求和范围是评过该书的邻居；没有任何邻居贡献的书不进入候选
//  3. 按预测分降序排序；平分按评论数降序、再按书目 ID 升序
//
// 冷启动：未知用户或没有任何相似度 > 0 的邻居时返回 COLD_START，
// 由引擎改走趋势榜回退并打 fallback 标记——这不是硬错误。
type UserCF struct {
	// Neighbors 是参与打分的 TopN 相似用户数（<=0 取 20）
	Neighbors int
}

func (r *UserCF) Name() string { return "recall.cf" }

func (r *UserCF) Recall(
	ctx context.Context,
	snap *snapshot.Snapshot,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	userIdx, ok := snap.UserIndex(rctx.UserID)
	if !ok {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeColdStart, "cf: unknown user "+rctx.UserID)
	}

	topN := r.Neighbors
	if topN <= 0 {
		topN = 20
	}

	neighbors := snap.UserSim().TopNeighbors(userIdx, topN, 0)
	if len(neighbors) == 0 {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeColdStart, "cf: user "+rctx.UserID+" has no neighbors")
	}

	// 相似度加权累积：num/den 分开累积，den 用 |sim| 归一
	num := make(map[int]float64)
	den := make(map[int]float64)
	for _, nb := range neighbors {
		sim := nb.Sim
		for itemIdx, rating := range snap.UserRatings(nb.Index) {
			if snap.HasRated(userIdx, itemIdx) {
				continue
			}
			num[itemIdx] += sim * rating
			den[itemIdx] += math.Abs(sim)
		}
	}

	out := make([]*core.Item, 0, len(num))
	for itemIdx, n := range num {
		d := den[itemIdx]
		if d == 0 {
			continue
		}
		id := snap.ItemID(itemIdx)
		it := core.NewItem(id)
		it.Score = n / d
		it.Book = snap.Book(id)
		it.PutLabel("strategy", utils.Label{Value: "cf", Source: "recall"})
		out = append(out, it)
	}

	SortItems(out, TieByReviewCount)
	return out, nil
}
