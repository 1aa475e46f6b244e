package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/utils"
	"github.com/rushteam/bookrec/recall"
)

// HybridRecommend 融合 CF 与 CBF 两路信号：
//
//  1. 并发取两路未截断的完整候选打分
//  2. 各自做 min-max 归一到 [0,1]（空列表或常数列表贡献 0）
//  3. 在候选并集上加权合成：combined = α·cf + (1−α)·cbf，
//     缺席一路的候选该项记 0
//  4. 合成分降序；平分按平均评分降序、再按书目 ID 升序
//
// 退化情形：
//   - CF 冷启动 → 仅用 CBF（α 视同 0），结果标 Partial
//   - 书目未知但用户有效 → 仅用 CF，结果标 Partial
//   - 两路都不可用 → NOT_FOUND（没有任何可个性化的信号）
//
// alpha < 0 表示使用默认权重；超出 [0,1] 会被钳制。
func (e *Engine) HybridRecommend(ctx context.Context, userID, itemID string, k int, alpha float64) (*Result, error) {
	snap, err := e.Snapshots.Current()
	if err != nil {
		return nil, err
	}
	k = orDefault(k, e.DefaultK, DefaultK)
	if alpha < 0 {
		alpha = e.DefaultAlpha
		if alpha <= 0 {
			alpha = DefaultAlpha
		}
	}
	if alpha > 1 {
		alpha = 1
	}
	rctx := &core.RecommendContext{UserID: userID, ItemID: itemID, K: k}

	// 两路候选相互独立，并发取数
	var cfItems, cbfItems []*core.Item
	var cfErr, cbfErr error
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		cf := &recall.UserCF{Neighbors: orDefault(e.Neighbors, 0, DefaultNeighbors)}
		cfItems, cfErr = cf.Recall(egCtx, snap, rctx)
		if cfErr != nil && !core.IsColdStart(cfErr) {
			return cfErr
		}
		return nil
	})
	eg.Go(func() error {
		cbfItems, cbfErr = (&recall.ContentCBF{}).Recall(egCtx, snap, rctx)
		if cbfErr != nil && !core.IsNotFound(cbfErr) {
			return cbfErr
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	partial := false
	switch {
	case cfErr != nil && cbfErr != nil:
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeNotFound,
			"hybrid: no usable signal for user "+userID+" and item "+itemID)
	case cfErr != nil:
		// CF 冷启动：α 视同 0，仅用内容信号
		alpha = 0
		partial = true
	case cbfErr != nil:
		alpha = 1
		partial = true
	}

	items := combine(cfItems, cbfItems, alpha)
	for _, it := range items {
		// strategy 标记实际服务的策略，覆盖召回阶段写入的单路值；
		// 降级痕迹由 partial 标记承载
		it.Labels["strategy"] = utils.Label{Value: "hybrid", Source: "engine"}
		if partial {
			it.PutLabel("partial", utils.Label{Value: "true", Source: "engine"})
		}
	}
	recall.SortItems(items, recall.TieByAvgRating)

	items, err = e.postProcess(ctx, snap, rctx, items, k)
	if err != nil {
		return nil, err
	}
	return &Result{
		Items:           items,
		Strategy:        "hybrid",
		Partial:         partial,
		SnapshotVersion: snap.Version,
	}, nil
}

// combine 在两路候选的并集上做归一化加权合成。
// 返回的 Item 复用候选对象（优先 CF 一侧，保留其 Book 与标签）。
func combine(cfItems, cbfItems []*core.Item, alpha float64) []*core.Item {
	cfNorm := minMaxNormalize(cfItems)
	cbfNorm := minMaxNormalize(cbfItems)

	byID := make(map[string]*core.Item, len(cfItems)+len(cbfItems))
	for _, it := range cfItems {
		byID[it.ID] = it
	}
	for _, it := range cbfItems {
		if _, ok := byID[it.ID]; !ok {
			byID[it.ID] = it
		}
	}

	out := make([]*core.Item, 0, len(byID))
	for id, it := range byID {
		it.Score = alpha*cfNorm[id] + (1-alpha)*cbfNorm[id]
		out = append(out, it)
	}
	return out
}

// minMaxNormalize 把候选分数归一到 [0,1]。
// 空列表或常数列表（max == min）按规约贡献全 0。
func minMaxNormalize(items []*core.Item) map[string]float64 {
	out := make(map[string]float64, len(items))
	if len(items) == 0 {
		return out
	}

	min, max := items[0].Score, items[0].Score
	for _, it := range items[1:] {
		if it.Score < min {
			min = it.Score
		}
		if it.Score > max {
			max = it.Score
		}
	}
	if max == min {
		for _, it := range items {
			out[it.ID] = 0
		}
		return out
	}
	for _, it := range items {
		out[it.ID] = (it.Score - min) / (max - min)
	}
	return out
}
