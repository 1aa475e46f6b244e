// Package engine 是推荐引擎的对外门面：按查询形态路由到 CF / CBF /
// Hybrid / Trending 四种策略，统一做过滤、确定性排序与 Top-K 截断。
//
// 引擎本身无状态：每个请求开头从 Holder 捕获一份快照引用，之后的全部
// 计算都是 (查询, 快照, 配置) 的纯函数，天然幂等、可并发。
package engine

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/filter"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/pkg/utils"
	"github.com/rushteam/bookrec/recall"
	"github.com/rushteam/bookrec/rerank"
	"github.com/rushteam/bookrec/snapshot"
)

// 默认参数；零值 Engine 即可服务（配齐 Snapshots 之后）。
const (
	DefaultK         = 10
	DefaultTrendingK = 20
	DefaultNeighbors = 20
	DefaultAlpha     = 0.5
)

// Engine 是推荐引擎。字段为零值时使用上面的默认参数。
type Engine struct {
	// Snapshots 提供当前服役的快照（必填）。
	Snapshots *snapshot.Holder

	// Neighbors 是 CF 参与打分的 TopN 相似用户数。
	Neighbors int

	// DefaultK 是 CF/CBF/Hybrid 的默认结果上限；TrendingK 是趋势榜的。
	DefaultK  int
	TrendingK int

	// DefaultAlpha 是 Hybrid 的默认 CF 权重；<=0 取 0.5。
	DefaultAlpha float64

	// Filters 应用到所有策略输出（黑名单、规则等）。
	Filters []filter.Filter
}

// Result 是一次推荐的完整返回。
type Result struct {
	// Items 按分数严格非增排列，长度 ≤ K。
	Items []*core.Item

	// Strategy 是实际执行的策略：cf / cbf / hybrid / trending。
	Strategy string

	// Fallback 表示冷启动回退（结果来自趋势榜而非请求的策略）。
	// 调用方可据此调整文案；这不是错误。
	Fallback bool

	// Partial 表示 Hybrid 只有单边信号可用。
	Partial bool

	// SnapshotVersion 是产出本结果的快照版本。
	SnapshotVersion int64
}

// Recommend 按查询形态路由：
//   - UserID + ItemID → Hybrid
//   - 仅 UserID       → CF
//   - 仅 ItemID       → CBF
//   - 均为空          → Trending
func (e *Engine) Recommend(ctx context.Context, rctx *core.RecommendContext) (*Result, error) {
	switch {
	case rctx.UserID != "" && rctx.ItemID != "":
		alpha := -1.0
		if rctx.Alpha != nil {
			alpha = *rctx.Alpha
		}
		return e.HybridRecommend(ctx, rctx.UserID, rctx.ItemID, rctx.K, alpha)
	case rctx.UserID != "":
		return e.CFRecommend(ctx, rctx.UserID, rctx.K)
	case rctx.ItemID != "":
		return e.CBFRecommend(ctx, rctx.ItemID, rctx.K)
	default:
		return e.Trending(ctx, rctx.K)
	}
}

// CFRecommend 为已知用户做协同过滤推荐。
// 冷启动（未知用户 / 无有效邻居）回退到趋势榜，结果打 Fallback 标记。
func (e *Engine) CFRecommend(ctx context.Context, userID string, k int) (*Result, error) {
	snap, err := e.Snapshots.Current()
	if err != nil {
		return nil, err
	}
	k = orDefault(k, e.DefaultK, DefaultK)
	rctx := &core.RecommendContext{UserID: userID, K: k}

	cf := &recall.UserCF{Neighbors: orDefault(e.Neighbors, 0, DefaultNeighbors)}
	items, err := cf.Recall(ctx, snap, rctx)
	fallback := false
	if err != nil {
		if !core.IsColdStart(err) {
			return nil, err
		}
		// 冷启动不是错误：改走趋势榜，结果带 fallback 标记
		items, err = (&recall.Trending{}).Recall(ctx, snap, rctx)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			it.PutLabel("fallback", utils.Label{Value: "trending", Source: "engine"})
		}
		fallback = true
	}

	items, err = e.postProcess(ctx, snap, rctx, items, k)
	if err != nil {
		return nil, err
	}
	return &Result{
		Items:           items,
		Strategy:        "cf",
		Fallback:        fallback,
		SnapshotVersion: snap.Version,
	}, nil
}

// CBFRecommend 返回与锚定书目内容相似的书。未知书目返回 NOT_FOUND。
func (e *Engine) CBFRecommend(ctx context.Context, itemID string, k int) (*Result, error) {
	snap, err := e.Snapshots.Current()
	if err != nil {
		return nil, err
	}
	k = orDefault(k, e.DefaultK, DefaultK)
	rctx := &core.RecommendContext{ItemID: itemID, K: k}

	items, err := (&recall.ContentCBF{}).Recall(ctx, snap, rctx)
	if err != nil {
		return nil, err
	}

	items, err = e.postProcess(ctx, snap, rctx, items, k)
	if err != nil {
		return nil, err
	}
	return &Result{
		Items:           items,
		Strategy:        "cbf",
		SnapshotVersion: snap.Version,
	}, nil
}

// Trending 返回全目录趋势榜（匿名/首访流量）。
func (e *Engine) Trending(ctx context.Context, k int) (*Result, error) {
	snap, err := e.Snapshots.Current()
	if err != nil {
		return nil, err
	}
	k = orDefault(k, e.TrendingK, DefaultTrendingK)
	rctx := &core.RecommendContext{K: k}

	items, err := (&recall.Trending{}).Recall(ctx, snap, rctx)
	if err != nil {
		return nil, err
	}

	items, err = e.postProcess(ctx, snap, rctx, items, k)
	if err != nil {
		return nil, err
	}
	return &Result{
		Items:           items,
		Strategy:        "trending",
		SnapshotVersion: snap.Version,
	}, nil
}

// postProcess 对策略输出套用统一的过滤 + Top-K 截断链。
func (e *Engine) postProcess(
	ctx context.Context,
	snap *snapshot.Snapshot,
	rctx *core.RecommendContext,
	items []*core.Item,
	k int,
) ([]*core.Item, error) {
	p := &pipeline.Pipeline{Nodes: []pipeline.Node{
		&filter.Node{Filters: e.Filters},
		&rerank.TopN{N: k},
	}}
	return p.Run(ctx, snap, rctx, items)
}

// orDefault 依次取第一个正值。
func orDefault(v, configured, fallback int) int {
	if v > 0 {
		return v
	}
	if configured > 0 {
		return configured
	}
	return fallback
}
