package pipeline

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/snapshot"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall      Kind = "recall"      // 召回阶段：按策略生成候选集
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不符合约束的候选
	KindReRank      Kind = "rerank"      // 重排阶段：确定性排序与 Top-K 截断
	KindPostProcess Kind = "postprocess" // 后处理阶段：回填元信息或最终修饰
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items → 输出 items”的形态，方便召回生成、过滤截断、重排等操作。
// snap 是本次请求捕获的快照引用，链路内所有 Node 看到同一代数据。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		snap *snapshot.Snapshot,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
