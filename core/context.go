package core

import "github.com/rushteam/bookrec/pkg/utils"

// RecommendContext 承载一次查询的全部输入，贯穿策略/过滤/截断链路透传。
//
// 路由规则（由引擎执行）：
//   - UserID + ItemID → Hybrid
//   - 仅 UserID       → CF
//   - 仅 ItemID       → CBF
//   - 均为空          → Trending
type RecommendContext struct {
	UserID string // 目标用户；为空表示匿名
	ItemID string // 锚定书目（CBF/Hybrid）

	// K 是结果上限；<=0 时使用配置默认值。
	K int

	// Alpha 是 Hybrid 的 CF 权重 ∈ [0,1]；nil 时使用配置默认值。
	Alpha *float64

	// Params 请求级上下文参数（过滤规则可引用，例如 scene、device）。
	Params map[string]any

	// Labels 是请求级标签，记录路由与回退决策，便于上层解释。
	Labels map[string]utils.Label
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
