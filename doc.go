// Package bookrec 是一个图书推荐引擎（Book Recommender）。
//
// 设计要点：
// - Snapshot-first: 相似度矩阵、内容向量、趋势榜全部离线构建，经单一原子引用整体换代
// - 策略路由: user+item → Hybrid；仅 user → CF；仅 item → CBF；匿名 → Trending
// - Labels-first: fallback/partial 等降级决策全链路透传，上层可解释、可观测
package bookrec

import (
	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/engine"
	"github.com/rushteam/bookrec/snapshot"
)

// 轻量 facade：便于用户直接 import "bookrec" 使用核心抽象。
type Engine = engine.Engine
type Result = engine.Result
type RecommendContext = core.RecommendContext
type Snapshot = snapshot.Snapshot
type Holder = snapshot.Holder
type Builder = snapshot.Builder
type Refresher = snapshot.Refresher
