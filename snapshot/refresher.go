package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rushteam/bookrec/core"
)

// DefaultPublishKey 是趋势榜发布到 KeyValueStore 的默认 zset key。
const DefaultPublishKey = "trending:books"

// Refresher 负责带外刷新：按固定周期（或显式触发）重建快照并整体换入。
// 刷新与读流量完全解耦，失败保留旧快照继续服役。
type Refresher struct {
	Builder *Builder
	Holder  *Holder

	// Interval 是周期刷新间隔；<=0 表示只响应显式 Refresh
	Interval time.Duration

	// Publish 可选：刷新成功后把趋势榜写入有序集合，供旁路服务读取
	Publish    core.KeyValueStore
	PublishKey string

	// PublishLimit 限制发布条数（<=0 取 100）
	PublishLimit int

	// Logger 为空时用 slog.Default()
	Logger *slog.Logger
}

func (r *Refresher) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Refresh 执行一次构建并换入。构建失败时旧快照不受影响。
func (r *Refresher) Refresh(ctx context.Context) error {
	snap, err := r.Builder.Build(ctx)
	if err != nil {
		r.logger().Error("snapshot refresh failed", "err", err)
		return err
	}
	r.Holder.Swap(snap)
	r.logger().Info("snapshot refreshed",
		"version", snap.Version,
		"users", snap.Stats.Users,
		"items", snap.Stats.Items,
		"ratings", snap.Stats.Ratings,
		"dropped_ratings", snap.Stats.DroppedRatings,
		"duration", snap.Stats.BuildDuration,
	)

	if r.Publish != nil {
		if err := r.publishTrending(ctx, snap); err != nil {
			// 发布是旁路能力，失败不应影响换代
			r.logger().Warn("trending publish failed", "err", err)
		}
	}
	return nil
}

func (r *Refresher) publishTrending(ctx context.Context, snap *Snapshot) error {
	key := r.PublishKey
	if key == "" {
		key = DefaultPublishKey
	}
	limit := r.PublishLimit
	if limit <= 0 {
		limit = 100
	}

	entries := snap.Trending()
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for _, e := range entries {
		if err := r.Publish.ZAdd(ctx, key, e.Score, e.ItemID); err != nil {
			return fmt.Errorf("zadd %s: %w", key, err)
		}
	}
	return nil
}

// Run 先做一次刷新，然后按 Interval 周期刷新，直到 ctx 结束。
// 首次刷新失败会直接返回错误（没有可服役的快照属于启动失败）；
// 后续周期刷新失败只记日志，旧快照继续服役。
func (r *Refresher) Run(ctx context.Context) error {
	if err := r.Refresh(ctx); err != nil {
		return err
	}
	if r.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = r.Refresh(ctx) // 错误已在 Refresh 内记录
		}
	}
}
