package filter

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/snapshot"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("book", cel.DynType),
			cel.Variable("query", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Rule 是 CEL (Common Expression Language) 规则过滤器：表达式描述"保留条件"，
// 求值为 false 的候选被过滤。表达式在构造时编译一次，求值线程安全。
//
// 表达式可访问：
//   - item:  id / score / labels（labels.strategy 等取 Label 的 value）
//   - book:  title / authors / avg_rating / review_count / tags
//   - query: user_id / item_id / k
//
// 示例：
//   - `book.review_count >= 10` → 只保留有足够评论数的书
//   - `!("adult" in book.tags)` → 按标签排除
//   - `item.score > 0.1 || query.user_id == ""` → 匿名流量放宽分数下限
type Rule struct {
	expr string
	prg  cel.Program
}

// NewRule 编译保留条件表达式。表达式非法时返回错误，应在装配期暴露而不是请求期。
func NewRule(expr string) (*Rule, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile rule %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program rule %q: %w", expr, err)
	}
	return &Rule{expr: expr, prg: prg}, nil
}

func (f *Rule) Name() string { return "filter.rule" }

// Expr 返回原始表达式（用于日志/观测）。
func (f *Rule) Expr() string { return f.expr }

func (f *Rule) ShouldFilter(
	_ context.Context,
	_ *snapshot.Snapshot,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	out, _, err := f.prg.Eval(f.buildInput(rctx, item))
	if err != nil {
		return false, fmt.Errorf("eval rule %q: %w", f.expr, err)
	}
	keep, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule %q must return boolean, got %T", f.expr, out.Value())
	}
	return !keep, nil
}

func (f *Rule) buildInput(rctx *core.RecommendContext, item *core.Item) map[string]any {
	labels := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = v.Value
	}

	itemMap := map[string]any{
		"id":     item.ID,
		"score":  item.Score,
		"labels": labels,
	}

	bookMap := map[string]any{
		"title":        "",
		"authors":      []string{},
		"avg_rating":   0.0,
		"review_count": 0,
		"tags":         []string{},
	}
	if b := item.Book; b != nil {
		bookMap["title"] = b.Title
		bookMap["authors"] = b.Authors
		bookMap["avg_rating"] = b.AvgRating
		bookMap["review_count"] = b.ReviewCount
		bookMap["tags"] = b.Tags
	}

	queryMap := map[string]any{"user_id": "", "item_id": "", "k": 0}
	if rctx != nil {
		queryMap["user_id"] = rctx.UserID
		queryMap["item_id"] = rctx.ItemID
		queryMap["k"] = rctx.K
	}

	return map[string]any{
		"item":  itemMap,
		"book":  bookMap,
		"query": queryMap,
	}
}
