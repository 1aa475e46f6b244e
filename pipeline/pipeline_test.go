package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/snapshot"
)

type fakeNode struct {
	name string
	fn   func(items []*core.Item) ([]*core.Item, error)
}

func (n *fakeNode) Name() string { return n.name }
func (n *fakeNode) Kind() Kind   { return KindPostProcess }
func (n *fakeNode) Process(
	_ context.Context,
	_ *snapshot.Snapshot,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	return n.fn(items)
}

func TestPipelineChains(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&fakeNode{name: "append", fn: func(items []*core.Item) ([]*core.Item, error) {
			return append(items, core.NewItem("b2")), nil
		}},
		&fakeNode{name: "keep-first", fn: func(items []*core.Item) ([]*core.Item, error) {
			return items[:1], nil
		}},
	}}

	out, err := p.Run(context.Background(), nil, nil, []*core.Item{core.NewItem("b1")})
	if err != nil {
		t.Fatalf("Run() 失败: %v", err)
	}
	if len(out) != 1 || out[0].ID != "b1" {
		t.Errorf("链路输出 = %v, 期望只剩 b1", out)
	}
}

func TestPipelineStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	reached := false
	p := &Pipeline{Nodes: []Node{
		&fakeNode{name: "fail", fn: func([]*core.Item) ([]*core.Item, error) {
			return nil, boom
		}},
		&fakeNode{name: "never", fn: func(items []*core.Item) ([]*core.Item, error) {
			reached = true
			return items, nil
		}},
	}}

	if _, err := p.Run(context.Background(), nil, nil, nil); !errors.Is(err, boom) {
		t.Errorf("Run() = %v, 期望透传节点错误", err)
	}
	if reached {
		t.Error("出错后不应执行后续节点")
	}
}

func TestPipelineEmpty(t *testing.T) {
	p := &Pipeline{}
	in := []*core.Item{core.NewItem("b1")}
	out, err := p.Run(context.Background(), nil, nil, in)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Errorf("空链路应原样返回, 实际 %v", out)
	}
}
