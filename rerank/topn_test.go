package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/bookrec/core"
)

func TestTopN(t *testing.T) {
	items := []*core.Item{core.NewItem("a"), core.NewItem("b"), core.NewItem("c")}

	tests := []struct {
		name     string
		n        int
		expected int
	}{
		{"正常截断", 2, 2},
		{"候选不足不截断", 10, 3},
		{"n 为 0 不截断", 0, 3},
		{"n 为负不截断", -1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopN{N: tt.n}
			out, err := node.Process(context.Background(), nil, nil, items)
			if err != nil {
				t.Fatalf("Process() 失败: %v", err)
			}
			if len(out) != tt.expected {
				t.Errorf("结果数 = %d, 期望 %d", len(out), tt.expected)
			}
		})
	}
}
