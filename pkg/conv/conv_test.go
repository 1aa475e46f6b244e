package conv

import (
	"reflect"
	"testing"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
		ok       bool
	}{
		{"float64", 3.14, 3.14, true},
		{"float32", float32(2.5), 2.5, true},
		{"int", 7, 7, true},
		{"int64", int64(9), 9, true},
		{"int32", int32(4), 4, true},
		{"bool true", true, 1, true},
		{"bool false", false, 0, true},
		{"string 不支持", "3.14", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.input)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("ToFloat64(%v) = %v/%v, 期望 %v/%v", tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestSliceAnyToString(t *testing.T) {
	got := SliceAnyToString([]any{"a", 1, "b", nil})
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("SliceAnyToString = %v, 期望 [a b]", got)
	}
	if SliceAnyToString(nil) != nil {
		t.Error("nil 输入应返回 nil")
	}
	if SliceAnyToString("not a slice") != nil {
		t.Error("非切片输入应返回 nil")
	}
}

func TestConfigGet(t *testing.T) {
	m := map[string]any{"name": "cf", "k": 10}
	if got := ConfigGet(m, "name", "default"); got != "cf" {
		t.Errorf("ConfigGet(name) = %v", got)
	}
	if got := ConfigGet(m, "missing", "default"); got != "default" {
		t.Errorf("ConfigGet(missing) = %v", got)
	}
	// 类型不符回退默认值
	if got := ConfigGet(m, "k", "default"); got != "default" {
		t.Errorf("ConfigGet 类型不符 = %v", got)
	}
}

func TestConfigGetInt(t *testing.T) {
	m := map[string]any{
		"a": 1,
		"b": int64(2),
		"c": 3.0, // JSON 数字默认解析为 float64
		"d": "x",
	}
	tests := []struct {
		key      string
		expected int
	}{
		{"a", 1}, {"b", 2}, {"c", 3}, {"d", 9}, {"missing", 9},
	}
	for _, tt := range tests {
		if got := ConfigGetInt(m, tt.key, 9); got != tt.expected {
			t.Errorf("ConfigGetInt(%s) = %d, 期望 %d", tt.key, got, tt.expected)
		}
	}
}
