package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainErrorChecks(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"NOT_FOUND 命中", NewDomainError(ModuleEngine, ErrorCodeNotFound, "x"), IsNotFound, true},
		{"NOT_FOUND 不命中其他代码", NewDomainError(ModuleEngine, ErrorCodeColdStart, "x"), IsNotFound, false},
		{"EMPTY_CORPUS 命中", NewDomainError(ModuleSnapshot, ErrorCodeEmptyCorpus, "x"), IsEmptyCorpus, true},
		{"COLD_START 命中", NewDomainError(ModuleEngine, ErrorCodeColdStart, "x"), IsColdStart, true},
		{"NOT_SUPPORTED 命中", NewDomainError(ModuleStore, ErrorCodeNotSupported, "x"), IsNotSupported, true},
		{"普通 error 不命中", errors.New("plain"), IsNotFound, false},
		{"nil 不命中", nil, IsNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("check(%v) = %v, 期望 %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDomainErrorWrapped(t *testing.T) {
	// fmt.Errorf %w 包装后仍可识别
	inner := NewDomainError(ModuleEngine, ErrorCodeColdStart, "cf: unknown user")
	wrapped := fmt.Errorf("recall: %w", inner)

	if !IsColdStart(wrapped) {
		t.Error("包装后的 COLD_START 应仍可识别")
	}
	de := GetDomainError(wrapped)
	if de == nil || de.Module != ModuleEngine {
		t.Errorf("GetDomainError = %+v", de)
	}
}

func TestIsStoreNotFound(t *testing.T) {
	if !IsStoreNotFound(ErrStoreNotFound) {
		t.Error("哨兵错误应命中")
	}
	if !IsStoreNotFound(fmt.Errorf("get: %w", ErrStoreNotFound)) {
		t.Error("包装后的哨兵错误应命中")
	}
	// 其他后端可用自己的 DomainError 表达同一语义
	if !IsStoreNotFound(NewDomainError(ModuleStore, ErrorCodeNotFound, "redis: nil")) {
		t.Error("store 模块的 NOT_FOUND 也应命中")
	}
	if IsStoreNotFound(NewDomainError(ModuleEngine, ErrorCodeNotFound, "x")) {
		t.Error("引擎的 NOT_FOUND 不应命中 store 判定")
	}
	if IsStoreNotFound(nil) {
		t.Error("nil 不应命中")
	}
}
