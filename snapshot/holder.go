package snapshot

import (
	"sync/atomic"

	"github.com/rushteam/bookrec/core"
)

// Holder 持有当前服役的快照，通过单一原子指针换代。
// 读方每次请求捕获一份引用；换代期间旧引用继续有效，
// 不存在“一半旧一半新”的可见状态。
type Holder struct {
	current atomic.Pointer[Snapshot]
}

func NewHolder() *Holder { return &Holder{} }

// Current 返回当前快照；首个快照落地前返回 EMPTY_CORPUS。
func (h *Holder) Current() (*Snapshot, error) {
	s := h.current.Load()
	if s == nil {
		return nil, core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeEmptyCorpus, "snapshot: no snapshot loaded")
	}
	return s, nil
}

// Swap 原子换入新快照。
func (h *Holder) Swap(s *Snapshot) {
	h.current.Store(s)
}

// Version 返回当前快照版本；无快照时返回 0。
func (h *Holder) Version() int64 {
	s := h.current.Load()
	if s == nil {
		return 0
	}
	return s.Version
}
