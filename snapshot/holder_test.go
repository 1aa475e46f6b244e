package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/store"
)

func TestHolderEmpty(t *testing.T) {
	h := NewHolder()
	if _, err := h.Current(); !core.IsEmptyCorpus(err) {
		t.Errorf("无快照时应返回 EMPTY_CORPUS, 实际 %v", err)
	}
	if h.Version() != 0 {
		t.Errorf("无快照时 Version = %d, 期望 0", h.Version())
	}
}

func TestHolderSwap(t *testing.T) {
	h := NewHolder()
	old := &Snapshot{Version: 1}
	h.Swap(old)

	got, err := h.Current()
	if err != nil {
		t.Fatalf("Current() 失败: %v", err)
	}
	if got != old {
		t.Error("Current() 应返回换入的快照")
	}

	// 换代后旧引用继续有效
	h.Swap(&Snapshot{Version: 2})
	if old.Version != 1 {
		t.Error("旧快照不应被换代修改")
	}
	if h.Version() != 2 {
		t.Errorf("Version = %d, 期望 2", h.Version())
	}
}

func TestRefresherKeepsOldSnapshotOnFailure(t *testing.T) {
	books := map[string]*core.Book{"b1": {ID: "b1", AvgRating: 4, ReviewCount: 1}}
	catalog := &store.StaticCatalogSource{Catalog: books}

	h := NewHolder()
	r := &Refresher{
		Builder: &Builder{
			Interactions: &store.StaticInteractionSource{},
			Catalog:      catalog,
			Now:          func() time.Time { return testNow },
		},
		Holder: h,
	}

	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("首次刷新失败: %v", err)
	}
	v1 := h.Version()

	// 目录被清空后刷新失败，旧快照继续服役
	catalog.Catalog = map[string]*core.Book{}
	if err := r.Refresh(context.Background()); err == nil {
		t.Fatal("空目录的刷新应返回错误")
	}
	if h.Version() != v1 {
		t.Errorf("刷新失败后 Version = %d, 期望保留 %d", h.Version(), v1)
	}
}

func TestRefresherPublishTrending(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()

	books := map[string]*core.Book{
		"hot":  {ID: "hot", AvgRating: 5, ReviewCount: 100},
		"warm": {ID: "warm", AvgRating: 4, ReviewCount: 50},
		"cold": {ID: "cold", AvgRating: 3, ReviewCount: 10},
	}
	ratings := []core.Rating{
		{UserID: "u1", ItemID: "hot", Score: 5, Timestamp: testNow},
		{UserID: "u1", ItemID: "warm", Score: 4, Timestamp: testNow},
		{UserID: "u1", ItemID: "cold", Score: 3, Timestamp: testNow},
	}

	r := &Refresher{
		Builder: &Builder{
			Interactions: &store.StaticInteractionSource{Ratings: ratings},
			Catalog:      &store.StaticCatalogSource{Catalog: books},
			Now:          func() time.Time { return testNow },
		},
		Holder:       NewHolder(),
		Publish:      kv,
		PublishLimit: 2,
	}
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() 失败: %v", err)
	}

	members, err := kv.ZRange(context.Background(), DefaultPublishKey, 0, 9)
	if err != nil {
		t.Fatalf("ZRange 失败: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("发布条数 = %d, 期望受 PublishLimit 限制为 2", len(members))
	}
	if members[0] != "hot" {
		t.Errorf("榜首 = %s, 期望 hot", members[0])
	}
}
