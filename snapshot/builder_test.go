package snapshot

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/store"
)

var testNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func testBuilder(books map[string]*core.Book, ratings []core.Rating) *Builder {
	return &Builder{
		Interactions: &store.StaticInteractionSource{Ratings: ratings},
		Catalog:      &store.StaticCatalogSource{Catalog: books},
		Now:          func() time.Time { return testNow },
	}
}

func TestBuildEmptyCatalog(t *testing.T) {
	b := testBuilder(map[string]*core.Book{}, nil)
	_, err := b.Build(context.Background())
	if !core.IsEmptyCorpus(err) {
		t.Fatalf("空目录应返回 EMPTY_CORPUS, 实际 %v", err)
	}
}

func TestBuildEmptyRatings(t *testing.T) {
	// 零评分是合法输入：CF 在查询时走冷启动回退，趋势榜退化为目录排序
	b := testBuilder(map[string]*core.Book{
		"b1": {ID: "b1", Title: "One", AvgRating: 4, ReviewCount: 10},
	}, nil)
	snap, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() 失败: %v", err)
	}
	if snap.UserCount() != 0 || snap.ItemCount() != 1 {
		t.Errorf("users=%d items=%d, 期望 0/1", snap.UserCount(), snap.ItemCount())
	}
	if len(snap.Trending()) != 1 {
		t.Errorf("趋势榜应覆盖全目录, 实际 %d 项", len(snap.Trending()))
	}
}

func TestBuildDedupAndDrop(t *testing.T) {
	books := map[string]*core.Book{
		"b1": {ID: "b1", Title: "One"},
		"b2": {ID: "b2", Title: "Two"},
	}
	ratings := []core.Rating{
		{UserID: "u1", ItemID: "b1", Score: 2, Timestamp: testNow.Add(-2 * time.Hour)},
		{UserID: "u1", ItemID: "b1", Score: 5, Timestamp: testNow.Add(-1 * time.Hour)}, // 同 (user,item)，取最新
		{UserID: "u1", ItemID: "ghost", Score: 4, Timestamp: testNow},                  // 目录外，丢弃
		{UserID: "u2", ItemID: "b2", Score: 3, Timestamp: testNow},
	}

	snap, err := testBuilder(books, ratings).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() 失败: %v", err)
	}

	if snap.Stats.Ratings != 2 {
		t.Errorf("去重后评分数 = %d, 期望 2", snap.Stats.Ratings)
	}
	if snap.Stats.DroppedRatings != 1 {
		t.Errorf("DroppedRatings = %d, 期望 1", snap.Stats.DroppedRatings)
	}
	if snap.Stats.DuplicateWrites != 1 {
		t.Errorf("DuplicateWrites = %d, 期望 1", snap.Stats.DuplicateWrites)
	}

	u1, ok := snap.UserIndex("u1")
	if !ok {
		t.Fatal("u1 应在快照内")
	}
	b1, _ := snap.ItemIndex("b1")
	if got := snap.UserRatings(u1)[b1]; got != 5 {
		t.Errorf("去重后 u1→b1 评分 = %v, 期望最新的 5", got)
	}
}

func TestBuildDedupKeepsLatestRegardlessOfOrder(t *testing.T) {
	books := map[string]*core.Book{"b1": {ID: "b1", Title: "One"}}
	// 新评分先出现，旧评分后出现：仍应保留新的
	ratings := []core.Rating{
		{UserID: "u1", ItemID: "b1", Score: 5, Timestamp: testNow.Add(-1 * time.Hour)},
		{UserID: "u1", ItemID: "b1", Score: 2, Timestamp: testNow.Add(-2 * time.Hour)},
	}
	snap, err := testBuilder(books, ratings).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() 失败: %v", err)
	}
	u1, _ := snap.UserIndex("u1")
	b1, _ := snap.ItemIndex("b1")
	if got := snap.UserRatings(u1)[b1]; got != 5 {
		t.Errorf("评分 = %v, 期望按时间戳取 5", got)
	}
}

func TestBuildDeterministicIndexes(t *testing.T) {
	books := map[string]*core.Book{
		"b3": {ID: "b3"}, "b1": {ID: "b1"}, "b2": {ID: "b2"},
	}
	ratings := []core.Rating{
		{UserID: "z", ItemID: "b1", Score: 1, Timestamp: testNow},
		{UserID: "a", ItemID: "b2", Score: 2, Timestamp: testNow},
	}
	snap, err := testBuilder(books, ratings).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() 失败: %v", err)
	}

	// 索引按 ID 字典序分配
	for i, want := range []string{"b1", "b2", "b3"} {
		if got := snap.ItemID(i); got != want {
			t.Errorf("ItemID(%d) = %q, 期望 %q", i, got, want)
		}
	}
	if idx, _ := snap.UserIndex("a"); idx != 0 {
		t.Errorf("用户 a 的索引 = %d, 期望 0", idx)
	}
	if idx, _ := snap.UserIndex("z"); idx != 1 {
		t.Errorf("用户 z 的索引 = %d, 期望 1", idx)
	}
}

func TestBuildUserSim(t *testing.T) {
	books := map[string]*core.Book{
		"b1": {ID: "b1"}, "b2": {ID: "b2"}, "b3": {ID: "b3"},
	}
	// u1 与 u2 在 b1、b2 上评分完全一致（相似度 1）；
	// u1 与 u3 只有 b1 一个共同书目，低于重叠阈值 2，相似度记 0
	ratings := []core.Rating{
		{UserID: "u1", ItemID: "b1", Score: 5, Timestamp: testNow},
		{UserID: "u1", ItemID: "b2", Score: 3, Timestamp: testNow},
		{UserID: "u2", ItemID: "b1", Score: 5, Timestamp: testNow},
		{UserID: "u2", ItemID: "b2", Score: 3, Timestamp: testNow},
		{UserID: "u3", ItemID: "b1", Score: 4, Timestamp: testNow},
		{UserID: "u3", ItemID: "b3", Score: 5, Timestamp: testNow},
	}
	snap, err := testBuilder(books, ratings).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() 失败: %v", err)
	}

	u1, _ := snap.UserIndex("u1")
	u2, _ := snap.UserIndex("u2")
	u3, _ := snap.UserIndex("u3")
	m := snap.UserSim()

	if got := m.Get(u1, u2); math.Abs(got-1) > 1e-9 {
		t.Errorf("sim(u1,u2) = %v, 期望 1", got)
	}
	if got := m.Get(u1, u3); got != 0 {
		t.Errorf("sim(u1,u3) = %v, 重叠不足应为 0", got)
	}
	if got := m.Get(u1, u1); got != 1 {
		t.Errorf("对角线 = %v, 期望 1", got)
	}
}

func TestBuildContentVectors(t *testing.T) {
	books := map[string]*core.Book{
		"b1": {ID: "b1", Title: "Deep Learning", Authors: []string{"Ian Goodfellow"}, Tags: []string{"ml"}},
		"b2": {ID: "b2", Title: "Deep Learning", Authors: []string{"Ian Goodfellow"}, Tags: []string{"ml"}},
		"b3": {ID: "b3"}, // 无任何文本特征
	}
	snap, err := testBuilder(books, nil).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() 失败: %v", err)
	}

	b1, _ := snap.ItemIndex("b1")
	b2, _ := snap.ItemIndex("b2")
	b3, _ := snap.ItemIndex("b3")

	var dot float64
	for dim, v := range snap.ItemVector(b1) {
		dot += v * snap.ItemVector(b2)[dim]
	}
	if math.Abs(dot-1) > 1e-9 {
		t.Errorf("相同元数据的书目内容相似度 = %v, 期望 1", dot)
	}
	if len(snap.ItemVector(b3)) != 0 {
		t.Errorf("无文本特征的书目应得到空向量")
	}
	if snap.FeatureVersion == "" {
		t.Error("快照应携带内容特征口径")
	}
}

func TestBuildTrendingRecency(t *testing.T) {
	books := map[string]*core.Book{
		// A：评分高、评论多，但最近无人评分
		"A": {ID: "A", AvgRating: 4.8, ReviewCount: 1000},
		// B：稍逊，但刚被评分
		"B": {ID: "B", AvgRating: 4.5, ReviewCount: 800},
	}
	ratings := []core.Rating{
		{UserID: "u1", ItemID: "A", Score: 5, Timestamp: testNow.AddDate(0, 0, -180)},
		{UserID: "u2", ItemID: "B", Score: 5, Timestamp: testNow.AddDate(0, 0, -1)},
	}
	snap, err := testBuilder(books, ratings).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() 失败: %v", err)
	}

	trending := snap.Trending()
	if trending[0].ItemID != "B" {
		t.Errorf("近期活跃的 B 应排在 A 前, 实际榜首 %s", trending[0].ItemID)
	}
	if trending[0].Score <= trending[1].Score {
		t.Errorf("榜单应按分数降序: %v", trending)
	}
}

func TestBuildTrendingNeverRated(t *testing.T) {
	books := map[string]*core.Book{
		"rated": {ID: "rated", AvgRating: 3.0, ReviewCount: 5},
		// 从未被评分：衰减权重 0，分数 0
		"cold2": {ID: "cold2", AvgRating: 5.0, ReviewCount: 9999},
		"cold1": {ID: "cold1", AvgRating: 5.0, ReviewCount: 9999},
	}
	ratings := []core.Rating{
		{UserID: "u1", ItemID: "rated", Score: 3, Timestamp: testNow.Add(-time.Hour)},
	}
	snap, err := testBuilder(books, ratings).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() 失败: %v", err)
	}

	trending := snap.Trending()
	if trending[0].ItemID != "rated" {
		t.Errorf("有活跃度的书目应排在从未被评分的之前, 实际 %v", trending)
	}
	// 同分（均为 0）、同 review_count：按 ID 升序
	if trending[1].ItemID != "cold1" || trending[2].ItemID != "cold2" {
		t.Errorf("零分书目应按 ID 升序平分, 实际 %v", trending)
	}
	if trending[1].Score != 0 {
		t.Errorf("从未被评分的书目分数 = %v, 期望 0", trending[1].Score)
	}
}

func TestBuildTrendingZeroReviews(t *testing.T) {
	// review_count=0 时 log1p(0)=0，即便刚被评分权重也是满的，分数仍为 0
	books := map[string]*core.Book{
		"b1": {ID: "b1", AvgRating: 5.0, ReviewCount: 0},
	}
	ratings := []core.Rating{
		{UserID: "u1", ItemID: "b1", Score: 5, Timestamp: testNow},
	}
	snap, err := testBuilder(books, ratings).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() 失败: %v", err)
	}
	if got := snap.Trending()[0].Score; got != 0 {
		t.Errorf("零评论书目的趋势分数 = %v, 期望 0", got)
	}
}

func TestHasRated(t *testing.T) {
	books := map[string]*core.Book{"b1": {ID: "b1"}, "b2": {ID: "b2"}}
	ratings := []core.Rating{
		{UserID: "u1", ItemID: "b1", Score: 4, Timestamp: testNow},
	}
	snap, err := testBuilder(books, ratings).Build(context.Background())
	if err != nil {
		t.Fatalf("Build() 失败: %v", err)
	}

	u1, _ := snap.UserIndex("u1")
	b1, _ := snap.ItemIndex("b1")
	b2, _ := snap.ItemIndex("b2")
	if !snap.HasRated(u1, b1) {
		t.Error("HasRated(u1,b1) 应为 true")
	}
	if snap.HasRated(u1, b2) {
		t.Error("HasRated(u1,b2) 应为 false")
	}
	if snap.HasRated(99, b1) {
		t.Error("越界用户索引应为 false")
	}
}
