package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/bookrec/core"
)

// InteractionSource 把通用 core.Store 适配成快照构建的评分数据源。
// 全量评分以 JSON 数组存在单个 key 下（{prefix}:ratings），
// 由离线任务整体写入——快照是整体拉取，不做增量读。
type InteractionSource struct {
	store  core.Store
	prefix string
}

// NewInteractionSource 创建评分数据源适配器；prefix 为空取 "bookrec"。
func NewInteractionSource(s core.Store, prefix string) *InteractionSource {
	if prefix == "" {
		prefix = "bookrec"
	}
	return &InteractionSource{store: s, prefix: prefix}
}

func (a *InteractionSource) ratingsKey() string { return a.prefix + ":ratings" }

// RatingMatrix 实现 core.InteractionStore。key 不存在等价于零评分。
func (a *InteractionSource) RatingMatrix(ctx context.Context) ([]core.Rating, error) {
	data, err := a.store.Get(ctx, a.ratingsKey())
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var ratings []core.Rating
	if err := json.Unmarshal(data, &ratings); err != nil {
		return nil, fmt.Errorf("decode %s: %w", a.ratingsKey(), err)
	}
	return ratings, nil
}

// SeedRatings 整体写入全量评分（离线任务/测试用）。
func (a *InteractionSource) SeedRatings(ctx context.Context, ratings []core.Rating) error {
	data, err := json.Marshal(ratings)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, a.ratingsKey(), data)
}

var _ core.InteractionStore = (*InteractionSource)(nil)

// CatalogSource 把通用 core.Store 适配成快照构建的书目数据源。
// 全量目录以 JSON 映射存在 {prefix}:books 下。
type CatalogSource struct {
	store  core.Store
	prefix string
}

// NewCatalogSource 创建书目数据源适配器；prefix 为空取 "bookrec"。
func NewCatalogSource(s core.Store, prefix string) *CatalogSource {
	if prefix == "" {
		prefix = "bookrec"
	}
	return &CatalogSource{store: s, prefix: prefix}
}

func (a *CatalogSource) booksKey() string { return a.prefix + ":books" }

// Books 实现 core.CatalogStore。key 不存在等价于空目录（构建方会报 EMPTY_CORPUS）。
func (a *CatalogSource) Books(ctx context.Context) (map[string]*core.Book, error) {
	data, err := a.store.Get(ctx, a.booksKey())
	if err != nil {
		if core.IsStoreNotFound(err) {
			return map[string]*core.Book{}, nil
		}
		return nil, err
	}
	var books map[string]*core.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("decode %s: %w", a.booksKey(), err)
	}
	return books, nil
}

// SeedBooks 整体写入全量目录（离线任务/测试用）。
func (a *CatalogSource) SeedBooks(ctx context.Context, books map[string]*core.Book) error {
	data, err := json.Marshal(books)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, a.booksKey(), data)
}

var _ core.CatalogStore = (*CatalogSource)(nil)

// StaticInteractionSource 是内存里的评分数据源，测试与示例用。
type StaticInteractionSource struct {
	Ratings []core.Rating
}

func (s *StaticInteractionSource) RatingMatrix(ctx context.Context) ([]core.Rating, error) {
	return s.Ratings, nil
}

var _ core.InteractionStore = (*StaticInteractionSource)(nil)

// StaticCatalogSource 是内存里的书目数据源，测试与示例用。
type StaticCatalogSource struct {
	Catalog map[string]*core.Book
}

func (s *StaticCatalogSource) Books(ctx context.Context) (map[string]*core.Book, error) {
	return s.Catalog, nil
}

var _ core.CatalogStore = (*StaticCatalogSource)(nil)
