package snapshot

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/similarity"
)

// Builder 从外部协作方拉取评分与目录，构建一代完整快照。
// 相似度矩阵等 O(users×items) 的重计算全部发生在这里，不在请求路径上。
type Builder struct {
	Interactions core.InteractionStore
	Catalog      core.CatalogStore

	// Metric 是用户相似度度量：cosine（默认）/ pearson
	Metric similarity.Metric

	// MinOverlap 是两个用户至少需要的共同评分书目数，低于此阈值相似度记 0
	MinOverlap int

	// HalfLife 是趋势分数的衰减半衰期
	HalfLife time.Duration

	// Concurrency 是相似度矩阵构建的并发行数（<=0 取默认 4）
	Concurrency int

	// Now 供测试注入时钟；为空用 time.Now
	Now func() time.Time
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

// Build 构建一代快照。目录为空返回 EMPTY_CORPUS；评分为空是合法的
// （CF 会在查询时走冷启动回退），趋势榜退化为纯目录排序。
func (b *Builder) Build(ctx context.Context) (*Snapshot, error) {
	start := b.now()

	books, err := b.Catalog.Books(ctx)
	if err != nil {
		return nil, fmt.Errorf("pull catalog: %w", err)
	}
	if len(books) == 0 {
		return nil, core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeEmptyCorpus, "snapshot: catalog is empty")
	}

	ratings, err := b.Interactions.RatingMatrix(ctx)
	if err != nil {
		return nil, fmt.Errorf("pull ratings: %w", err)
	}

	snap := &Snapshot{
		BuiltAt:        start,
		Version:        start.UnixNano(),
		FeatureVersion: similarity.FeatureVersion,
		books:          books,
	}

	// 书目索引按 ID 排序分配，保证同样输入产出同样的快照
	snap.items = make([]string, 0, len(books))
	for id := range books {
		snap.items = append(snap.items, id)
	}
	sort.Strings(snap.items)
	snap.itemIdx = make(map[string]int, len(snap.items))
	for i, id := range snap.items {
		snap.itemIdx[id] = i
	}

	b.buildRatingMatrix(snap, ratings)

	if err := b.buildUserSim(ctx, snap); err != nil {
		return nil, err
	}

	b.buildContentVectors(snap)
	b.buildTrending(snap)

	snap.Stats.Users = len(snap.users)
	snap.Stats.Items = len(snap.items)
	snap.Stats.BuildDuration = b.now().Sub(start)
	return snap, nil
}

// buildRatingMatrix 去重评分（同 (user,item) 取时间戳最新的一条）、
// 丢弃引用目录外书目的评分，并产出稠密索引与每用户稀疏向量。
func (b *Builder) buildRatingMatrix(snap *Snapshot, ratings []core.Rating) {
	type key struct{ user, item string }
	latest := make(map[key]core.Rating, len(ratings))

	for _, r := range ratings {
		if _, ok := snap.itemIdx[r.ItemID]; !ok {
			snap.Stats.DroppedRatings++
			continue
		}
		k := key{user: r.UserID, item: r.ItemID}
		if prev, ok := latest[k]; ok {
			snap.Stats.DuplicateWrites++
			if r.Timestamp.Before(prev.Timestamp) {
				continue
			}
		}
		latest[k] = r
	}
	snap.Stats.Ratings = len(latest)

	userSet := make(map[string]struct{})
	for k := range latest {
		userSet[k.user] = struct{}{}
	}
	snap.users = make([]string, 0, len(userSet))
	for id := range userSet {
		snap.users = append(snap.users, id)
	}
	sort.Strings(snap.users)
	snap.userIdx = make(map[string]int, len(snap.users))
	for i, id := range snap.users {
		snap.userIdx[id] = i
	}

	snap.userRatings = make([]similarity.Vector, len(snap.users))
	for i := range snap.userRatings {
		snap.userRatings[i] = make(similarity.Vector)
	}
	snap.lastRated = make([]time.Time, len(snap.items))

	for k, r := range latest {
		u := snap.userIdx[k.user]
		i := snap.itemIdx[k.item]
		snap.userRatings[u][i] = r.Score
		if r.Timestamp.After(snap.lastRated[i]) {
			snap.lastRated[i] = r.Timestamp
		}
	}
}

// buildUserSim 构建用户-用户相似度矩阵。按行切分并发计算，行内只算 j>i
// 的上三角，对角线按"非零范数即 1"的约定填充。
func (b *Builder) buildUserSim(ctx context.Context, snap *Snapshot) error {
	n := len(snap.users)
	m := similarity.NewMatrix(n)
	snap.userSim = m
	if n == 0 {
		return nil
	}

	metric := b.Metric
	if metric == "" {
		metric = similarity.MetricCosine
	}
	minOverlap := b.MinOverlap
	if minOverlap <= 0 {
		minOverlap = 2
	}
	workers := b.Concurrency
	if workers <= 0 {
		workers = 4
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i := 0; i < n; i++ {
		i := i
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			vi := snap.userRatings[i]
			if hasNonZero(vi) {
				m.Set(i, i, 1)
			}
			for j := i + 1; j < n; j++ {
				sim := similarity.Compute(metric, vi, snap.userRatings[j], minOverlap)
				if sim != 0 {
					m.Set(i, j, sim)
				}
			}
			return nil
		})
	}
	return eg.Wait()
}

func hasNonZero(v similarity.Vector) bool {
	for _, x := range v {
		if x != 0 {
			return true
		}
	}
	return false
}

// buildContentVectors 把书目的标题/作者/标签分词后做 TF-IDF 单位向量。
// 词表与逆文档频率只来自本快照的语料，随快照整体换代。
func (b *Builder) buildContentVectors(snap *Snapshot) {
	vectorizer := similarity.NewVectorizer()
	docs := make([][]string, len(snap.items))
	for i, id := range snap.items {
		book := snap.books[id]
		fields := make([]string, 0, 2+len(book.Authors)+len(book.Tags))
		fields = append(fields, book.Title)
		fields = append(fields, book.Authors...)
		fields = append(fields, book.Tags...)
		docs[i] = similarity.Tokenize(fields...)
		vectorizer.Fit(docs[i])
	}

	snap.itemVecs = make([]similarity.Vector, len(snap.items))
	for i, tokens := range docs {
		snap.itemVecs[i] = vectorizer.TransformUnit(tokens)
	}
}

// buildTrending 预计算趋势榜：avg_rating · log(1+review_count) · 衰减权重。
// 从未被评分的书目衰减权重记 0，趋势分数为 0，靠平分规则排在有活跃度的
// 书目之后（review_count 降序、ID 升序）。
func (b *Builder) buildTrending(snap *Snapshot) {
	halfLife := b.HalfLife
	if halfLife <= 0 {
		halfLife = 30 * 24 * time.Hour
	}
	now := snap.BuiltAt

	entries := make([]TrendingEntry, 0, len(snap.items))
	for i, id := range snap.items {
		book := snap.books[id]
		var weight float64
		if last := snap.lastRated[i]; !last.IsZero() {
			age := now.Sub(last)
			if age < 0 {
				age = 0
			}
			weight = math.Exp(-math.Ln2 * age.Seconds() / halfLife.Seconds())
		}
		score := book.AvgRating * math.Log1p(float64(book.ReviewCount)) * weight
		entries = append(entries, TrendingEntry{ItemID: id, Score: score})
	}

	sort.Slice(entries, func(a, b int) bool {
		if entries[a].Score != entries[b].Score {
			return entries[a].Score > entries[b].Score
		}
		ra := snap.books[entries[a].ItemID].ReviewCount
		rb := snap.books[entries[b].ItemID].ReviewCount
		if ra != rb {
			return ra > rb
		}
		return entries[a].ItemID < entries[b].ItemID
	})
	snap.trending = entries
}
