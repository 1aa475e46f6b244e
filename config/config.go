// Package config 提供引擎与刷新任务的配置装载（YAML/JSON）。
// 所有字段都有与规约一致的默认值，零值配置即可启动。
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/engine"
	"github.com/rushteam/bookrec/filter"
	"github.com/rushteam/bookrec/similarity"
	"github.com/rushteam/bookrec/snapshot"
)

// Config 是顶层配置结构（支持 YAML/JSON）。
type Config struct {
	Engine struct {
		// K 是 CF/CBF/Hybrid 默认结果上限（默认 10）
		K int `yaml:"k" json:"k"`
		// TrendingK 是趋势榜默认结果上限（默认 20）
		TrendingK int `yaml:"trending_k" json:"trending_k"`
		// Neighbors 是 CF 的 TopN 相似用户数（默认 20）
		Neighbors int `yaml:"neighbors" json:"neighbors"`
		// Alpha 是 Hybrid 默认 CF 权重（默认 0.5）
		Alpha float64 `yaml:"alpha" json:"alpha"`
	} `yaml:"engine" json:"engine"`

	Similarity struct {
		// Metric：cosine（默认）/ pearson
		Metric string `yaml:"metric" json:"metric"`
		// MinOverlap 是最小共同评分书目数（默认 2）
		MinOverlap int `yaml:"min_overlap" json:"min_overlap"`
	} `yaml:"similarity" json:"similarity"`

	Trending struct {
		// HalfLifeDays 是趋势衰减半衰期，天（默认 30）
		HalfLifeDays float64 `yaml:"half_life_days" json:"half_life_days"`
		// PublishKey 是趋势榜发布的 zset key（默认 trending:books）
		PublishKey string `yaml:"publish_key" json:"publish_key"`
		// PublishLimit 限制发布条数（默认 100）
		PublishLimit int `yaml:"publish_limit" json:"publish_limit"`
	} `yaml:"trending" json:"trending"`

	Refresh struct {
		// IntervalSeconds 是周期刷新间隔，秒；0 表示只响应显式触发
		IntervalSeconds int `yaml:"interval_seconds" json:"interval_seconds"`
		// Concurrency 是相似度构建并发度（默认 4）
		Concurrency int `yaml:"concurrency" json:"concurrency"`
	} `yaml:"refresh" json:"refresh"`

	Filters struct {
		// Blacklist 是静态黑名单书目 ID
		Blacklist []string `yaml:"blacklist" json:"blacklist"`
		// Rules 是 CEL 保留条件表达式，逐条编译
		Rules []string `yaml:"rules" json:"rules"`
		// DropRated 为 true 时对所有策略剔除用户已评分书目
		DropRated bool `yaml:"drop_rated" json:"drop_rated"`
	} `yaml:"filters" json:"filters"`
}

// LoadFromYAML 从 YAML 文件加载配置并校验。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromJSON 从 JSON 文件加载配置并校验。
func LoadFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验取值范围；非法配置应在装配期失败而不是请求期。
func (c *Config) Validate() error {
	if c.Engine.Alpha < 0 || c.Engine.Alpha > 1 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
			fmt.Sprintf("config: alpha %v out of [0,1]", c.Engine.Alpha))
	}
	switch c.Similarity.Metric {
	case "", string(similarity.MetricCosine), string(similarity.MetricPearson):
	default:
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
			"config: unknown similarity metric "+c.Similarity.Metric)
	}
	for _, field := range []struct {
		name  string
		value int
	}{
		{"engine.k", c.Engine.K},
		{"engine.trending_k", c.Engine.TrendingK},
		{"engine.neighbors", c.Engine.Neighbors},
		{"similarity.min_overlap", c.Similarity.MinOverlap},
		{"refresh.interval_seconds", c.Refresh.IntervalSeconds},
	} {
		if field.value < 0 {
			return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
				fmt.Sprintf("config: %s must not be negative", field.name))
		}
	}
	return nil
}

// BuildFilters 按配置装配过滤器（黑名单 → 已评分 → 规则）。
// 规则表达式在此编译，非法表达式直接报错。
func (c *Config) BuildFilters() ([]filter.Filter, error) {
	var filters []filter.Filter
	if len(c.Filters.Blacklist) > 0 {
		filters = append(filters, &filter.Blacklist{ItemIDs: c.Filters.Blacklist})
	}
	if c.Filters.DropRated {
		filters = append(filters, &filter.Rated{})
	}
	for _, expr := range c.Filters.Rules {
		rule, err := filter.NewRule(expr)
		if err != nil {
			return nil, err
		}
		filters = append(filters, rule)
	}
	return filters, nil
}

// NewEngine 按配置装配引擎。
func (c *Config) NewEngine(holder *snapshot.Holder) (*engine.Engine, error) {
	filters, err := c.BuildFilters()
	if err != nil {
		return nil, err
	}
	return &engine.Engine{
		Snapshots:    holder,
		Neighbors:    c.Engine.Neighbors,
		DefaultK:     c.Engine.K,
		TrendingK:    c.Engine.TrendingK,
		DefaultAlpha: c.Engine.Alpha,
		Filters:      filters,
	}, nil
}

// NewBuilder 按配置装配快照构建器。
func (c *Config) NewBuilder(interactions core.InteractionStore, catalog core.CatalogStore) *snapshot.Builder {
	return &snapshot.Builder{
		Interactions: interactions,
		Catalog:      catalog,
		Metric:       similarity.Metric(c.Similarity.Metric),
		MinOverlap:   c.Similarity.MinOverlap,
		HalfLife:     time.Duration(c.Trending.HalfLifeDays * 24 * float64(time.Hour)),
		Concurrency:  c.Refresh.Concurrency,
	}
}

// NewRefresher 按配置装配刷新任务；publish 可为 nil（不发布趋势榜）。
func (c *Config) NewRefresher(b *snapshot.Builder, h *snapshot.Holder, publish core.KeyValueStore) *snapshot.Refresher {
	return &snapshot.Refresher{
		Builder:      b,
		Holder:       h,
		Interval:     time.Duration(c.Refresh.IntervalSeconds) * time.Second,
		Publish:      publish,
		PublishKey:   c.Trending.PublishKey,
		PublishLimit: c.Trending.PublishLimit,
	}
}
