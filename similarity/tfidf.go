package similarity

import (
	"math"
	"strings"
	"unicode"
)

// FeatureVersion 标识内容特征的口径，随快照一起对外暴露。
// 口径变更（分词规则、参与字段、加权方式）必须升版本号。
const FeatureVersion = "tfidf-v1:title+authors+tags"

// Tokenize 把若干文本字段切成小写词元：按非字母数字切分，丢弃空串。
func Tokenize(fields ...string) []string {
	var tokens []string
	for _, f := range fields {
		start := -1
		for i, r := range f {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				tokens = append(tokens, strings.ToLower(f[start:i]))
				start = -1
			}
		}
		if start >= 0 {
			tokens = append(tokens, strings.ToLower(f[start:]))
		}
	}
	return tokens
}

// Vectorizer 是 TF-IDF 向量化器：先 Fit 全量语料建词表与文档频率，
// 再 TransformUnit 产出单位化稀疏向量。维度索引按词元首次出现的顺序分配，
// 与快照同生命周期，不跨快照复用。
//
// 加权口径（与常见实现对齐）：
//   - tf  = 词元在文档内的出现次数
//   - idf = ln((1+N)/(1+df)) + 1（平滑，未见词元不参与）
//   - 最终向量做 L2 单位化，点积即余弦相似度
type Vectorizer struct {
	terms map[string]int // 词元 → 维度索引
	df    []int          // 维度索引 → 文档频率
	docs  int
}

func NewVectorizer() *Vectorizer {
	return &Vectorizer{terms: make(map[string]int)}
}

// Fit 登记一篇文档的词元，更新词表与文档频率。
func (v *Vectorizer) Fit(tokens []string) {
	v.docs++
	seen := make(map[int]struct{}, len(tokens))
	for _, tok := range tokens {
		idx, ok := v.terms[tok]
		if !ok {
			idx = len(v.df)
			v.terms[tok] = idx
			v.df = append(v.df, 0)
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		v.df[idx]++
	}
}

// Terms 返回词表大小。
func (v *Vectorizer) Terms() int { return len(v.terms) }

// TransformUnit 把一篇文档转成 L2 单位化的 TF-IDF 稀疏向量。
// 词表外的词元被忽略；空文档返回空向量（零范数实体，相似度按 0 处理）。
func (v *Vectorizer) TransformUnit(tokens []string) Vector {
	if len(tokens) == 0 {
		return Vector{}
	}

	tf := make(map[int]float64, len(tokens))
	for _, tok := range tokens {
		if idx, ok := v.terms[tok]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return Vector{}
	}

	vec := make(Vector, len(tf))
	var norm float64
	for idx, count := range tf {
		idf := math.Log(float64(1+v.docs)/float64(1+v.df[idx])) + 1
		w := count * idf
		vec[idx] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return Vector{}
	}
	for idx := range vec {
		vec[idx] /= norm
	}
	return vec
}
