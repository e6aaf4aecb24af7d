package feature

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/bookwise/bookrec/core"
)

// wordRegex 在包初始化时编译一次，分词用
var wordRegex = regexp.MustCompile(`\w+`)

// TFIDFVectorizer 是词频-逆文档频率向量化器。
//
// 核心思想：
//   - TF：词项在单篇文档中出现越频繁，权重越高
//   - IDF：词项在语料中越罕见，权重越高
//   - 两者相乘后对每行做 L2 归一化，使余弦相似度只反映方向差异
//
// 词表裁剪规则（在 Fit 阶段一次性确定）：
//   - unigram + bigram
//   - 英文停用词直接丢弃
//   - 文档频率 < MinDocFreq 或 > MaxDocRatio×N 的词项剔除
//   - 超出 MaxFeatures 时按语料总词频取 TopN（同频按字典序）
//
// 词表与 IDF 在一次目录加载中只 Fit 一次；重新 Fit 会改变特征空间，
// 之前算出的相似度矩阵随之失效。
type TFIDFVectorizer struct {
	MaxFeatures int
	MinDocFreq  int
	MaxDocRatio float64

	terms []string       // 列号 -> 词项（字典序）
	vocab map[string]int // 词项 -> 列号
	idf   []float64
}

// NewTFIDFVectorizer 根据特征配置创建向量化器。
func NewTFIDFVectorizer(cfg core.FeatureConfig) *TFIDFVectorizer {
	return &TFIDFVectorizer{
		MaxFeatures: cfg.MaxFeatures,
		MinDocFreq:  cfg.MinDocFreq,
		MaxDocRatio: cfg.MaxDocRatio,
	}
}

// FitTransform 在语料上拟合词表与 IDF，并返回每篇文档的 TF-IDF 向量。
// 对固定语料与固定配置，输出逐位确定。
func (v *TFIDFVectorizer) FitTransform(docs []string) [][]float64 {
	n := len(docs)

	// 1. 分词 + n-gram，统计每篇文档的词频与全局文档频率
	docTerms := make([]map[string]float64, n)
	docFreq := make(map[string]int)
	totalFreq := make(map[string]float64)

	for i, doc := range docs {
		counts := make(map[string]float64)
		for _, term := range v.analyze(doc) {
			counts[term]++
		}
		docTerms[i] = counts
		for term, c := range counts {
			docFreq[term]++
			totalFreq[term] += c
		}
	}

	// 2. 按文档频率窗口裁剪：太罕见或太普遍的词项都不保留
	maxDF := v.MaxDocRatio * float64(n)
	kept := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df < v.MinDocFreq {
			continue
		}
		if float64(df) > maxDF {
			continue
		}
		kept = append(kept, term)
	}

	// 3. 超出词表上限时按语料总词频取 TopN，同频按字典序保证确定性
	if v.MaxFeatures > 0 && len(kept) > v.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if totalFreq[kept[i]] != totalFreq[kept[j]] {
				return totalFreq[kept[i]] > totalFreq[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:v.MaxFeatures]
	}
	sort.Strings(kept)

	v.terms = kept
	v.vocab = make(map[string]int, len(kept))
	for idx, term := range kept {
		v.vocab[term] = idx
	}

	// 4. 平滑 IDF：log((1+N)/(1+df)) + 1，避免除零且保证非负
	v.idf = make([]float64, len(kept))
	for idx, term := range kept {
		v.idf[idx] = math.Log(float64(1+n)/float64(1+docFreq[term])) + 1
	}

	// 5. TF × IDF，按行 L2 归一化
	rows := make([][]float64, n)
	for i, counts := range docTerms {
		rows[i] = v.vectorize(counts)
	}
	return rows
}

// Transform 用已拟合的词表向量化新文档。
// 前置条件：必须先 FitTransform；未拟合时返回 STALE_STATE 错误。
func (v *TFIDFVectorizer) Transform(docs []string) ([][]float64, error) {
	if v.vocab == nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeStaleState,
			"tfidf vectorizer not fitted")
	}
	rows := make([][]float64, len(docs))
	for i, doc := range docs {
		counts := make(map[string]float64)
		for _, term := range v.analyze(doc) {
			counts[term]++
		}
		rows[i] = v.vectorize(counts)
	}
	return rows, nil
}

// VocabularySize 返回拟合后的词表大小。
func (v *TFIDFVectorizer) VocabularySize() int {
	return len(v.terms)
}

// Vocabulary 返回拟合后的词表（列号序）。
func (v *TFIDFVectorizer) Vocabulary() []string {
	return v.terms
}

// analyze 分词并生成 unigram + bigram。
// token 规则：小写化后取长度 >= 2 的连续字母/数字/下划线串，
// 停用词剔除后再组 bigram（与常见向量化实现一致）。
func (v *TFIDFVectorizer) analyze(doc string) []string {
	raw := wordRegex.FindAllString(strings.ToLower(doc), -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if len(t) < 2 {
			continue
		}
		if IsStopWord(t) {
			continue
		}
		tokens = append(tokens, t)
	}

	terms := make([]string, 0, 2*len(tokens))
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

// vectorize 把一篇文档的词频 map 变成 L2 归一化的 TF-IDF 行向量。
func (v *TFIDFVectorizer) vectorize(counts map[string]float64) []float64 {
	row := make([]float64, len(v.terms))
	var norm float64
	for term, tf := range counts {
		idx, ok := v.vocab[term]
		if !ok {
			continue
		}
		w := tf * v.idf[idx]
		row[idx] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range row {
			row[i] /= norm
		}
	}
	return row
}
