package feature

import (
	"github.com/bookwise/bookrec/core"
)

// Assembler 把书目集合装配成统一的内容矩阵。
//
// 每行 = concat(TF-IDF 向量 × TextWeight, 标准化数值向量 × NumericWeight)。
// 默认 0.8/0.2 的权重是刻意的设计选择：主题/文本相似性优先于
// 热度与篇幅信号，必须按配置精确保留以保证输出可复现。
//
// 数值侧两组独立标准化：
//   - Pages（缺失→默认 300）单独一组
//   - (AverageRating, ReviewCount, PopularityScore)（缺失→0）一组
//
// 行序即输入书目顺序，是整个相似度链路的权威索引，
// 下游（相似度矩阵、TopK 查询）都依赖该对齐关系。
type Assembler struct {
	Config core.FeatureConfig

	vectorizer *TFIDFVectorizer
}

// NewAssembler 创建内容矩阵装配器。
func NewAssembler(cfg core.FeatureConfig) *Assembler {
	return &Assembler{Config: cfg}
}

// BuildContentFeatures 在当前目录上拟合所有变换并返回内容矩阵，
// 以及与矩阵行一一对应的书目切片（Description 为空的书目被剔除）。
//
// 每次调用都重新拟合 TF-IDF 与标准化器：特征空间由当前目录决定，
// 目录变化后旧矩阵即失效。对不变目录重复调用产出逐位相同的矩阵。
//
// 过滤后若目录为空，返回 EMPTY_CATALOG 错误，绝不产出退化矩阵。
func (a *Assembler) BuildContentFeatures(books []*core.Book) ([]*core.Book, [][]float64, error) {
	eligible := make([]*core.Book, 0, len(books))
	for _, b := range books {
		if b != nil && b.HasDescription() {
			eligible = append(eligible, b)
		}
	}
	if len(eligible) == 0 {
		return nil, nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeEmptyCatalog,
			"no books with non-empty description in catalog")
	}

	// 文本侧：组合文本串 -> TF-IDF
	docs := make([]string, len(eligible))
	for i, b := range eligible {
		docs[i] = CombineTextFeatures(b)
	}
	a.vectorizer = NewTFIDFVectorizer(a.Config)
	textRows := a.vectorizer.FitTransform(docs)

	// 数值侧：Pages 与质量三元组各自独立标准化
	pages := make([]float64, len(eligible))
	ratings := make([]float64, len(eligible))
	reviews := make([]float64, len(eligible))
	popularity := make([]float64, len(eligible))
	for i, b := range eligible {
		if b.Pages > 0 {
			pages[i] = float64(b.Pages)
		} else {
			pages[i] = a.Config.DefaultPages
		}
		ratings[i] = b.AverageRating
		reviews[i] = float64(b.ReviewCount)
		popularity[i] = b.PopularityScore
	}

	pageScaler := &StandardScaler{}
	pageCols := pageScaler.FitTransform([][]float64{pages})

	qualityScaler := &StandardScaler{}
	qualityCols := qualityScaler.FitTransform([][]float64{ratings, reviews, popularity})

	// 融合：文本与数值按权重拼接
	tw, nw := a.Config.TextWeight, a.Config.NumericWeight
	textDim := a.vectorizer.VocabularySize()
	matrix := make([][]float64, len(eligible))
	for i := range eligible {
		row := make([]float64, textDim+4)
		for j, x := range textRows[i] {
			row[j] = x * tw
		}
		row[textDim] = pageCols[0][i] * nw
		row[textDim+1] = qualityCols[0][i] * nw
		row[textDim+2] = qualityCols[1][i] * nw
		row[textDim+3] = qualityCols[2][i] * nw
		matrix[i] = row
	}
	return eligible, matrix, nil
}

// Vectorizer 返回最近一次装配使用的向量化器（未装配时为 nil），
// 供调试/观测词表使用。
func (a *Assembler) Vectorizer() *TFIDFVectorizer {
	return a.vectorizer
}
