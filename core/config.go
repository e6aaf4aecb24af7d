package core

// ScoringConfig 是画像打分相关的配置，所有字段均有带语义的默认值。
//
// 打分公式（逐项相加后截断至 1.0）：
//
//	score = genreWeight × GenreFactor
//	      + authorWeight × AuthorFactor
//	      + avgTagWeight × TagFactor
//	      + QualityBonus      (AverageRating >= QualityRatingMin)
//	      + ConfidenceBonus   (ReviewCount >= ConfidenceReviewMin)
//	      + popularity/100 × PopularityFactor
type ScoringConfig struct {
	GenreFactor  float64 // 类型权重系数，最大单项
	AuthorFactor float64 // 作者权重系数
	TagFactor    float64 // 标签均值系数

	QualityBonus        float64 // 高分加成
	QualityRatingMin    float64 // 高分加成的评分门槛
	ConfidenceBonus     float64 // 评论量加成
	ConfidenceReviewMin int     // 评论量加成的数量门槛
	PopularityFactor    float64 // 热度微调系数

	MinScore        float64 // 最低相关性阈值，<= 该值的候选不返回
	SignalRating    float64 // 画像信号阈值，低于该评分不计入偏好证据
	HighlyRatedMin  float64 // 解释文案"高分好评"的评分门槛
	FallbackScore   float64 // 热门兜底的固定分数
	ExplainTagLimit int     // 解释文案最多列出的匹配标签数
}

// DefaultScoringConfig 返回默认打分配置。
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		GenreFactor:  0.4,
		AuthorFactor: 0.2,
		TagFactor:    0.2,

		QualityBonus:        0.1,
		QualityRatingMin:    4.0,
		ConfidenceBonus:     0.05,
		ConfidenceReviewMin: 50,
		PopularityFactor:    0.05,

		MinScore:        0.1,
		SignalRating:    4.0,
		HighlyRatedMin:  4.5,
		FallbackScore:   0.8,
		ExplainTagLimit: 2,
	}
}

// FeatureConfig 是内容矩阵构建相关的配置。
//
// TextWeight/NumericWeight 的 4:1 默认值是刻意的设计选择：
// 主题/文本相似性优先于热度与篇幅信号。两者之和应为 1.0
// （不做强校验，但偏离会破坏分数的可比性）。
type FeatureConfig struct {
	MaxFeatures  int     // TF-IDF 词表上限
	MinDocFreq   int     // 词项最少出现的文档数
	MaxDocRatio  float64 // 词项最多出现的文档比例
	DefaultPages float64 // Pages 缺失时的默认值

	TextWeight    float64 // 文本向量权重
	NumericWeight float64 // 数值向量权重
}

// DefaultFeatureConfig 返回默认特征配置。
func DefaultFeatureConfig() FeatureConfig {
	return FeatureConfig{
		MaxFeatures:  5000,
		MinDocFreq:   2,
		MaxDocRatio:  0.8,
		DefaultPages: 300,

		TextWeight:    0.8,
		NumericWeight: 0.2,
	}
}
