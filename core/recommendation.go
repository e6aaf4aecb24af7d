package core

// Strategy 标记一条推荐结果的产生方式，方便观测与落库。
type Strategy string

const (
	StrategyContentBased   Strategy = "content_based"   // 画像打分
	StrategyPopularity     Strategy = "popularity"      // 热门兜底（新用户）
	StrategySimilarContent Strategy = "similar_content" // 相似内容查询
)

// Recommendation 是一条不可变的推荐结果。
//
// Score 的语义随 Strategy 变化：
//   - content_based: 画像打分，[0, 1]
//   - popularity: 固定 0.8
//   - similar_content: 余弦相似度，理论 [-1, 1]，实际 >= 0
type Recommendation struct {
	BookID      string
	Title       string
	Author      string
	Genre       string
	Score       float64
	Explanation string
	Strategy    Strategy
}
