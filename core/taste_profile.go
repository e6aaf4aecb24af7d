package core

// TasteProfile 是用户阅读偏好画像的核心抽象。
//
// 一句话定义：TasteProfile = 用户高分评分历史的加权偏好分布。
//
// 它由 profile.Builder 在每次推荐请求时即时构建，不做缓存：
//   - 只统计评分 >= 信号阈值（默认 4 分）的记录
//   - Genre / Author 权重 = mean(rating) × log(1 + count)，
//     同时奖励"评分高"与"证据多"，log 抑制数量的无限放大
//   - Tag 权重 = 原始出现次数（不按评分加权，与 Genre/Author 刻意不对称）
//
// AvgRating / TotalBooks 为附加统计信息，当前打分公式未消费。
type TasteProfile struct {
	UserID string

	// key: genre/author，value: mean(rating) × log(1+count)
	Genres  map[string]float64
	Authors map[string]float64

	// key: tag，value: 出现次数
	Tags map[string]float64

	AvgRating  float64
	TotalBooks int
}

// NewTasteProfile 创建一个空画像。
func NewTasteProfile(userID string) *TasteProfile {
	return &TasteProfile{
		UserID:  userID,
		Genres:  make(map[string]float64),
		Authors: make(map[string]float64),
		Tags:    make(map[string]float64),
	}
}

// GenreWeight 获取类型偏好权重；未知类型返回 0。
func (p *TasteProfile) GenreWeight(genre string) float64 {
	if p == nil || p.Genres == nil {
		return 0
	}
	return p.Genres[genre]
}

// AuthorWeight 获取作者偏好权重；未知作者返回 0。
func (p *TasteProfile) AuthorWeight(author string) float64 {
	if p == nil || p.Authors == nil {
		return 0
	}
	return p.Authors[author]
}

// TagWeight 获取标签偏好权重；未知标签返回 0。
func (p *TasteProfile) TagWeight(tag string) float64 {
	if p == nil || p.Tags == nil {
		return 0
	}
	return p.Tags[tag]
}
