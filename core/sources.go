package core

import "context"

// CatalogSource 是书目数据的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//   - 存储层错误原样向上传播，重试/放弃由调用方决策
//
// 实现：
//   - store.MemoryStore 实现此接口
//   - store.RedisStore 实现此接口
type CatalogSource interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// ListBooksWithDescription 按稳定顺序返回所有 Description 非空的书目。
	// 返回顺序即内容矩阵的行序，必须在多次调用间保持一致。
	ListBooksWithDescription(ctx context.Context) ([]*Book, error)
}

// PreferenceRow 是一条高分评分与其书目分类信息的 join 结果，
// 供画像构建直接消费，避免画像层二次查书。
type PreferenceRow struct {
	BookID string
	Genre  string
	Author string
	Tags   []string
	Rating float64
}

// RatingSource 是评分/阅读历史数据的领域接口。
type RatingSource interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// RatingsForUserAtOrAbove 返回用户评分 >= minRating 的记录，
	// 每条已 join 书目的 genre/author/tags。
	RatingsForUserAtOrAbove(ctx context.Context, userID string, minRating float64) ([]PreferenceRow, error)

	// AllReadOrReviewedBookIDs 返回用户评过分或在阅读历史中的书目 ID 并集。
	AllReadOrReviewedBookIDs(ctx context.Context, userID string) (map[string]struct{}, error)
}

// RecommendationSink 是推荐结果缓存落库的领域接口（可选能力）。
type RecommendationSink interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// ReplaceRecommendations 原子替换用户的推荐缓存：
	// 清空旧结果并写入新结果，all-or-nothing，不是追加。
	ReplaceRecommendations(ctx context.Context, userID string, recs []*Recommendation) error
}
