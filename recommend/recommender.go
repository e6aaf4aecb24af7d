package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bookwise/bookrec/core"
	"github.com/bookwise/bookrec/filter"
	"github.com/bookwise/bookrec/profile"
)

// Recommender 在一份 CatalogSnapshot 上做个性化推荐与相似内容查询。
//
// 个性化链路：画像构建 → 已读过滤 → 逐候选打分 → 阈值过滤 →
// 稳定排序 → TopN。无画像（新用户）时退化为热门兜底。
type Recommender struct {
	Snapshot *CatalogSnapshot
	Ratings  core.RatingSource
	Profiles *profile.Builder

	// Sink 可选：SaveRecommendations 落库用，nil 时该方法报错
	Sink core.RecommendationSink

	// Filters 可选：在已读过滤之后追加的候选过滤器（如表达式过滤）
	Filters []filter.Filter

	// Scoring 打分配置；零值字段不合法，应使用 DefaultScoringConfig 起步
	Scoring core.ScoringConfig
}

// New 创建推荐器，使用默认打分配置。
func New(snapshot *CatalogSnapshot, ratings core.RatingSource) *Recommender {
	return &Recommender{
		Snapshot: snapshot,
		Ratings:  ratings,
		Profiles: profile.NewBuilder(ratings),
		Scoring:  core.DefaultScoringConfig(),
	}
}

// RecommendForUser 为用户生成 TopN 个性化推荐。
//
// 行为约定：
//   - 快照未构建：STALE_STATE，响亮失败
//   - 用户无评分信号：热门兜底（按 PopularityScore 降序取 TopN，
//     固定分数、固定解释文案），不向调用方暴露为错误
//   - 已评分或在阅读历史中的书目（两集合并集）绝不出现在结果里
//   - 分数 <= MinScore 的候选被丢弃（最低相关性阈值，挡住近零噪声）
//   - 按分数降序稳定排序，同分保持目录原序
func (r *Recommender) RecommendForUser(ctx context.Context, userID string, n int) ([]*core.Recommendation, error) {
	if r.Snapshot == nil || r.Snapshot.engine == nil {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeStaleState,
			"catalog snapshot not built")
	}

	p, err := r.Profiles.BuildProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return r.recommendPopular(n), nil
	}

	readSet, err := r.Ratings.AllReadOrReviewedBookIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	filters := make([]filter.Filter, 0, 1+len(r.Filters))
	filters = append(filters, filter.NewReadSet(readSet))
	filters = append(filters, r.Filters...)

	recs := make([]*core.Recommendation, 0, len(r.Snapshot.books))
	for _, book := range r.Snapshot.books {
		filtered, err := applyFilters(ctx, filters, book)
		if err != nil {
			return nil, err
		}
		if filtered {
			continue
		}

		score := r.scoreBook(book, p)
		if score <= r.Scoring.MinScore {
			continue
		}

		recs = append(recs, &core.Recommendation{
			BookID:      book.ID,
			Title:       book.Title,
			Author:      book.Author,
			Genre:       book.Genre,
			Score:       score,
			Explanation: r.explain(book, p),
			Strategy:    core.StrategyContentBased,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if n >= 0 && len(recs) > n {
		recs = recs[:n]
	}
	return recs, nil
}

// FindSimilarBooks 返回与给定书目内容最相似的 TopK 书目。
// 解释文案是固定字符串，不从内容推导（既有契约，保持原样）。
// 未知 bookID 返回空结果，不报错。
func (r *Recommender) FindSimilarBooks(bookID string, k int) ([]*core.Recommendation, error) {
	if r.Snapshot == nil || r.Snapshot.engine == nil {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeStaleState,
			"catalog snapshot not built")
	}

	neighbors, err := r.Snapshot.FindSimilar(bookID, k)
	if err != nil {
		return nil, err
	}

	recs := make([]*core.Recommendation, 0, len(neighbors))
	for _, nb := range neighbors {
		book := r.Snapshot.books[nb.Index]
		recs = append(recs, &core.Recommendation{
			BookID:      book.ID,
			Title:       book.Title,
			Author:      book.Author,
			Genre:       book.Genre,
			Score:       nb.Score,
			Explanation: "Similar content and themes",
			Strategy:    core.StrategySimilarContent,
		})
	}
	return recs, nil
}

// SaveRecommendations 把一次推荐结果交给 Sink 做原子替换落库。
func (r *Recommender) SaveRecommendations(ctx context.Context, userID string, recs []*core.Recommendation) error {
	if r.Sink == nil {
		return core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput,
			"no recommendation sink configured")
	}
	return r.Sink.ReplaceRecommendations(ctx, userID, recs)
}

// scoreBook 对单本候选书打分：逐项相加后截断至 1.0。
// 画像中不存在的 genre/author/tag 权重为 0，不报错。
func (r *Recommender) scoreBook(book *core.Book, p *core.TasteProfile) float64 {
	cfg := r.Scoring
	score := 0.0

	// 类型偏好：最大单项
	score += p.GenreWeight(book.Genre) * cfg.GenreFactor

	// 作者偏好
	score += p.AuthorWeight(book.Author) * cfg.AuthorFactor

	// 标签偏好：标签均值，空标签列表贡献 0（无除零）
	if len(book.Tags) > 0 {
		var tagSum float64
		for _, tag := range book.Tags {
			tagSum += p.TagWeight(tag)
		}
		score += tagSum / float64(len(book.Tags)) * cfg.TagFactor
	}

	// 质量信号
	if book.AverageRating >= cfg.QualityRatingMin {
		score += cfg.QualityBonus
	}
	if book.ReviewCount >= cfg.ConfidenceReviewMin {
		score += cfg.ConfidenceBonus
	}

	// 热度微调
	score += book.PopularityScore / 100 * cfg.PopularityFactor

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// explain 生成人类可读的推荐理由，分号连接，固定优先级：
// 类型匹配 → 作者匹配 → 至多 ExplainTagLimit 个匹配标签 → 高分好评。
// 没有任何理由时返回通用兜底文案。
func (r *Recommender) explain(book *core.Book, p *core.TasteProfile) string {
	reasons := make([]string, 0, 4)

	if _, ok := p.Genres[book.Genre]; ok && book.Genre != "" {
		reasons = append(reasons, fmt.Sprintf("You enjoy %s books", book.Genre))
	}

	if _, ok := p.Authors[book.Author]; ok && book.Author != "" {
		reasons = append(reasons, fmt.Sprintf("You've liked books by %s", book.Author))
	}

	if len(book.Tags) > 0 {
		matching := make([]string, 0, r.Scoring.ExplainTagLimit)
		for _, tag := range book.Tags {
			if _, ok := p.Tags[tag]; ok {
				matching = append(matching, tag)
				if len(matching) == r.Scoring.ExplainTagLimit {
					break
				}
			}
		}
		if len(matching) > 0 {
			reasons = append(reasons, fmt.Sprintf("Matches your interest in %s", strings.Join(matching, ", ")))
		}
	}

	if book.AverageRating >= r.Scoring.HighlyRatedMin {
		reasons = append(reasons, "Highly rated by other readers")
	}

	if len(reasons) == 0 {
		return "Recommended based on your reading preferences"
	}
	return strings.Join(reasons, "; ")
}

// recommendPopular 是新用户的热门兜底：按 PopularityScore 降序取 TopN，
// 同分保持目录原序；分数与解释文案固定。
func (r *Recommender) recommendPopular(n int) []*core.Recommendation {
	books := make([]*core.Book, len(r.Snapshot.books))
	copy(books, r.Snapshot.books)

	sort.SliceStable(books, func(i, j int) bool {
		return books[i].PopularityScore > books[j].PopularityScore
	})
	if n >= 0 && len(books) > n {
		books = books[:n]
	}

	recs := make([]*core.Recommendation, 0, len(books))
	for _, book := range books {
		recs = append(recs, &core.Recommendation{
			BookID:      book.ID,
			Title:       book.Title,
			Author:      book.Author,
			Genre:       book.Genre,
			Score:       r.Scoring.FallbackScore,
			Explanation: "Popular among readers",
			Strategy:    core.StrategyPopularity,
		})
	}
	return recs
}

func applyFilters(ctx context.Context, filters []filter.Filter, book *core.Book) (bool, error) {
	for _, f := range filters {
		drop, err := f.ShouldFilter(ctx, book)
		if err != nil {
			return false, fmt.Errorf("%s: %w", f.Name(), err)
		}
		if drop {
			return true, nil
		}
	}
	return false, nil
}
