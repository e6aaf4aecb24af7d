package profile

import (
	"context"
	"math"

	"github.com/bookwise/bookrec/core"
)

// Builder 从用户的高分评分历史构建 TasteProfile。
//
// 画像在每次推荐请求时即时构建，不做缓存：它依赖实时评分数据，
// 缓存收益小而失效成本高。
type Builder struct {
	Ratings core.RatingSource

	// SignalRating 是信号阈值：低于该评分的记录不作为偏好证据。
	// 0 表示使用默认值 4.0。
	SignalRating float64
}

// NewBuilder 创建画像构建器。
func NewBuilder(ratings core.RatingSource) *Builder {
	return &Builder{Ratings: ratings}
}

// BuildProfile 构建用户画像。
//
// 返回约定：
//   - 用户没有任何达到信号阈值的评分：返回 (nil, nil)，
//     新用户场景，调用方应切换到热门兜底策略
//   - 存储层错误原样向上传播，不做重试
//
// 权重公式：
//   - Genre/Author：mean(rating) × log(1 + count)，
//     同时奖励评分一致性与证据数量，log 抑制数量的线性放大
//   - Tag：所有达标书目的标签展平后按出现次数计数（不按评分加权）
func (b *Builder) BuildProfile(ctx context.Context, userID string) (*core.TasteProfile, error) {
	minRating := b.SignalRating
	if minRating <= 0 {
		minRating = core.DefaultScoringConfig().SignalRating
	}

	rows, err := b.Ratings.RatingsForUserAtOrAbove(ctx, userID, minRating)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	p := core.NewTasteProfile(userID)

	type agg struct {
		sum   float64
		count int
	}
	genres := make(map[string]*agg)
	authors := make(map[string]*agg)

	var ratingSum float64
	for _, row := range rows {
		ratingSum += row.Rating

		if row.Genre != "" {
			a := genres[row.Genre]
			if a == nil {
				a = &agg{}
				genres[row.Genre] = a
			}
			a.sum += row.Rating
			a.count++
		}
		if row.Author != "" {
			a := authors[row.Author]
			if a == nil {
				a = &agg{}
				authors[row.Author] = a
			}
			a.sum += row.Rating
			a.count++
		}
		for _, tag := range row.Tags {
			if tag != "" {
				p.Tags[tag]++
			}
		}
	}

	for genre, a := range genres {
		p.Genres[genre] = a.sum / float64(a.count) * math.Log(1+float64(a.count))
	}
	for author, a := range authors {
		p.Authors[author] = a.sum / float64(a.count) * math.Log(1+float64(a.count))
	}

	p.AvgRating = ratingSum / float64(len(rows))
	p.TotalBooks = len(rows)
	return p, nil
}
