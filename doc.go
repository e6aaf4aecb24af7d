// Package bookrec 是一个基于内容的书籍推荐工具包。
//
// 设计要点：
// - Snapshot-first: 目录加载产出不可变 CatalogSnapshot（内容矩阵 + 相似度矩阵），
//   查询全部在快照上进行，目录变化时整体换新快照
// - 特征融合: TF-IDF 文本向量 × 0.8 + 标准化数值向量 × 0.2，主题相似优先
// - 画像即时构建: TasteProfile 每次请求从实时评分重建，不做缓存
// - 存储可插拔: CatalogSource / RatingSource / RecommendationSink
//   定义在 core，store 提供 Memory/Redis 实现
package bookrec

import (
	"github.com/bookwise/bookrec/core"
	"github.com/bookwise/bookrec/recommend"
)

// 轻量 facade：便于用户直接 import "bookrec" 使用核心抽象。
type Book = core.Book
type Rating = core.Rating
type TasteProfile = core.TasteProfile
type Recommendation = core.Recommendation
type CatalogSnapshot = recommend.CatalogSnapshot
type Recommender = recommend.Recommender

var (
	BuildSnapshot  = recommend.BuildSnapshot
	NewRecommender = recommend.New
)
