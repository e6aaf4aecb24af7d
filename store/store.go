// Package store 只包含实现，接口定义在 core 包
// （core.CatalogSource / core.RatingSource / core.RecommendationSink）。
//
// 示例：
//
//	var catalog core.CatalogSource = store.NewMemoryStore()
//	var sink core.RecommendationSink = store.NewMemoryStore()
package store

import "errors"

// ErrNotFound 表示 key/记录不存在。
var ErrNotFound = errors.New("store: not found")
