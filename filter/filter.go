package filter

import (
	"context"

	"github.com/bookwise/bookrec/core"
)

// Filter 是候选过滤器的抽象接口，用于判断一本书是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 book 是否应该被过滤
	ShouldFilter(ctx context.Context, book *core.Book) (bool, error)
}
