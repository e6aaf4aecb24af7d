package filter

import (
	"context"

	"github.com/bookwise/bookrec/core"
)

// ReadSet 是已读过滤器，过滤掉用户已经评过分或在阅读历史中的书目。
// 集合在请求入口一次性取出（评分集与阅读历史的并集），过滤本身
// 不再访问存储，避免逐候选的网络往返。
type ReadSet struct {
	IDs map[string]struct{}
}

// NewReadSet 用预取的已读 ID 集合创建过滤器。
func NewReadSet(ids map[string]struct{}) *ReadSet {
	return &ReadSet{IDs: ids}
}

func (f *ReadSet) Name() string {
	return "filter.read_set"
}

func (f *ReadSet) ShouldFilter(_ context.Context, book *core.Book) (bool, error) {
	if book == nil || f.IDs == nil {
		return false, nil
	}
	_, read := f.IDs[book.ID]
	return read, nil
}
