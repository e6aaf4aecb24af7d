package filter

import (
	"context"

	"github.com/bookwise/bookrec/core"
	"github.com/bookwise/bookrec/pkg/dsl"
)

// Expression 是表达式过滤器：用 CEL 表达式描述"保留哪些候选"。
// 表达式求值为 false 的书目被过滤。
//
// 使用场景：
//   - 语言限制：book.language == "en"
//   - 篇幅限制：book.pages <= 600
//   - 组合规则：book.genre != "Horror" && book.average_rating >= 3.5
type Expression struct {
	eval *dsl.Eval
}

// NewExpression 编译一个保留条件表达式。空表达式表示全部保留。
func NewExpression(expr string) (*Expression, error) {
	eval, err := dsl.NewEval(expr)
	if err != nil {
		return nil, err
	}
	return &Expression{eval: eval}, nil
}

func (f *Expression) Name() string {
	return "filter.expression"
}

func (f *Expression) ShouldFilter(_ context.Context, book *core.Book) (bool, error) {
	if book == nil {
		return false, nil
	}
	keep, err := f.eval.Matches(book)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
