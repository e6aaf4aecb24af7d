// Package dsl 提供候选过滤表达式解释器，使用 CEL (Common Expression
// Language) 实现。CEL 是 Google 开发的表达式语言，具有类型安全、
// 高性能、线程安全等特性。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/bookwise/bookrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// initCELEnv 初始化 CEL 环境，定义变量
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("book", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Eval 是候选过滤表达式解释器。表达式在 NewEval 中编译一次并缓存，
// Matches 可以被并发多次调用。
//
// 表达式语法（CEL 标准语法），变量 book 暴露书目属性：
//   - book.language == "en"
//   - book.pages < 600 && book.average_rating >= 4.0
//   - book.genre in ["Fantasy", "Sci-Fi"]
//   - "dragons" in book.tags
type Eval struct {
	expr string
	prg  cel.Program
}

// NewEval 编译一个候选过滤表达式。
// 空表达式合法：Matches 恒为 true。
func NewEval(expr string) (*Eval, error) {
	e := &Eval{expr: expr}
	if expr == "" {
		return e, nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	e.prg = prg
	return e, nil
}

// Matches 对一本书求值表达式，返回布尔结果。
// 表达式必须返回布尔值，否则报错。
func (e *Eval) Matches(book *core.Book) (bool, error) {
	if e.prg == nil {
		return true, nil
	}

	out, _, err := e.prg.Eval(buildInput(book))
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据。
// tags 缺失时暴露空列表而不是 null，方便 in 操作符直接使用。
func buildInput(book *core.Book) map[string]interface{} {
	tags := book.Tags
	if tags == nil {
		tags = []string{}
	}
	subgenres := book.Subgenres
	if subgenres == nil {
		subgenres = []string{}
	}

	return map[string]interface{}{
		"book": map[string]interface{}{
			"id":               book.ID,
			"title":            book.Title,
			"author":           book.Author,
			"genre":            book.Genre,
			"subgenres":        subgenres,
			"tags":             tags,
			"language":         book.Language,
			"pages":            book.Pages,
			"average_rating":   book.AverageRating,
			"review_count":     book.ReviewCount,
			"popularity_score": book.PopularityScore,
		},
	}
}
