package recommend

import (
	"context"

	"github.com/bookwise/bookrec/core"
	"github.com/bookwise/bookrec/feature"
	"github.com/bookwise/bookrec/similarity"
)

// CatalogSnapshot 是一次目录加载的不可变产物：行对齐的书目、
// 内容矩阵与相似度引擎。
//
// 并发模型：快照构建完成后只读，可被任意多个请求并发查询；
// 目录变化时构建新快照并整体替换引用，新旧快照可以共存服务
// 各自进行中的请求。快照本身不定义多写语义。
type CatalogSnapshot struct {
	books  []*core.Book // 行序即矩阵行序，权威索引
	byID   map[string]*core.Book
	matrix [][]float64
	engine *similarity.Engine
}

// BuildSnapshot 从目录源构建一个新快照：
// 取书 → 装配内容矩阵 → 计算全对相似度。
//
// 目录过滤后为空时返回 EMPTY_CATALOG；存储层错误原样传播。
func BuildSnapshot(ctx context.Context, catalog core.CatalogSource, cfg core.FeatureConfig) (*CatalogSnapshot, error) {
	books, err := catalog.ListBooksWithDescription(ctx)
	if err != nil {
		return nil, err
	}

	assembler := feature.NewAssembler(cfg)
	eligible, matrix, err := assembler.BuildContentFeatures(books)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(eligible))
	byID := make(map[string]*core.Book, len(eligible))
	for i, b := range eligible {
		ids[i] = b.ID
		byID[b.ID] = b
	}

	engine, err := similarity.NewEngine(ctx, ids, matrix)
	if err != nil {
		return nil, err
	}

	return &CatalogSnapshot{
		books:  eligible,
		byID:   byID,
		matrix: matrix,
		engine: engine,
	}, nil
}

// Books 返回快照中的书目（矩阵行序；调用方不得修改）。
func (s *CatalogSnapshot) Books() []*core.Book {
	return s.books
}

// Book 按 ID 查书；不存在时返回 nil。
func (s *CatalogSnapshot) Book(id string) *core.Book {
	return s.byID[id]
}

// Len 返回快照中的书目数量。
func (s *CatalogSnapshot) Len() int {
	return len(s.books)
}

// ContentMatrix 返回内容矩阵（共享底层数组，调用方不得修改）。
func (s *CatalogSnapshot) ContentMatrix() [][]float64 {
	return s.matrix
}

// SimilarityMatrix 返回相似度矩阵（共享底层数组，调用方不得修改）。
func (s *CatalogSnapshot) SimilarityMatrix() [][]float64 {
	return s.engine.Matrix()
}

// FindSimilar 在快照上做 TopK 相似查询（见 similarity.Engine.FindSimilar）。
func (s *CatalogSnapshot) FindSimilar(bookID string, k int) ([]similarity.Neighbor, error) {
	return s.engine.FindSimilar(bookID, k)
}
