package similarity

import (
	"context"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/bookwise/bookrec/core"
)

// Neighbor 是一次相似查询的单条结果。
type Neighbor struct {
	Index int     // 内容矩阵行号
	ID    string  // 书目 ID
	Score float64 // 余弦相似度
}

// Engine 在一份内容矩阵上计算并持有全对相似度矩阵。
//
// 相似度矩阵与内容矩阵行序严格对齐、对称，对角线为该行最大值
// （自相似）。Engine 与一次目录快照绑定：目录变化后必须用新矩阵
// 重建 Engine，复用旧 Engine 属于调用方错误，内部不做检测。
type Engine struct {
	ids   []string
	index map[string]int
	sim   [][]float64
}

// NewEngine 创建引擎并计算全对余弦相似度矩阵。
// ids 与 content 按行一一对应；行数不一致返回 INVALID_INPUT。
// 计算量是目录规模的平方，行级并发执行。
func NewEngine(ctx context.Context, ids []string, content [][]float64) (*Engine, error) {
	if len(ids) != len(content) {
		return nil, core.NewDomainError(core.ModuleSimilarity, core.ErrorCodeInvalidInput,
			"ids and content matrix must have the same number of rows")
	}
	if len(content) == 0 {
		return nil, core.NewDomainError(core.ModuleSimilarity, core.ErrorCodeEmptyCatalog,
			"content matrix is empty")
	}

	e := &Engine{
		ids:   ids,
		index: make(map[string]int, len(ids)),
	}
	for i, id := range ids {
		e.index[id] = i
	}

	sim, err := computeMatrix(ctx, content, runtime.GOMAXPROCS(0))
	if err != nil {
		return nil, err
	}
	e.sim = sim
	return e, nil
}

// computeMatrix 计算全对余弦相似度。
// 每个 goroutine 只写自己的行，天然无竞争。
func computeMatrix(ctx context.Context, content [][]float64, maxConcurrent int) ([][]float64, error) {
	n := len(content)

	// 预计算每行的 L2 范数，零范数行与任何行的相似度记 0
	norms := make([]float64, n)
	for i, row := range content {
		var sq float64
		for _, x := range row {
			sq += x * x
		}
		norms[i] = math.Sqrt(sq)
	}

	sim := make([][]float64, n)

	eg, ctx := errgroup.WithContext(ctx)
	if maxConcurrent > 0 {
		eg.SetLimit(maxConcurrent)
	}

	for i := 0; i < n; i++ {
		i := i
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := make([]float64, n)
			a := content[i]
			for j := 0; j < n; j++ {
				if norms[i] == 0 || norms[j] == 0 {
					continue
				}
				var dot float64
				b := content[j]
				for k := range a {
					dot += a[k] * b[k]
				}
				row[j] = dot / (norms[i] * norms[j])
			}
			sim[i] = row
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return sim, nil
}

// Matrix 返回相似度矩阵（共享底层数组，调用方不得修改）。
func (e *Engine) Matrix() [][]float64 {
	return e.sim
}

// FindSimilar 返回与 bookID 最相似的 TopK 书目。
//
// 行为约定：
//   - bookID 未知：可恢复的非致命情况，返回空结果与 nil error
//   - 结果按相似度降序；同分按原始行序稳定排序
//   - 永不包含 bookID 自身，至多返回 k 条
//   - 引擎未构建完成（零值 Engine）：STALE_STATE，响亮失败
func (e *Engine) FindSimilar(bookID string, k int) ([]Neighbor, error) {
	if e == nil || e.sim == nil {
		return nil, core.NewDomainError(core.ModuleSimilarity, core.ErrorCodeStaleState,
			"similarity matrix not built")
	}

	row, ok := e.index[bookID]
	if !ok {
		return nil, nil
	}
	if k <= 0 {
		return nil, nil
	}

	scores := e.sim[row]
	neighbors := make([]Neighbor, 0, len(scores)-1)
	for j, s := range scores {
		if j == row {
			continue
		}
		neighbors = append(neighbors, Neighbor{Index: j, ID: e.ids[j], Score: s})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Score > neighbors[j].Score
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}
