package similarity

import (
	"context"
	"math"
	"testing"

	"github.com/bookwise/bookrec/core"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	ids := []string{"a", "b", "c", "d"}
	content := [][]float64{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0.9, 0.1, 0}, // 与 b 完全相同，同分并列
		{0, 0, 1},
	}
	e, err := NewEngine(context.Background(), ids, content)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestEngineMatrixSymmetric(t *testing.T) {
	sim := testEngine(t).Matrix()
	for i := range sim {
		for j := range sim[i] {
			if math.Abs(sim[i][j]-sim[j][i]) > 1e-12 {
				t.Errorf("sim[%d][%d]=%v != sim[%d][%d]=%v", i, j, sim[i][j], j, i, sim[j][i])
			}
		}
	}
}

func TestEngineDiagonalIsRowMax(t *testing.T) {
	sim := testEngine(t).Matrix()
	for i := range sim {
		for j := range sim[i] {
			if sim[i][j] > sim[i][i]+1e-12 {
				t.Errorf("sim[%d][%d]=%v exceeds diagonal %v", i, j, sim[i][j], sim[i][i])
			}
		}
	}
}

func TestEngineValuesInRange(t *testing.T) {
	sim := testEngine(t).Matrix()
	for i := range sim {
		for j := range sim[i] {
			if sim[i][j] < -1-1e-12 || sim[i][j] > 1+1e-12 {
				t.Errorf("sim[%d][%d]=%v outside [-1, 1]", i, j, sim[i][j])
			}
		}
	}
}

func TestFindSimilar(t *testing.T) {
	e := testEngine(t)

	got, err := e.FindSimilar("a", 2)
	if err != nil {
		t.Fatalf("FindSimilar() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}

	// b 与 c 向量相同、与 a 同分：按原始行序稳定并列，b 在前
	if got[0].ID != "b" || got[1].ID != "c" {
		t.Errorf("results = [%s %s], want [b c]", got[0].ID, got[1].ID)
	}

	// 相似度非增
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score+1e-12 {
			t.Errorf("results not sorted: %v then %v", got[i-1].Score, got[i].Score)
		}
	}
}

func TestFindSimilarExcludesSelf(t *testing.T) {
	e := testEngine(t)
	got, err := e.FindSimilar("b", 10)
	if err != nil {
		t.Fatalf("FindSimilar() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d results, want 3 (all others)", len(got))
	}
	for _, nb := range got {
		if nb.ID == "b" {
			t.Fatal("result contains the query book itself")
		}
	}
}

func TestFindSimilarUnknownID(t *testing.T) {
	e := testEngine(t)
	got, err := e.FindSimilar("missing", 5)
	if err != nil {
		t.Fatalf("unknown id should be recoverable, got error %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d results for unknown id, want 0", len(got))
	}
}

func TestFindSimilarZeroK(t *testing.T) {
	e := testEngine(t)
	got, err := e.FindSimilar("a", 0)
	if err != nil {
		t.Fatalf("FindSimilar() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d results for k=0, want 0", len(got))
	}
}

func TestFindSimilarStaleEngine(t *testing.T) {
	var e *Engine
	_, err := e.FindSimilar("a", 5)
	if !core.IsStaleState(err) {
		t.Fatalf("nil engine: err = %v, want STALE_STATE", err)
	}

	_, err = (&Engine{}).FindSimilar("a", 5)
	if !core.IsStaleState(err) {
		t.Fatalf("zero-value engine: err = %v, want STALE_STATE", err)
	}
}

func TestNewEngineValidation(t *testing.T) {
	_, err := NewEngine(context.Background(), []string{"a"}, [][]float64{{1}, {2}})
	if core.GetDomainError(err) == nil || core.GetDomainError(err).Code != core.ErrorCodeInvalidInput {
		t.Fatalf("mismatched rows: err = %v, want INVALID_INPUT", err)
	}

	_, err = NewEngine(context.Background(), nil, nil)
	if !core.IsEmptyCatalog(err) {
		t.Fatalf("empty content: err = %v, want EMPTY_CATALOG", err)
	}
}

func TestEngineZeroNormRow(t *testing.T) {
	ids := []string{"a", "zero"}
	content := [][]float64{
		{1, 0},
		{0, 0},
	}
	e, err := NewEngine(context.Background(), ids, content)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	sim := e.Matrix()
	for j, v := range sim[1] {
		if v != 0 {
			t.Errorf("zero-norm row: sim[1][%d] = %v, want 0", j, v)
		}
	}
}
