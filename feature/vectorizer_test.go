package feature

import (
	"math"
	"testing"

	"github.com/bookwise/bookrec/core"
)

func testFeatureConfig() core.FeatureConfig {
	cfg := core.DefaultFeatureConfig()
	return cfg
}

func TestTFIDFVectorizerVocabularyPruning(t *testing.T) {
	// 4 篇文档：
	// - "dragons" 出现在 3 篇（df=3 <= 0.8*4=3.2，保留）
	// - "magic" 出现在 2 篇（df=2 >= min_df，保留）
	// - "castle" 只出现 1 篇（df=1 < min_df=2，剔除）
	// - "common" 出现在全部 4 篇（df=4 > 3.2，剔除）
	docs := []string{
		"dragons magic common",
		"dragons magic common",
		"dragons castle common",
		"nothing common",
	}

	v := NewTFIDFVectorizer(testFeatureConfig())
	v.FitTransform(docs)

	vocab := make(map[string]bool)
	for _, term := range v.Vocabulary() {
		vocab[term] = true
	}

	for _, want := range []string{"dragons", "magic", "dragons magic"} {
		if !vocab[want] {
			t.Errorf("vocabulary missing %q, got %v", want, v.Vocabulary())
		}
	}
	for _, banned := range []string{"castle", "common", "nothing"} {
		if vocab[banned] {
			t.Errorf("vocabulary should not contain %q", banned)
		}
	}
}

func TestTFIDFVectorizerStopWordsRemoved(t *testing.T) {
	docs := []string{
		"the dragons and the magic",
		"the dragons or the magic",
	}

	v := NewTFIDFVectorizer(testFeatureConfig())
	v.FitTransform(docs)

	for _, term := range v.Vocabulary() {
		if term == "the" || term == "and" || term == "or" {
			t.Errorf("stop word %q survived in vocabulary", term)
		}
	}
	// bigram 在停用词剔除后生成："dragons magic" 而不是 "dragons and"
	found := false
	for _, term := range v.Vocabulary() {
		if term == "dragons magic" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected bigram \"dragons magic\" in vocabulary, got %v", v.Vocabulary())
	}
}

func TestTFIDFVectorizerRowsL2Normalized(t *testing.T) {
	docs := []string{
		"dragons magic kingdom",
		"dragons magic castle",
		"space robots lasers",
	}

	v := NewTFIDFVectorizer(testFeatureConfig())
	rows := v.FitTransform(docs)

	for i, row := range rows {
		var norm float64
		for _, x := range row {
			norm += x * x
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			continue // 文档所有词项都被剔除时为零向量
		}
		if math.Abs(norm-1) > 1e-9 {
			t.Errorf("row %d: L2 norm = %v, want 1", i, norm)
		}
	}
}

func TestTFIDFVectorizerDeterministic(t *testing.T) {
	docs := []string{
		"dragons magic kingdom war",
		"dragons magic castle war",
		"space robots dragons war",
	}

	v1 := NewTFIDFVectorizer(testFeatureConfig())
	v2 := NewTFIDFVectorizer(testFeatureConfig())
	rows1 := v1.FitTransform(docs)
	rows2 := v2.FitTransform(docs)

	if len(rows1) != len(rows2) {
		t.Fatalf("row count mismatch: %d vs %d", len(rows1), len(rows2))
	}
	for i := range rows1 {
		if len(rows1[i]) != len(rows2[i]) {
			t.Fatalf("row %d width mismatch", i)
		}
		for j := range rows1[i] {
			if rows1[i][j] != rows2[i][j] {
				t.Fatalf("rows differ at [%d][%d]: %v vs %v", i, j, rows1[i][j], rows2[i][j])
			}
		}
	}
}

func TestTFIDFVectorizerMaxFeatures(t *testing.T) {
	cfg := testFeatureConfig()
	cfg.MaxFeatures = 2
	cfg.MinDocFreq = 1
	cfg.MaxDocRatio = 1.0

	docs := []string{
		"aa bb",
		"aa bb",
		"aa",
		"bb",
	}

	v := NewTFIDFVectorizer(cfg)
	v.FitTransform(docs)

	if got := v.VocabularySize(); got != 2 {
		t.Fatalf("VocabularySize() = %d, want 2", got)
	}
	// 按语料总词频取 TopN：aa(3) 与 bb(3) 入选，bigram "aa bb"(2) 落选
	vocab := v.Vocabulary()
	if vocab[0] != "aa" || vocab[1] != "bb" {
		t.Errorf("vocabulary = %v, want [aa bb]", vocab)
	}
}

func TestTFIDFVectorizerTransformBeforeFit(t *testing.T) {
	v := NewTFIDFVectorizer(testFeatureConfig())
	_, err := v.Transform([]string{"anything"})
	if !core.IsStaleState(err) {
		t.Fatalf("Transform() before fit: err = %v, want STALE_STATE", err)
	}
}
