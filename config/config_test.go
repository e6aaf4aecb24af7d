package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadFromYAMLDefaults(t *testing.T) {
	path := writeTemp(t, "empty.yaml", "recommender: {}\n")

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML() error = %v", err)
	}

	f := cfg.FeatureConfig()
	if f.MaxFeatures != 5000 || f.MinDocFreq != 2 || f.MaxDocRatio != 0.8 {
		t.Errorf("feature defaults = %+v", f)
	}
	if f.TextWeight != 0.8 || f.NumericWeight != 0.2 {
		t.Errorf("fusion weight defaults = %v/%v", f.TextWeight, f.NumericWeight)
	}

	s := cfg.ScoringConfig()
	if s.GenreFactor != 0.4 || s.MinScore != 0.1 || s.FallbackScore != 0.8 {
		t.Errorf("scoring defaults = %+v", s)
	}
	if cfg.FilterExpr() != "" {
		t.Errorf("filter expr = %q, want empty", cfg.FilterExpr())
	}
}

func TestLoadFromYAMLOverrides(t *testing.T) {
	path := writeTemp(t, "cfg.yaml", `
recommender:
  feature:
    max_features: 1000
    min_doc_freq: 1
    text_weight: 0.7
    numeric_weight: 0.3
  scoring:
    genre_factor: 0.5
    min_score: 0.2
  filter: 'book.language == "en"'
`)

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML() error = %v", err)
	}

	f := cfg.FeatureConfig()
	if f.MaxFeatures != 1000 || f.MinDocFreq != 1 {
		t.Errorf("feature overrides = %+v", f)
	}
	if f.TextWeight != 0.7 || f.NumericWeight != 0.3 {
		t.Errorf("fusion weights = %v/%v", f.TextWeight, f.NumericWeight)
	}
	// 未覆盖字段保持默认
	if f.MaxDocRatio != 0.8 {
		t.Errorf("max_doc_ratio = %v, want default 0.8", f.MaxDocRatio)
	}

	s := cfg.ScoringConfig()
	if s.GenreFactor != 0.5 || s.MinScore != 0.2 {
		t.Errorf("scoring overrides = %+v", s)
	}
	if s.AuthorFactor != 0.2 {
		t.Errorf("author_factor = %v, want default 0.2", s.AuthorFactor)
	}
	if cfg.FilterExpr() != `book.language == "en"` {
		t.Errorf("filter expr = %q", cfg.FilterExpr())
	}
}

func TestLoadFromYAMLZeroIsNotUnset(t *testing.T) {
	path := writeTemp(t, "zero.yaml", `
recommender:
  scoring:
    popularity_factor: 0
    explain_tag_limit: 0
`)

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML() error = %v", err)
	}
	s := cfg.ScoringConfig()
	if s.PopularityFactor != 0 {
		t.Errorf("popularity_factor = %v, want explicit 0", s.PopularityFactor)
	}
	if s.ExplainTagLimit != 0 {
		t.Errorf("explain_tag_limit = %v, want explicit 0", s.ExplainTagLimit)
	}
}

func TestLoadFromJSON(t *testing.T) {
	path := writeTemp(t, "cfg.json", `{
  "recommender": {
    "feature": {"max_features": 200},
    "scoring": {"fallback_score": 0.5}
  }
}`)

	cfg, err := LoadFromJSON(path)
	if err != nil {
		t.Fatalf("LoadFromJSON() error = %v", err)
	}
	if got := cfg.FeatureConfig().MaxFeatures; got != 200 {
		t.Errorf("max_features = %d, want 200", got)
	}
	if got := cfg.ScoringConfig().FallbackScore; got != 0.5 {
		t.Errorf("fallback_score = %v, want 0.5", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "negative max features",
			yaml:    "recommender:\n  feature:\n    max_features: -1\n",
			wantErr: "max_features",
		},
		{
			name:    "zero min doc freq",
			yaml:    "recommender:\n  feature:\n    min_doc_freq: 0\n",
			wantErr: "min_doc_freq",
		},
		{
			name:    "doc ratio above one",
			yaml:    "recommender:\n  feature:\n    max_doc_ratio: 1.5\n",
			wantErr: "max_doc_ratio",
		},
		{
			name:    "negative min score",
			yaml:    "recommender:\n  scoring:\n    min_score: -0.1\n",
			wantErr: "min_score",
		},
		{
			name:    "signal rating out of range",
			yaml:    "recommender:\n  scoring:\n    signal_rating: 6\n",
			wantErr: "signal_rating",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "bad.yaml", tt.yaml)
			_, err := LoadFromYAML(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("LoadFromYAML() err = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromYAMLMissingFile(t *testing.T) {
	_, err := LoadFromYAML(filepath.Join(t.TempDir(), "no-such.yaml"))
	if err == nil {
		t.Fatal("LoadFromYAML() on missing file should fail")
	}
}

func TestLoadFromYAMLMalformed(t *testing.T) {
	path := writeTemp(t, "bad.yaml", "recommender: [not a map\n")
	_, err := LoadFromYAML(path)
	if err == nil {
		t.Fatal("LoadFromYAML() on malformed yaml should fail")
	}
}
