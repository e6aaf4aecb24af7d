package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bookwise/bookrec/core"
)

// Config 是推荐器的配置结构（支持 YAML/JSON）。
//
// 所有字段可省略，省略的字段落到领域默认值
// （core.DefaultFeatureConfig / core.DefaultScoringConfig）。
//
// 示例：
//
//	recommender:
//	  feature:
//	    max_features: 5000
//	    text_weight: 0.8
//	    numeric_weight: 0.2
//	  scoring:
//	    genre_factor: 0.4
//	    min_score: 0.1
//	  filter: 'book.language == "en"'
type Config struct {
	Recommender struct {
		Feature FeatureSection `yaml:"feature" json:"feature"`
		Scoring ScoringSection `yaml:"scoring" json:"scoring"`

		// Filter 是可选的 CEL 候选过滤表达式（见 pkg/dsl）
		Filter string `yaml:"filter" json:"filter"`
	} `yaml:"recommender" json:"recommender"`
}

// FeatureSection 对应 core.FeatureConfig，指针字段区分"未配置"与"配置为 0"。
type FeatureSection struct {
	MaxFeatures  *int     `yaml:"max_features" json:"max_features"`
	MinDocFreq   *int     `yaml:"min_doc_freq" json:"min_doc_freq"`
	MaxDocRatio  *float64 `yaml:"max_doc_ratio" json:"max_doc_ratio"`
	DefaultPages *float64 `yaml:"default_pages" json:"default_pages"`

	TextWeight    *float64 `yaml:"text_weight" json:"text_weight"`
	NumericWeight *float64 `yaml:"numeric_weight" json:"numeric_weight"`
}

// ScoringSection 对应 core.ScoringConfig。
type ScoringSection struct {
	GenreFactor  *float64 `yaml:"genre_factor" json:"genre_factor"`
	AuthorFactor *float64 `yaml:"author_factor" json:"author_factor"`
	TagFactor    *float64 `yaml:"tag_factor" json:"tag_factor"`

	QualityBonus        *float64 `yaml:"quality_bonus" json:"quality_bonus"`
	QualityRatingMin    *float64 `yaml:"quality_rating_min" json:"quality_rating_min"`
	ConfidenceBonus     *float64 `yaml:"confidence_bonus" json:"confidence_bonus"`
	ConfidenceReviewMin *int     `yaml:"confidence_review_min" json:"confidence_review_min"`
	PopularityFactor    *float64 `yaml:"popularity_factor" json:"popularity_factor"`

	MinScore        *float64 `yaml:"min_score" json:"min_score"`
	SignalRating    *float64 `yaml:"signal_rating" json:"signal_rating"`
	HighlyRatedMin  *float64 `yaml:"highly_rated_min" json:"highly_rated_min"`
	FallbackScore   *float64 `yaml:"fallback_score" json:"fallback_score"`
	ExplainTagLimit *int     `yaml:"explain_tag_limit" json:"explain_tag_limit"`
}

// LoadFromYAML 从 YAML 文件加载配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromJSON 从 JSON 文件加载配置。
func LoadFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 做基础合法性校验。
// 文本/数值权重之和应为 1.0，但只做范围校验不做严校验
// （偏离 1.0 不破坏正确性，只破坏分数在配置间的可比性）。
func (c *Config) Validate() error {
	f := c.Recommender.Feature
	if f.MaxFeatures != nil && *f.MaxFeatures <= 0 {
		return fmt.Errorf("feature.max_features must be positive")
	}
	if f.MinDocFreq != nil && *f.MinDocFreq < 1 {
		return fmt.Errorf("feature.min_doc_freq must be >= 1")
	}
	if f.MaxDocRatio != nil && (*f.MaxDocRatio <= 0 || *f.MaxDocRatio > 1) {
		return fmt.Errorf("feature.max_doc_ratio must be in (0, 1]")
	}
	if f.TextWeight != nil && *f.TextWeight < 0 {
		return fmt.Errorf("feature.text_weight must be non-negative")
	}
	if f.NumericWeight != nil && *f.NumericWeight < 0 {
		return fmt.Errorf("feature.numeric_weight must be non-negative")
	}

	s := c.Recommender.Scoring
	if s.MinScore != nil && *s.MinScore < 0 {
		return fmt.Errorf("scoring.min_score must be non-negative")
	}
	if s.SignalRating != nil && (*s.SignalRating < 1 || *s.SignalRating > 5) {
		return fmt.Errorf("scoring.signal_rating must be in [1, 5]")
	}
	if s.ExplainTagLimit != nil && *s.ExplainTagLimit < 0 {
		return fmt.Errorf("scoring.explain_tag_limit must be non-negative")
	}
	return nil
}

// FeatureConfig 把配置段展开成 core.FeatureConfig，未配置字段取默认值。
func (c *Config) FeatureConfig() core.FeatureConfig {
	out := core.DefaultFeatureConfig()
	f := c.Recommender.Feature

	setInt(&out.MaxFeatures, f.MaxFeatures)
	setInt(&out.MinDocFreq, f.MinDocFreq)
	setFloat(&out.MaxDocRatio, f.MaxDocRatio)
	setFloat(&out.DefaultPages, f.DefaultPages)
	setFloat(&out.TextWeight, f.TextWeight)
	setFloat(&out.NumericWeight, f.NumericWeight)
	return out
}

// ScoringConfig 把配置段展开成 core.ScoringConfig，未配置字段取默认值。
func (c *Config) ScoringConfig() core.ScoringConfig {
	out := core.DefaultScoringConfig()
	s := c.Recommender.Scoring

	setFloat(&out.GenreFactor, s.GenreFactor)
	setFloat(&out.AuthorFactor, s.AuthorFactor)
	setFloat(&out.TagFactor, s.TagFactor)
	setFloat(&out.QualityBonus, s.QualityBonus)
	setFloat(&out.QualityRatingMin, s.QualityRatingMin)
	setFloat(&out.ConfidenceBonus, s.ConfidenceBonus)
	setInt(&out.ConfidenceReviewMin, s.ConfidenceReviewMin)
	setFloat(&out.PopularityFactor, s.PopularityFactor)
	setFloat(&out.MinScore, s.MinScore)
	setFloat(&out.SignalRating, s.SignalRating)
	setFloat(&out.HighlyRatedMin, s.HighlyRatedMin)
	setFloat(&out.FallbackScore, s.FallbackScore)
	setInt(&out.ExplainTagLimit, s.ExplainTagLimit)
	return out
}

// FilterExpr 返回可选的候选过滤表达式（可能为空串）。
func (c *Config) FilterExpr() string {
	return c.Recommender.Filter
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
