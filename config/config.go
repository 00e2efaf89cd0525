// Package config loads examscan settings from a file and the environment.
//
// Settings are read with viper from YAML, JSON or TOML. Every key can be
// overridden by an environment variable with the EXAMSCAN_ prefix, dots
// replaced by underscores: EXAMSCAN_SCORING_AUTO_THRESHOLD overrides
// scoring.auto_threshold. Loaded values are checked with validator struct
// tags before they are converted to the core packages' types.
package config

import (
	"fmt"
	"regexp"

	"github.com/tsawler/examscan/detector"
	"github.com/tsawler/examscan/regions"
	"github.com/tsawler/examscan/scoring"
)

// Config holds all application configuration.
type Config struct {
	Scoring ScoringConfig `mapstructure:"scoring"`
	Gates   GatesConfig   `mapstructure:"gates"`
	Regions RegionsConfig `mapstructure:"regions"`
	Log     LogConfig     `mapstructure:"log"`

	// Workers bounds how many pages are processed at once
	Workers int `mapstructure:"workers" validate:"gte=1,lte=256"`
}

// ScoringConfig mirrors scoring.Weights.
type ScoringConfig struct {
	NumTextBlocks        float64 `mapstructure:"num_text_blocks" validate:"gte=0"`
	NumLines             float64 `mapstructure:"num_lines" validate:"gte=0"`
	AvgLineLength        float64 `mapstructure:"avg_line_length" validate:"gte=0"`
	ShortLineRatio       float64 `mapstructure:"short_line_ratio" validate:"gte=0"`
	OptionMarkerCount    float64 `mapstructure:"option_marker_count" validate:"gte=0"`
	VerticalAlignment    float64 `mapstructure:"vertical_alignment" validate:"gte=0"`
	OCRConfidence        float64 `mapstructure:"ocr_confidence" validate:"gte=0"`
	PunctuationRatio     float64 `mapstructure:"punctuation_ratio" validate:"gte=0"`
	StemKeywords         float64 `mapstructure:"stem_keywords" validate:"gte=0"`
	MathSymbols          float64 `mapstructure:"math_symbols" validate:"gte=0"`
	TopHalfLongLines     float64 `mapstructure:"top_half_long_lines" validate:"gte=0"`
	BottomHalfShortLines float64 `mapstructure:"bottom_half_short_lines" validate:"gte=0"`
	AlternativeMarkers   float64 `mapstructure:"alternative_markers" validate:"gte=0"`
	SeparatorMarkers     float64 `mapstructure:"separator_markers" validate:"gte=0"`

	OptionLeftAlignment      float64 `mapstructure:"option_left_alignment" validate:"gte=0"`
	OptionSpacing            float64 `mapstructure:"option_spacing" validate:"gte=0"`
	BlockSizeConsistency     float64 `mapstructure:"block_size_consistency" validate:"gte=0"`
	QuestionOptionSeparation float64 `mapstructure:"question_option_separation" validate:"gte=0"`

	AutoThreshold    float64 `mapstructure:"auto_threshold" validate:"gte=0,lte=100"`
	ConfirmThreshold float64 `mapstructure:"confirm_threshold" validate:"gte=0,lte=100,ltefield=AutoThreshold"`
}

// GatesConfig mirrors scoring.Gates.
type GatesConfig struct {
	CoreMarkers int     `mapstructure:"core_markers" validate:"gte=1,lte=4"`
	Core        float64 `mapstructure:"core" validate:"gte=0,lte=1"`
	Layout      float64 `mapstructure:"layout" validate:"gte=0,lte=1"`

	StrongLayoutScore   float64 `mapstructure:"strong_layout_score" validate:"gte=0,lte=1"`
	StrongLayoutCluster int     `mapstructure:"strong_layout_cluster" validate:"gte=1"`

	SingleMarkerRaise          float64 `mapstructure:"single_marker_raise" validate:"gte=0,lte=100"`
	SingleMarkerKeywordConfirm float64 `mapstructure:"single_marker_keyword_confirm" validate:"gte=0,lte=100"`

	NoMarkerAuto    float64 `mapstructure:"no_marker_auto" validate:"gte=0,lte=100"`
	NoMarkerConfirm float64 `mapstructure:"no_marker_confirm" validate:"gte=0,lte=100,ltefield=NoMarkerAuto"`

	StrongLayoutAuto    float64 `mapstructure:"strong_layout_auto" validate:"gte=0,lte=100"`
	StrongLayoutConfirm float64 `mapstructure:"strong_layout_confirm" validate:"gte=0,lte=100,ltefield=StrongLayoutAuto"`
}

// RegionsConfig mirrors regions.Config. Empty patterns select the
// built-in ones.
type RegionsConfig struct {
	NumberPattern string `mapstructure:"number_pattern"`
	OptionPattern string `mapstructure:"option_pattern"`

	HeightRatio    float64 `mapstructure:"height_ratio" validate:"gte=0,lte=1"`
	MinHeightRatio float64 `mapstructure:"min_height_ratio" validate:"gte=0,lte=1,ltefield=HeightRatio"`
	LeftRegion     float64 `mapstructure:"left_region" validate:"gt=0,lte=1"`

	TopMargin        float64 `mapstructure:"top_margin" validate:"gte=0"`
	NextNumberMargin float64 `mapstructure:"next_number_margin" validate:"gte=0"`
	OptionMargin     float64 `mapstructure:"option_margin" validate:"gte=0"`
	MinSpan          float64 `mapstructure:"min_span" validate:"gte=0"`

	HorizontalMargin float64 `mapstructure:"horizontal_margin" validate:"gte=0"`
	TightenTop       float64 `mapstructure:"tighten_top" validate:"gte=0"`
	TightenBottom    float64 `mapstructure:"tighten_bottom" validate:"gte=0"`
	FixupHorizontal  float64 `mapstructure:"fixup_horizontal" validate:"gte=0"`
	FixupVertical    float64 `mapstructure:"fixup_vertical" validate:"gte=0"`

	MinWidth   float64 `mapstructure:"min_width" validate:"gte=0"`
	MinHeight  float64 `mapstructure:"min_height" validate:"gte=0"`
	Confidence float64 `mapstructure:"confidence" validate:"gte=0,lte=1"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	w := scoring.DefaultWeights()
	g := scoring.DefaultGates()
	r := regions.DefaultConfig()
	return &Config{
		Scoring: ScoringConfig{
			NumTextBlocks:            w.NumTextBlocks,
			NumLines:                 w.NumLines,
			AvgLineLength:            w.AvgLineLength,
			ShortLineRatio:           w.ShortLineRatio,
			OptionMarkerCount:        w.OptionMarkerCount,
			VerticalAlignment:        w.VerticalAlignment,
			OCRConfidence:            w.OCRConfidence,
			PunctuationRatio:         w.PunctuationRatio,
			StemKeywords:             w.StemKeywords,
			MathSymbols:              w.MathSymbols,
			TopHalfLongLines:         w.TopHalfLongLines,
			BottomHalfShortLines:     w.BottomHalfShortLines,
			AlternativeMarkers:       w.AlternativeMarkers,
			SeparatorMarkers:         w.SeparatorMarkers,
			OptionLeftAlignment:      w.OptionLeftAlignment,
			OptionSpacing:            w.OptionSpacing,
			BlockSizeConsistency:     w.BlockSizeConsistency,
			QuestionOptionSeparation: w.QuestionOptionSeparation,
			AutoThreshold:            w.AutoThreshold,
			ConfirmThreshold:         w.ConfirmThreshold,
		},
		Gates: GatesConfig{
			CoreMarkers:                g.CoreMarkers,
			Core:                       g.Core,
			Layout:                     g.Layout,
			StrongLayoutScore:          g.StrongLayoutScore,
			StrongLayoutCluster:        g.StrongLayoutCluster,
			SingleMarkerRaise:          g.SingleMarkerRaise,
			SingleMarkerKeywordConfirm: g.SingleMarkerKeywordConfirm,
			NoMarkerAuto:               g.NoMarkerAuto,
			NoMarkerConfirm:            g.NoMarkerConfirm,
			StrongLayoutAuto:           g.StrongLayoutAuto,
			StrongLayoutConfirm:        g.StrongLayoutConfirm,
		},
		Regions: RegionsConfig{
			HeightRatio:      r.HeightRatio,
			MinHeightRatio:   r.MinHeightRatio,
			LeftRegion:       r.LeftRegion,
			TopMargin:        r.TopMargin,
			NextNumberMargin: r.NextNumberMargin,
			OptionMargin:     r.OptionMargin,
			MinSpan:          r.MinSpan,
			HorizontalMargin: r.HorizontalMargin,
			TightenTop:       r.TightenTop,
			TightenBottom:    r.TightenBottom,
			FixupHorizontal:  r.FixupHorizontal,
			FixupVertical:    r.FixupVertical,
			MinWidth:         r.MinWidth,
			MinHeight:        r.MinHeight,
			Confidence:       r.Confidence,
		},
		Log:     LogConfig{Level: "info", Format: "text"},
		Workers: 4,
	}
}

// ScoringWeights converts the scoring section.
func (c *Config) ScoringWeights() scoring.Weights {
	s := c.Scoring
	return scoring.Weights{
		NumTextBlocks:            s.NumTextBlocks,
		NumLines:                 s.NumLines,
		AvgLineLength:            s.AvgLineLength,
		ShortLineRatio:           s.ShortLineRatio,
		OptionMarkerCount:        s.OptionMarkerCount,
		VerticalAlignment:        s.VerticalAlignment,
		OCRConfidence:            s.OCRConfidence,
		PunctuationRatio:         s.PunctuationRatio,
		StemKeywords:             s.StemKeywords,
		MathSymbols:              s.MathSymbols,
		TopHalfLongLines:         s.TopHalfLongLines,
		BottomHalfShortLines:     s.BottomHalfShortLines,
		AlternativeMarkers:       s.AlternativeMarkers,
		SeparatorMarkers:         s.SeparatorMarkers,
		OptionLeftAlignment:      s.OptionLeftAlignment,
		OptionSpacing:            s.OptionSpacing,
		BlockSizeConsistency:     s.BlockSizeConsistency,
		QuestionOptionSeparation: s.QuestionOptionSeparation,
		AutoThreshold:            s.AutoThreshold,
		ConfirmThreshold:         s.ConfirmThreshold,
	}
}

// GateConfig converts the gates section.
func (c *Config) GateConfig() scoring.Gates {
	g := c.Gates
	return scoring.Gates{
		CoreMarkers:                g.CoreMarkers,
		Core:                       g.Core,
		Layout:                     g.Layout,
		StrongLayoutScore:          g.StrongLayoutScore,
		StrongLayoutCluster:        g.StrongLayoutCluster,
		SingleMarkerRaise:          g.SingleMarkerRaise,
		SingleMarkerKeywordConfirm: g.SingleMarkerKeywordConfirm,
		NoMarkerAuto:               g.NoMarkerAuto,
		NoMarkerConfirm:            g.NoMarkerConfirm,
		StrongLayoutAuto:           g.StrongLayoutAuto,
		StrongLayoutConfirm:        g.StrongLayoutConfirm,
	}
}

// RegionConfig converts the regions section. It fails when a pattern does
// not compile.
func (c *Config) RegionConfig() (regions.Config, error) {
	r := c.Regions
	out := regions.DefaultConfig()
	if r.NumberPattern != "" {
		re, err := regexp.Compile(r.NumberPattern)
		if err != nil {
			return out, fmt.Errorf("regions.number_pattern: %w", err)
		}
		out.NumberPattern = re
	}
	if r.OptionPattern != "" {
		re, err := regexp.Compile(r.OptionPattern)
		if err != nil {
			return out, fmt.Errorf("regions.option_pattern: %w", err)
		}
		out.OptionPattern = re
	}

	out.HeightRatio = r.HeightRatio
	out.MinHeightRatio = r.MinHeightRatio
	out.LeftRegion = r.LeftRegion
	out.TopMargin = r.TopMargin
	out.NextNumberMargin = r.NextNumberMargin
	out.OptionMargin = r.OptionMargin
	out.MinSpan = r.MinSpan
	out.HorizontalMargin = r.HorizontalMargin
	out.TightenTop = r.TightenTop
	out.TightenBottom = r.TightenBottom
	out.FixupHorizontal = r.FixupHorizontal
	out.FixupVertical = r.FixupVertical
	out.MinWidth = r.MinWidth
	out.MinHeight = r.MinHeight
	out.Confidence = r.Confidence
	return out, nil
}

// DetectorConfig returns a detector configuration using the loaded
// weights and gates. The rule ladder's core marker count follows the
// gates so both agree on what the core signal is.
func (c *Config) DetectorConfig() detector.Config {
	cfg := detector.DefaultConfig()
	cfg.Scoring = scoring.Config{Weights: c.ScoringWeights(), Gates: c.GateConfig()}
	cfg.Thresholds.CoreMarkers = c.Gates.CoreMarkers
	return cfg
}
