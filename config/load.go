package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "EXAMSCAN"

// Load reads configuration from path and the environment. Environment
// variables take precedence over the file. With an empty path a file
// named examscan.{yaml,json,toml} in the working directory is used when
// present, and defaults otherwise.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("examscan")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and that both region patterns compile.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for key, pattern := range map[string]string{
		"regions.number_pattern": c.Regions.NumberPattern,
		"regions.option_pattern": c.Regions.OptionPattern,
	} {
		if pattern == "" {
			continue
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid configuration: %s: %w", key, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper, d *Config) {
	s := d.Scoring
	v.SetDefault("scoring.num_text_blocks", s.NumTextBlocks)
	v.SetDefault("scoring.num_lines", s.NumLines)
	v.SetDefault("scoring.avg_line_length", s.AvgLineLength)
	v.SetDefault("scoring.short_line_ratio", s.ShortLineRatio)
	v.SetDefault("scoring.option_marker_count", s.OptionMarkerCount)
	v.SetDefault("scoring.vertical_alignment", s.VerticalAlignment)
	v.SetDefault("scoring.ocr_confidence", s.OCRConfidence)
	v.SetDefault("scoring.punctuation_ratio", s.PunctuationRatio)
	v.SetDefault("scoring.stem_keywords", s.StemKeywords)
	v.SetDefault("scoring.math_symbols", s.MathSymbols)
	v.SetDefault("scoring.top_half_long_lines", s.TopHalfLongLines)
	v.SetDefault("scoring.bottom_half_short_lines", s.BottomHalfShortLines)
	v.SetDefault("scoring.alternative_markers", s.AlternativeMarkers)
	v.SetDefault("scoring.separator_markers", s.SeparatorMarkers)
	v.SetDefault("scoring.option_left_alignment", s.OptionLeftAlignment)
	v.SetDefault("scoring.option_spacing", s.OptionSpacing)
	v.SetDefault("scoring.block_size_consistency", s.BlockSizeConsistency)
	v.SetDefault("scoring.question_option_separation", s.QuestionOptionSeparation)
	v.SetDefault("scoring.auto_threshold", s.AutoThreshold)
	v.SetDefault("scoring.confirm_threshold", s.ConfirmThreshold)

	g := d.Gates
	v.SetDefault("gates.core_markers", g.CoreMarkers)
	v.SetDefault("gates.core", g.Core)
	v.SetDefault("gates.layout", g.Layout)
	v.SetDefault("gates.strong_layout_score", g.StrongLayoutScore)
	v.SetDefault("gates.strong_layout_cluster", g.StrongLayoutCluster)
	v.SetDefault("gates.single_marker_raise", g.SingleMarkerRaise)
	v.SetDefault("gates.single_marker_keyword_confirm", g.SingleMarkerKeywordConfirm)
	v.SetDefault("gates.no_marker_auto", g.NoMarkerAuto)
	v.SetDefault("gates.no_marker_confirm", g.NoMarkerConfirm)
	v.SetDefault("gates.strong_layout_auto", g.StrongLayoutAuto)
	v.SetDefault("gates.strong_layout_confirm", g.StrongLayoutConfirm)

	r := d.Regions
	v.SetDefault("regions.number_pattern", r.NumberPattern)
	v.SetDefault("regions.option_pattern", r.OptionPattern)
	v.SetDefault("regions.height_ratio", r.HeightRatio)
	v.SetDefault("regions.min_height_ratio", r.MinHeightRatio)
	v.SetDefault("regions.left_region", r.LeftRegion)
	v.SetDefault("regions.top_margin", r.TopMargin)
	v.SetDefault("regions.next_number_margin", r.NextNumberMargin)
	v.SetDefault("regions.option_margin", r.OptionMargin)
	v.SetDefault("regions.min_span", r.MinSpan)
	v.SetDefault("regions.horizontal_margin", r.HorizontalMargin)
	v.SetDefault("regions.tighten_top", r.TightenTop)
	v.SetDefault("regions.tighten_bottom", r.TightenBottom)
	v.SetDefault("regions.fixup_horizontal", r.FixupHorizontal)
	v.SetDefault("regions.fixup_vertical", r.FixupVertical)
	v.SetDefault("regions.min_width", r.MinWidth)
	v.SetDefault("regions.min_height", r.MinHeight)
	v.SetDefault("regions.confidence", r.Confidence)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("workers", d.Workers)
}
