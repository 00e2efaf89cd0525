package scoring

import (
	"fmt"

	"github.com/tsawler/examscan/features"
	"github.com/tsawler/examscan/internal/stats"
)

// Result is the outcome of scoring one feature set.
type Result struct {
	// Score is the weighted sum clamped to [0,100]
	Score    float64  `json:"score"`
	Decision Decision `json:"decision"`

	// Gate is the multiplier applied to the gated features
	Gate float64 `json:"gate"`

	// Reasons lists the features that contributed, in evaluation order.
	// They are diagnostic only.
	Reasons []string `json:"reasons"`
}

// Config combines weights and regime constants.
type Config struct {
	Weights Weights
	Gates   Gates
}

// DefaultConfig returns the default weights and gates.
func DefaultConfig() Config {
	return Config{
		Weights: DefaultWeights(),
		Gates:   DefaultGates(),
	}
}

// Calculator is a gated linear scorer. It holds only configuration and is
// safe for concurrent use.
type Calculator struct {
	config Config
}

// NewCalculator creates a calculator with default configuration.
func NewCalculator() *Calculator {
	return NewCalculatorWithConfig(DefaultConfig())
}

// NewCalculatorWithConfig creates a calculator with custom configuration.
func NewCalculatorWithConfig(config Config) *Calculator {
	return &Calculator{config: config}
}

// Weights returns the calculator's weights
func (c *Calculator) Weights() Weights {
	return c.config.Weights
}

// Gates returns the calculator's regime constants
func (c *Calculator) Gates() Gates {
	return c.config.Gates
}

// HasCore reports whether the feature set carries the core signal
func (c *Calculator) HasCore(f features.Features) bool {
	return f.OptionMarkerCount >= c.config.Gates.CoreMarkers
}

// StrongLayout reports whether the option layout alone looks like a
// question: a large short-line cluster or any layout score above the bar.
func (c *Calculator) StrongLayout(f features.Features) bool {
	g := c.config.Gates
	return f.ShortLineClusterSize >= g.StrongLayoutCluster ||
		f.OptionLeftAlignment > g.StrongLayoutScore ||
		f.OptionSpacingConsistency > g.StrongLayoutScore ||
		f.BlockSizeConsistency > g.StrongLayoutScore ||
		f.QuestionOptionSeparation > g.StrongLayoutScore
}

// Gate returns the multiplier for the gated features
func (c *Calculator) Gate(f features.Features) float64 {
	switch {
	case c.HasCore(f):
		return c.config.Gates.Core
	case c.StrongLayout(f):
		return c.config.Gates.Layout
	default:
		return 0
	}
}

// Score computes the weighted score and the decision.
func (c *Calculator) Score(f features.Features) Result {
	return c.score(f, false)
}

// ScoreOpen scores as though the core signal held while still counting
// only the markers actually found. The decision keeps using the real
// marker count. It is used when an independent signal already vouches for
// the page.
func (c *Calculator) ScoreOpen(f features.Features) Result {
	return c.score(f, true)
}

// scorer accumulates contributions and reasons
type scorer struct {
	total   float64
	reasons []string
}

func (s *scorer) add(bucket, weight, gate float64, reason string) {
	contribution := bucket * weight * gate
	s.total += contribution
	if contribution > 0 && reason != "" {
		s.reasons = append(s.reasons, reason)
	}
}

func (c *Calculator) score(f features.Features, open bool) Result {
	w := c.config.Weights
	core := c.HasCore(f) || open

	gate := c.Gate(f)
	if open {
		gate = c.config.Gates.Core
	}
	coreOnly := 0.0
	if core {
		coreOnly = 1
	}
	anyMarker := 0.0
	if f.OptionMarkerCount > 0 || open {
		anyMarker = 1
	}

	s := &scorer{}
	s.add(intRange(f.NumTextBlocks, 3, 10, 2, 15), w.NumTextBlocks, gate,
		fmt.Sprintf("block count in range (%d)", f.NumTextBlocks))
	s.add(intRange(f.NumLines, 5, 30, 3, 50), w.NumLines, gate,
		fmt.Sprintf("line count in range (%d)", f.NumLines))
	s.add(floatRange(f.AvgLineLength, 10, 50, 5, 80), w.AvgLineLength, gate,
		fmt.Sprintf("average line length in range (%.1f)", f.AvgLineLength))
	s.add(floatRange(f.ShortLineRatio, 0.2, 0.6, 0.1, 0.8), w.ShortLineRatio, coreOnly,
		fmt.Sprintf("short line ratio in range (%.0f%%)", f.ShortLineRatio*100))
	s.add(markerBucket(f.OptionMarkerCount), w.OptionMarkerCount, 1,
		fmt.Sprintf("%d option markers", f.OptionMarkerCount))
	s.add(f.VerticalAlignmentScore*100, w.VerticalAlignment, anyMarker,
		reasonAbove(f.VerticalAlignmentScore, 0.5, "lines aligned"))
	s.add(f.OCRConfidence*100, w.OCRConfidence, gate,
		reasonAbove(f.OCRConfidence, 0.7, "recognition confidence high"))
	s.add(punctuationBucket(f.PunctuationRatio), w.PunctuationRatio, gate,
		"punctuation ratio low")
	s.add(flag(f.HasStemSignal(), 100), w.StemKeywords, coreOnly,
		"stem keywords present")
	s.add(flag(f.HasMathSymbols, 50), w.MathSymbols, gate,
		"math symbols present")
	s.add(topHalfBucket(f.TopHalfLongLineRatio), w.TopHalfLongLines, coreOnly,
		"long stem lines in top half")
	s.add(bottomHalfBucket(f.BottomHalfShortLines), w.BottomHalfShortLines, coreOnly,
		fmt.Sprintf("%d short lines in bottom half", f.BottomHalfShortLines))
	s.add(flag(f.HasAlternativeMarkers, 50), w.AlternativeMarkers, coreOnly,
		"alternative markers present")
	s.add(flag(f.HasSeparatorMarkers, 30), w.SeparatorMarkers, coreOnly,
		"separator markers present")

	s.add(f.OptionLeftAlignment*100, w.OptionLeftAlignment, gate,
		reasonAbove(f.OptionLeftAlignment, 0.5, "options left aligned"))
	s.add(f.OptionSpacingConsistency*80, w.OptionSpacing, gate,
		reasonAbove(f.OptionSpacingConsistency, 0.5, "options evenly spaced"))
	s.add(f.BlockSizeConsistency*60, w.BlockSizeConsistency, gate,
		reasonAbove(f.BlockSizeConsistency, 0.5, "block sizes consistent"))
	s.add(f.QuestionOptionSeparation*100, w.QuestionOptionSeparation, gate,
		reasonAbove(f.QuestionOptionSeparation, 0.5, "stem and options separated"))

	score := stats.Clamp(s.total, 0, 100)
	return Result{
		Score:    score,
		Decision: c.Decide(score, f),
		Gate:     gate,
		Reasons:  s.reasons,
	}
}

// Decide applies the regime for the feature set's marker count to a
// score. With the core signal the configured thresholds apply; a single
// marker raises both; no marker at all needs a very high score unless the
// layout is strong.
func (c *Calculator) Decide(score float64, f features.Features) Decision {
	w, g := c.config.Weights, c.config.Gates
	switch {
	case c.HasCore(f):
		return threshold(score, w.AutoThreshold, w.ConfirmThreshold)
	case f.OptionMarkerCount == 1:
		d := threshold(score, w.AutoThreshold+g.SingleMarkerRaise, w.ConfirmThreshold+g.SingleMarkerRaise)
		if d == DecisionIgnore && f.HasStemSignal() && score >= g.SingleMarkerKeywordConfirm {
			d = DecisionConfirm
		}
		return d
	case c.StrongLayout(f):
		return threshold(score, g.StrongLayoutAuto, g.StrongLayoutConfirm)
	default:
		return threshold(score, g.NoMarkerAuto, g.NoMarkerConfirm)
	}
}

func threshold(score, auto, confirm float64) Decision {
	switch {
	case score >= auto:
		return DecisionAutoAdd
	case score >= confirm:
		return DecisionConfirm
	default:
		return DecisionIgnore
	}
}

// intRange awards full credit inside the ideal range, half inside the
// acceptable range and nothing beyond. Bounds are inclusive.
func intRange(v, idealLo, idealHi, okLo, okHi int) float64 {
	switch {
	case v >= idealLo && v <= idealHi:
		return 100
	case v >= okLo && v <= okHi:
		return 50
	default:
		return 0
	}
}

func floatRange(v, idealLo, idealHi, okLo, okHi float64) float64 {
	switch {
	case v >= idealLo && v <= idealHi:
		return 100
	case v >= okLo && v <= okHi:
		return 50
	default:
		return 0
	}
}

func markerBucket(n int) float64 {
	switch {
	case n >= 4:
		return 100
	case n == 3:
		return 80
	case n == 2:
		return 60
	case n == 1:
		return 30
	default:
		return 0
	}
}

func punctuationBucket(ratio float64) float64 {
	switch {
	case ratio < 0.1:
		return 100
	case ratio < 0.2:
		return 50
	default:
		return 0
	}
}

func topHalfBucket(ratio float64) float64 {
	switch {
	case ratio > 0.5:
		return 100
	case ratio > 0.3:
		return 50
	default:
		return 0
	}
}

func bottomHalfBucket(n int) float64 {
	switch {
	case n >= 3:
		return 100
	case n >= 2:
		return 50
	default:
		return 0
	}
}

func flag(b bool, value float64) float64 {
	if b {
		return value
	}
	return 0
}

func reasonAbove(v, floor float64, label string) string {
	if v <= floor {
		return ""
	}
	return fmt.Sprintf("%s (%.0f%%)", label, v*100)
}
