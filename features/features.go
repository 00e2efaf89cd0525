package features

import (
	"github.com/tsawler/examscan/internal/stats"
	"github.com/tsawler/examscan/markers"
	"github.com/tsawler/examscan/model"
)

// Features is the fixed set of measurements taken from one page.
// All ratios and scores lie in [0,1].
type Features struct {
	NumTextBlocks  int     `json:"num_text_blocks"`
	NumLines       int     `json:"num_lines"`
	AvgLineLength  float64 `json:"avg_line_length"`
	ShortLineRatio float64 `json:"short_line_ratio"`

	OptionMarkerCount      int         `json:"option_marker_count"`
	Markers                markers.Set `json:"-"`
	VerticalAlignmentScore float64     `json:"vertical_alignment_score"`

	OCRConfidence    float64 `json:"ocr_confidence"`
	PunctuationRatio float64 `json:"punctuation_ratio"`

	HasStemKeywords   bool `json:"has_stem_keywords"`
	HasTypeLabel      bool `json:"has_type_label"`
	HasQuestionNumber bool `json:"has_question_number"`
	HasMathSymbols    bool `json:"has_math_symbols"`

	TopHalfLongLineRatio float64 `json:"top_half_long_line_ratio"`
	BottomHalfShortLines int     `json:"bottom_half_short_lines"`

	OptionLeftAlignment      float64 `json:"option_left_alignment"`
	OptionSpacingConsistency float64 `json:"option_spacing_consistency"`
	BlockSizeConsistency     float64 `json:"block_size_consistency"`
	QuestionOptionSeparation float64 `json:"question_option_separation"`

	ShortLineClusterSize      int     `json:"short_line_cluster_size"`
	ShortLineClusterAlignment float64 `json:"short_line_cluster_alignment"`
	ShortLineClusterSpacing   float64 `json:"short_line_cluster_spacing"`

	HasAlternativeMarkers bool `json:"has_alternative_markers"`
	HasSeparatorMarkers   bool `json:"has_separator_markers"`
}

// HasStemSignal reports whether any of the three stem signals fired
func (f Features) HasStemSignal() bool {
	return f.HasStemKeywords || f.HasTypeLabel || f.HasQuestionNumber
}

// Config holds the thresholds used during extraction.
type Config struct {
	ShortLineRunes    int     // lines shorter than this are short (default: 10)
	LongLineRunes     int     // top-half lines longer than this are long (default: 20)
	BottomShortRunes  int     // bottom-half lines shorter than this are short (default: 15)
	DefaultConfidence float64 // used when the recognizer reports none (default: 0.85)
	NumberScanLines   int     // lines searched for a question number (default: 15)

	AlignmentTolerance  float64 // global left-edge tolerance (default: 0.3)
	OptionLeftTolerance float64 // option left-edge tolerance (default: 0.1)
	OptionRowTolerance  float64 // option top-edge tolerance (default: 0.05)
	SpacingCVTolerance  float64 // option gap CV tolerance (default: 0.25)
	OptionBlockBonus    float64 // spacing bonus when option blocks are known (default: 0.1)
	HeightCVTolerance   float64 // block height CV tolerance (default: 0.3)
	SeparationBonus     float64 // separation bonus when option blocks are known (default: 0.15)

	ClusterMinSize          int     // default: 4
	ClusterXFraction        float64 // share of the cluster's mean x (default: 0.08)
	ClusterXFloor           float64 // minimum x tolerance in pixels (default: 30)
	ClusterMaxGap           float64 // gaps at or above this are ignored (default: 200)
	ClusterSpacingCV        float64 // default: 0.25
	ClusterLineRunes        int     // default: 20
	ClusterAlignTolerance   float64 // default: 0.15
	ClusterSpacingTolerance float64 // default: 0.3

	Markers markers.Config
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() Config {
	return Config{
		ShortLineRunes:          10,
		LongLineRunes:           20,
		BottomShortRunes:        15,
		DefaultConfidence:       0.85,
		NumberScanLines:         15,
		AlignmentTolerance:      0.3,
		OptionLeftTolerance:     0.1,
		OptionRowTolerance:      0.05,
		SpacingCVTolerance:      0.25,
		OptionBlockBonus:        0.1,
		HeightCVTolerance:       0.3,
		SeparationBonus:         0.15,
		ClusterMinSize:          4,
		ClusterXFraction:        0.08,
		ClusterXFloor:           30,
		ClusterMaxGap:           200,
		ClusterSpacingCV:        0.25,
		ClusterLineRunes:        20,
		ClusterAlignTolerance:   0.15,
		ClusterSpacingTolerance: 0.3,
		Markers:                 markers.DefaultConfig(),
	}
}

// Extractor computes Features. It holds only configuration and is safe
// for concurrent use.
type Extractor struct {
	config  Config
	matcher *markers.Matcher
}

// NewExtractor creates an extractor with default configuration.
func NewExtractor() *Extractor {
	return NewExtractorWithConfig(DefaultConfig())
}

// NewExtractorWithConfig creates an extractor with custom configuration.
func NewExtractorWithConfig(config Config) *Extractor {
	return &Extractor{
		config:  config,
		matcher: markers.NewMatcherWithConfig(config.Markers),
	}
}

// Matcher returns the marker matcher used by the extractor
func (e *Extractor) Matcher() *markers.Matcher {
	return e.matcher
}

// Extract computes the features of a page with the default configuration.
func Extract(page *model.RecognizedPage) Features {
	return NewExtractor().Extract(page)
}

// Extract computes the features of a page. The page is not modified.
func (e *Extractor) Extract(page *model.RecognizedPage) Features {
	text := page.Text
	lines := page.LineTexts()
	blocks := page.LayoutBlocks()
	set := e.matcher.ScanPage(page)

	f := Features{
		NumTextBlocks:     len(page.Blocks),
		NumLines:          len(lines),
		AvgLineLength:     avgLength(lines),
		ShortLineRatio:    e.shortLineRatio(lines),
		OptionMarkerCount: set.Count(),
		Markers:           set,
		OCRConfidence:     e.confidence(page),
		PunctuationRatio:  stats.Clamp01(PunctuationRatio(text)),
		HasStemKeywords:   HasStemKeywords(text),
		HasTypeLabel:      HasTypeLabel(text),
		HasQuestionNumber: HasQuestionNumber(text, e.config.NumberScanLines),
		HasMathSymbols:    HasMathSymbols(text),

		VerticalAlignmentScore:   e.verticalAlignment(blocks),
		TopHalfLongLineRatio:     e.topHalfLongLineRatio(blocks),
		BottomHalfShortLines:     e.bottomHalfShortLines(blocks),
		OptionLeftAlignment:      e.optionLeftAlignment(blocks),
		OptionSpacingConsistency: e.optionSpacingConsistency(blocks),
		BlockSizeConsistency:     e.blockSizeConsistency(blocks),
		QuestionOptionSeparation: e.questionOptionSeparation(blocks),

		ShortLineClusterSize:      e.shortLineClusterSize(blocks),
		ShortLineClusterAlignment: e.shortLineClusterAlignment(blocks),
		ShortLineClusterSpacing:   e.shortLineClusterSpacing(blocks),

		HasAlternativeMarkers: HasAlternativeMarkers(text),
		HasSeparatorMarkers:   HasSeparatorMarkers(text),
	}
	return f
}

func avgLength(lines []string) float64 {
	if len(lines) == 0 {
		return 0
	}
	total := 0
	for _, l := range lines {
		total += runeLen(l)
	}
	return float64(total) / float64(len(lines))
}

func (e *Extractor) shortLineRatio(lines []string) float64 {
	if len(lines) == 0 {
		return 0
	}
	short := 0
	for _, l := range lines {
		if runeLen(l) < e.config.ShortLineRunes {
			short++
		}
	}
	return float64(short) / float64(len(lines))
}

// confidence averages the recognizer's per-line confidence, falling back
// to the configured default when none was reported.
func (e *Extractor) confidence(page *model.RecognizedPage) float64 {
	lines := page.Lines
	if len(lines) == 0 {
		lines = page.BlockLines()
	}
	var known []float64
	for _, l := range lines {
		if l.Confidence > 0 {
			known = append(known, l.Confidence)
		}
	}
	if len(known) == 0 {
		return e.config.DefaultConfidence
	}
	return stats.Clamp01(stats.Mean(known))
}
