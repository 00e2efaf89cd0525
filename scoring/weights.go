package scoring

// Weights are the per-feature weights and the two decision thresholds.
// A zero weight switches its feature off. Weights is a plain value; use
// DefaultWeights for the tuned set and copy it to adjust.
type Weights struct {
	NumTextBlocks        float64 `json:"num_text_blocks"`
	NumLines             float64 `json:"num_lines"`
	AvgLineLength        float64 `json:"avg_line_length"`
	ShortLineRatio       float64 `json:"short_line_ratio"`
	OptionMarkerCount    float64 `json:"option_marker_count"`
	VerticalAlignment    float64 `json:"vertical_alignment"`
	OCRConfidence        float64 `json:"ocr_confidence"`
	PunctuationRatio     float64 `json:"punctuation_ratio"`
	StemKeywords         float64 `json:"stem_keywords"`
	MathSymbols          float64 `json:"math_symbols"`
	TopHalfLongLines     float64 `json:"top_half_long_lines"`
	BottomHalfShortLines float64 `json:"bottom_half_short_lines"`
	AlternativeMarkers   float64 `json:"alternative_markers"`
	SeparatorMarkers     float64 `json:"separator_markers"`

	// Option layout weights
	OptionLeftAlignment      float64 `json:"option_left_alignment"`
	OptionSpacing            float64 `json:"option_spacing"`
	BlockSizeConsistency     float64 `json:"block_size_consistency"`
	QuestionOptionSeparation float64 `json:"question_option_separation"`

	// AutoThreshold is the score at or above which a page is added
	// without asking; ConfirmThreshold the score for asking first.
	AutoThreshold    float64 `json:"auto_threshold"`
	ConfirmThreshold float64 `json:"confirm_threshold"`
}

// DefaultWeights returns the tuned default weights.
func DefaultWeights() Weights {
	return Weights{
		NumTextBlocks:        0.05,
		NumLines:             0.05,
		AvgLineLength:        0.05,
		ShortLineRatio:       0.08,
		OptionMarkerCount:    0.15,
		VerticalAlignment:    0.12,
		OCRConfidence:        0.05,
		PunctuationRatio:     0.05,
		StemKeywords:         0.15,
		MathSymbols:          0.03,
		TopHalfLongLines:     0.08,
		BottomHalfShortLines: 0.10,
		AlternativeMarkers:   0.03,
		SeparatorMarkers:     0.02,

		OptionLeftAlignment:      0.15,
		OptionSpacing:            0.12,
		BlockSizeConsistency:     0.10,
		QuestionOptionSeparation: 0.20,

		AutoThreshold:    40,
		ConfirmThreshold: 15,
	}
}

// Gates are the regime constants around the weighted sum: how much of the
// gated features count without the core signal, and how the decision bar
// moves with the marker count. Their relative order matters more than
// their values: the zero-marker bar stays above the single-marker bar,
// which stays above the core-signal thresholds.
type Gates struct {
	CoreMarkers int     `json:"core_markers"` // markers needed for the core signal (default: 2)
	Core        float64 `json:"core"`         // gate with the core signal (default: 1.0)
	Layout      float64 `json:"layout"`       // gate with a strong layout only (default: 0.5)

	StrongLayoutScore   float64 `json:"strong_layout_score"`   // layout score above which layout is strong (default: 0.7)
	StrongLayoutCluster int     `json:"strong_layout_cluster"` // cluster size at which layout is strong (default: 3)

	SingleMarkerRaise          float64 `json:"single_marker_raise"`           // added to both thresholds with one marker (default: 10)
	SingleMarkerKeywordConfirm float64 `json:"single_marker_keyword_confirm"` // confirm bar with one marker and a stem signal (default: 25)

	NoMarkerAuto    float64 `json:"no_marker_auto"`    // default: 90
	NoMarkerConfirm float64 `json:"no_marker_confirm"` // default: 60

	StrongLayoutAuto    float64 `json:"strong_layout_auto"`    // default: 50
	StrongLayoutConfirm float64 `json:"strong_layout_confirm"` // default: 30
}

// DefaultGates returns the tuned regime constants.
func DefaultGates() Gates {
	return Gates{
		CoreMarkers:                2,
		Core:                       1.0,
		Layout:                     0.5,
		StrongLayoutScore:          0.7,
		StrongLayoutCluster:        3,
		SingleMarkerRaise:          10,
		SingleMarkerKeywordConfirm: 25,
		NoMarkerAuto:               90,
		NoMarkerConfirm:            60,
		StrongLayoutAuto:           50,
		StrongLayoutConfirm:        30,
	}
}
