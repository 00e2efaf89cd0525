package layout

import "github.com/tsawler/examscan/model"

// AnalyzerConfig bundles the configuration of both layout detectors.
type AnalyzerConfig struct {
	Alternative AlternativeConfig
	Options     OptionLayoutConfig
}

// DefaultAnalyzerConfig returns defaults for both detectors.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Alternative: DefaultAlternativeConfig(),
		Options:     DefaultOptionLayoutConfig(),
	}
}

// Analysis is the combined layout view of one page.
type Analysis struct {
	Alternative AlternativeResult `json:"alternative"`
	Options     OptionLayout      `json:"options"`
}

// Analyzer runs the marker-free and the lettered layout checks together.
type Analyzer struct {
	alternative *AlternativeDetector
	options     *OptionChecker
}

// NewAnalyzer creates an analyzer with default configuration.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(DefaultAnalyzerConfig())
}

// NewAnalyzerWithConfig creates an analyzer with custom configuration.
func NewAnalyzerWithConfig(config AnalyzerConfig) *Analyzer {
	return &Analyzer{
		alternative: NewAlternativeDetectorWithConfig(config.Alternative),
		options:     NewOptionCheckerWithConfig(config.Options),
	}
}

// Analyze runs both checks. The page is not modified.
func (a *Analyzer) Analyze(page *model.RecognizedPage) Analysis {
	return Analysis{
		Alternative: a.alternative.Detect(page),
		Options:     a.options.Check(page),
	}
}
