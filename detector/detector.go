package detector

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/tsawler/examscan/features"
	"github.com/tsawler/examscan/internal/logging"
	"github.com/tsawler/examscan/internal/stats"
	"github.com/tsawler/examscan/layout"
	"github.com/tsawler/examscan/model"
	"github.com/tsawler/examscan/scoring"
)

// Rule names reported for pages that never reach the override ladder.
const (
	RuleUpstream  = "upstream"
	RulePreReject = "pre-reject"
)

// Result is the verdict for one page.
type Result struct {
	IsQuestion bool    `json:"is_question"`
	Confidence float64 `json:"confidence"`

	// Stem and Options are filled only for accepted pages
	Stem    string   `json:"stem,omitempty"`
	Options []string `json:"options,omitempty"`

	Decision scoring.Decision `json:"decision"`

	// Rule names the rule that decided
	Rule string `json:"rule"`

	Scoring  scoring.Result    `json:"scoring"`
	Signals  Signals           `json:"signals"`
	Features features.Features `json:"features"`
	Layout   layout.Analysis   `json:"layout"`

	// Error carries the recognizer's error for failed pages
	Error string `json:"error,omitempty"`
}

// Bonus is a score bonus split by whether any marker was found.
type Bonus struct {
	NoMarker   float64
	WithMarker float64
}

func (b Bonus) value(markers int) float64 {
	if markers == 0 {
		return b.NoMarker
	}
	return b.WithMarker
}

// Compensation holds the bonuses added when an independent signal vouches
// for a page with fewer than two markers.
type Compensation struct {
	TypeAndNumber  Bonus
	TypeLabel      Bonus
	QuestionNumber Bonus
	StemKeyword    Bonus
}

// DefaultCompensation returns the tuned bonuses.
func DefaultCompensation() Compensation {
	return Compensation{
		TypeAndNumber:  Bonus{NoMarker: 60, WithMarker: 40},
		TypeLabel:      Bonus{NoMarker: 45, WithMarker: 25},
		QuestionNumber: Bonus{NoMarker: 50, WithMarker: 30},
		StemKeyword:    Bonus{NoMarker: 20, WithMarker: 15},
	}
}

// Config holds the detector configuration.
type Config struct {
	Features     features.Config
	Layout       layout.AnalyzerConfig
	Scoring      scoring.Config
	Compensation Compensation
	Thresholds   Thresholds

	// Rules is the override ladder. Nil selects DefaultRules.
	Rules []Rule

	// Pages above either limit are rejected before extraction unless they
	// carry a type label.
	MaxDigitRatio  float64 // default: 0.7
	MaxRareSymbols int     // default: 15

	// Logger receives debug traces. Nil disables logging.
	Logger *slog.Logger
}

// DefaultConfig returns the default detector configuration.
func DefaultConfig() Config {
	return Config{
		Features:       features.DefaultConfig(),
		Layout:         layout.DefaultAnalyzerConfig(),
		Scoring:        scoring.DefaultConfig(),
		Compensation:   DefaultCompensation(),
		Thresholds:     DefaultThresholds(),
		MaxDigitRatio:  0.7,
		MaxRareSymbols: 15,
	}
}

// Detector classifies pages. It holds only configuration and is safe for
// concurrent use.
type Detector struct {
	config     Config
	extractor  *features.Extractor
	analyzer   *layout.Analyzer
	calculator *scoring.Calculator
	rules      []Rule
	logger     *slog.Logger
}

// New creates a detector with default configuration.
func New() *Detector {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a detector with custom configuration.
func NewWithConfig(config Config) *Detector {
	rules := config.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	return &Detector{
		config:     config,
		extractor:  features.NewExtractorWithConfig(config.Features),
		analyzer:   layout.NewAnalyzerWithConfig(config.Layout),
		calculator: scoring.NewCalculatorWithConfig(config.Scoring),
		rules:      rules,
		logger:     logging.OrDiscard(config.Logger),
	}
}

// Detect classifies a page with the default configuration.
func Detect(page *model.RecognizedPage) Result {
	return New().Detect(page)
}

// Detect classifies one page. The page is not modified and the result
// depends on nothing but the page and the configuration.
func (d *Detector) Detect(page *model.RecognizedPage) Result {
	if page == nil {
		return Result{Rule: RuleUpstream, Error: "no page"}
	}
	if !page.Success || page.IsBlank() {
		d.logger.Debug("page skipped", "success", page.Success, "error", page.Error)
		return Result{Rule: RuleUpstream, Error: page.Error}
	}

	text := page.Text
	if reason, reject := d.preReject(text); reject {
		d.logger.Debug("page rejected", "reason", reason)
		return Result{Rule: RulePreReject, Scoring: scoring.Result{Reasons: []string{reason}}}
	}

	f := d.extractor.Extract(page)
	lay := d.analyzer.Analyze(page)
	if lay.Alternative.IsValid {
		f.BottomHalfShortLines = lay.Alternative.ShortLineCount
		f.VerticalAlignmentScore = math.Max(f.VerticalAlignmentScore, lay.Alternative.AlignmentScore)
	}

	signals := collectSignals(text, f)
	scored := d.score(f, signals)
	if lay.Options.Valid {
		passed := make([]string, len(lay.Options.Passed))
		for i, c := range lay.Options.Passed {
			passed[i] = c.String()
		}
		scored.Reasons = append(scored.Reasons,
			fmt.Sprintf("option layout valid (%s)", strings.Join(passed, ", ")))
	}

	ev := &Evidence{
		Text:       text,
		Features:   f,
		Signals:    signals,
		Scoring:    scored,
		Thresholds: d.config.Thresholds,
	}
	decision, rule := d.decide(ev)

	res := Result{
		IsQuestion: decision.Accepted(),
		Confidence: stats.Clamp01(scored.Score / 100),
		Decision:   decision,
		Rule:       rule,
		Scoring:    scored,
		Signals:    signals,
		Features:   f,
		Layout:     lay,
	}
	if res.IsQuestion {
		res.Stem, res.Options = Extract(page.LineTexts())
	}

	d.logger.Debug("page classified",
		"decision", decision.String(),
		"rule", rule,
		"score", scored.Score,
		"markers", f.OptionMarkerCount,
		"signals", signals.Kinds())
	return res
}

// preReject applies the cheap statistical filters
func (d *Detector) preReject(text string) (string, bool) {
	if features.HasTypeLabel(text) {
		return "", false
	}
	if r := features.DigitRatio(text); r > d.config.MaxDigitRatio {
		return fmt.Sprintf("digit ratio %.2f", r), true
	}
	if n := features.RareSymbolCount(text); n > d.config.MaxRareSymbols {
		return fmt.Sprintf("%d rare symbols", n), true
	}
	return "", false
}

func collectSignals(text string, f features.Features) Signals {
	var s Signals
	if f.HasTypeLabel {
		s = append(s, TypeLabel{})
	}
	if f.HasQuestionNumber {
		s = append(s, QuestionNumber{})
	}
	if f.HasStemKeywords {
		s = append(s, StemKeyword{VeryStrong: veryStrong(text)})
	}
	return s
}

// score runs the calculator. When a signal fired without the core signal
// the gated features are counted anyway and the matching bonus is added.
func (d *Detector) score(f features.Features, signals Signals) scoring.Result {
	if len(signals) == 0 || d.calculator.HasCore(f) {
		return d.calculator.Score(f)
	}

	res := d.calculator.ScoreOpen(f)
	c := d.config.Compensation
	n := f.OptionMarkerCount

	var bonus float64
	var reason string
	switch {
	case signals.HasTypeLabel() && signals.HasQuestionNumber():
		bonus, reason = c.TypeAndNumber.value(n), "type label and question number"
	case signals.HasTypeLabel():
		bonus, reason = c.TypeLabel.value(n), "type label"
	case signals.HasQuestionNumber():
		bonus, reason = c.QuestionNumber.value(n), "question number"
	default:
		bonus, reason = c.StemKeyword.value(n), "stem keywords"
	}

	res.Score = stats.Clamp(res.Score+bonus, 0, 100)
	res.Decision = d.calculator.Decide(res.Score, f)
	res.Reasons = append(res.Reasons,
		fmt.Sprintf("%s with %d markers, compensated %.0f", reason, n, bonus))
	return res
}

// decide runs the override ladder once; the first applicable rule wins
func (d *Detector) decide(ev *Evidence) (scoring.Decision, string) {
	for _, r := range d.rules {
		if r.Applies(ev) {
			return r.Decide(ev), r.Name
		}
	}
	return ev.Scoring.Decision, "scorer"
}
