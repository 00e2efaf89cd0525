package detector

import (
	"github.com/tsawler/examscan/features"
	"github.com/tsawler/examscan/markers"
	"github.com/tsawler/examscan/scoring"
)

// Evidence is everything the rules look at for one page.
type Evidence struct {
	Text       string
	Features   features.Features
	Signals    Signals
	Scoring    scoring.Result
	Thresholds Thresholds
}

// Markers returns the deduplicated option marker count
func (e *Evidence) Markers() int {
	return e.Features.OptionMarkerCount
}

// Thresholds are the constants the override rules compare against.
type Thresholds struct {
	CoreMarkers      int      // default: 2
	KeywordConfirm   float64  // minimum score for the keyword rule (default: 15)
	KeywordHighScore float64  // score at which strict conditions suffice (default: 70)
	IndicatorConfirm float64  // single-marker bar with question phrasing (default: 15)
	NoMarkerAuto     float64  // default: 90
	Indicators       []string // generic question phrasing
}

// QuestionIndicators is generic question phrasing that lowers the bar for
// a page with a single marker.
var QuestionIndicators = []string{
	"分类", "选择", "正确的一项是", "正确的是",
	"分为", "分成", "选出", "选出的是", "选出正确",
	"哪一项", "哪一", "哪", "哪个", "哪些",
	"which",
}

// DefaultThresholds returns the tuned rule constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CoreMarkers:      2,
		KeywordConfirm:   15,
		KeywordHighScore: 70,
		IndicatorConfirm: 15,
		NoMarkerAuto:     90,
		Indicators:       QuestionIndicators,
	}
}

// Rule is one entry of the override ladder. The first rule whose Applies
// returns true decides.
type Rule struct {
	Name    string
	Applies func(e *Evidence) bool
	Decide  func(e *Evidence) scoring.Decision
}

// DefaultRules returns the override ladder, highest priority first.
// The last rule always applies.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:    "core-signal",
			Applies: func(e *Evidence) bool { return e.Markers() >= e.Thresholds.CoreMarkers },
			Decide:  func(e *Evidence) scoring.Decision { return e.Scoring.Decision },
		},
		{
			Name: "type-label-and-number",
			Applies: func(e *Evidence) bool {
				return e.Signals.HasTypeLabel() && e.Signals.HasQuestionNumber()
			},
			Decide: confirm,
		},
		{
			Name:    "type-label",
			Applies: func(e *Evidence) bool { return e.Signals.HasTypeLabel() },
			Decide:  confirm,
		},
		{
			Name:    "question-number",
			Applies: func(e *Evidence) bool { return e.Signals.HasQuestionNumber() },
			Decide:  confirm,
		},
		{
			Name: "stem-keywords",
			Applies: func(e *Evidence) bool {
				_, ok := e.Signals.StemKeyword()
				return ok
			},
			Decide: decideKeywords,
		},
		{
			Name:    "single-marker",
			Applies: func(e *Evidence) bool { return e.Markers() == 1 },
			Decide:  decideSingleMarker,
		},
		{
			Name:    "no-markers",
			Applies: func(*Evidence) bool { return true },
			Decide: func(e *Evidence) scoring.Decision {
				if e.Scoring.Score >= e.Thresholds.NoMarkerAuto {
					return scoring.DecisionAutoAdd
				}
				return scoring.DecisionIgnore
			},
		},
	}
}

func confirm(*Evidence) scoring.Decision {
	return scoring.DecisionConfirm
}

// decideKeywords accepts stem phrasing backed by a marker, very strong
// phrasing or a question number once the score reaches KeywordConfirm.
// A high score with a number or very strong phrasing also passes.
func decideKeywords(e *Evidence) scoring.Decision {
	kw, _ := e.Signals.StemKeyword()
	number := e.Signals.HasQuestionNumber()
	score := e.Scoring.Score
	t := e.Thresholds

	enough := e.Markers() >= 1 || kw.VeryStrong || number
	strict := score >= t.KeywordHighScore && (number || kw.VeryStrong)

	if score >= t.KeywordConfirm && (enough || strict) {
		return scoring.DecisionConfirm
	}
	return scoring.DecisionIgnore
}

// decideSingleMarker keeps the scorer's verdict unless generic question
// phrasing lowers the bar.
func decideSingleMarker(e *Evidence) scoring.Decision {
	if e.Scoring.Decision.Accepted() {
		return e.Scoring.Decision
	}
	if e.Scoring.Score >= e.Thresholds.IndicatorConfirm && hasIndicator(e.Text, e.Thresholds.Indicators) {
		return scoring.DecisionConfirm
	}
	return scoring.DecisionIgnore
}

func hasIndicator(text string, indicators []string) bool {
	return features.ContainsAny(text, indicators)
}

// veryStrong reports whether text carries very strong stem phrasing
func veryStrong(text string) bool {
	return markers.ContainsVeryStrongPhrase(text)
}
