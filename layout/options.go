package layout

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/examscan/internal/stats"
	"github.com/tsawler/examscan/markers"
	"github.com/tsawler/examscan/model"
)

var (
	optionPunctRe = regexp.MustCompile(`^([A-D])[.、)]`)
	optionHanRe   = regexp.MustCompile(`^([A-D])\s+\p{Han}{2,}`)
)

// OptionCheck names one of the layout properties tested on option lines.
type OptionCheck int

const (
	CheckOrder OptionCheck = iota
	CheckVertical
	CheckAlignment
	CheckSpacing
)

// String returns the string representation of the check
func (c OptionCheck) String() string {
	switch c {
	case CheckOrder:
		return "order"
	case CheckVertical:
		return "vertical"
	case CheckAlignment:
		return "alignment"
	case CheckSpacing:
		return "spacing"
	default:
		return "unknown"
	}
}

// MarshalText encodes the check as its string form.
func (c OptionCheck) MarshalText() ([]byte, error) {
	if c < CheckOrder || c > CheckSpacing {
		return nil, fmt.Errorf("layout: invalid option check %d", int(c))
	}
	return []byte(c.String()), nil
}

// OptionLayoutConfig holds the thresholds of the option layout check.
type OptionLayoutConfig struct {
	MinOptions         int     // default: 2
	AlignmentTolerance float64 // max left deviation over mean left (default: 0.2)
	GapTolerance       float64 // mean absolute gap deviation over mean gap (default: 0.5)
	MinPassed          int     // checks that must hold (default: 2)
}

// DefaultOptionLayoutConfig returns the default option layout thresholds.
func DefaultOptionLayoutConfig() OptionLayoutConfig {
	return OptionLayoutConfig{
		MinOptions:         2,
		AlignmentTolerance: 0.2,
		GapTolerance:       0.5,
		MinPassed:          2,
	}
}

// OptionLine is a line carrying a letter marker, with its label.
type OptionLine struct {
	Label string
	Line  model.TextLine
}

// OptionLayout is the outcome of the option layout check.
type OptionLayout struct {
	Valid       bool          `json:"valid"`
	OptionCount int           `json:"option_count"`
	Passed      []OptionCheck `json:"passed,omitempty"`
}

// Has reports whether the named check passed
func (o OptionLayout) Has(c OptionCheck) bool {
	for _, p := range o.Passed {
		if p == c {
			return true
		}
	}
	return false
}

// OptionChecker tests whether lettered option lines are laid out the way
// a printed question lays them out.
type OptionChecker struct {
	config OptionLayoutConfig
}

// NewOptionChecker creates a checker with default configuration.
func NewOptionChecker() *OptionChecker {
	return NewOptionCheckerWithConfig(DefaultOptionLayoutConfig())
}

// NewOptionCheckerWithConfig creates a checker with custom configuration.
func NewOptionCheckerWithConfig(config OptionLayoutConfig) *OptionChecker {
	return &OptionChecker{config: config}
}

// CheckOptions runs the default option layout check on a page.
func CheckOptions(page *model.RecognizedPage) OptionLayout {
	return NewOptionChecker().Check(page)
}

// Check collects the lettered option lines of the page and tests them.
func (c *OptionChecker) Check(page *model.RecognizedPage) OptionLayout {
	var options []OptionLine
	for _, l := range page.GeometryLines() {
		if label, ok := optionLabel(l.Text); ok {
			options = append(options, OptionLine{Label: label, Line: l})
		}
	}
	return c.CheckLines(options)
}

// CheckLines tests already collected option lines. The lines are ordered
// by top edge before testing; the input is not modified.
func (c *OptionChecker) CheckLines(options []OptionLine) OptionLayout {
	result := OptionLayout{OptionCount: len(options)}
	if len(options) < c.config.MinOptions {
		return result
	}

	sorted := append([]OptionLine(nil), options...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Line.Box.Top < sorted[j].Line.Box.Top
	})

	if inLetterOrder(sorted) {
		result.Passed = append(result.Passed, CheckOrder)
	}
	if stackedVertically(sorted) {
		result.Passed = append(result.Passed, CheckVertical)
	}
	if len(sorted) >= 3 {
		if c.leftAligned(sorted) {
			result.Passed = append(result.Passed, CheckAlignment)
		}
		if c.evenlySpaced(sorted) {
			result.Passed = append(result.Passed, CheckSpacing)
		}
	}
	result.Valid = len(result.Passed) >= c.config.MinPassed
	return result
}

func optionLabel(text string) (string, bool) {
	s := markers.Normalize(text)
	if m := optionPunctRe.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if m := optionHanRe.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	return "", false
}

func inLetterOrder(options []OptionLine) bool {
	last := -1
	for _, o := range options {
		idx := strings.Index("ABCD", o.Label)
		if idx <= last {
			return false
		}
		last = idx
	}
	return true
}

func stackedVertically(options []OptionLine) bool {
	for i := 1; i < len(options); i++ {
		if options[i].Line.Box.Top <= options[i-1].Line.Box.Bottom {
			return false
		}
	}
	return true
}

func (c *OptionChecker) leftAligned(options []OptionLine) bool {
	xs := make([]float64, len(options))
	for i, o := range options {
		xs[i] = o.Line.Box.Left
	}
	avg := stats.Mean(xs)
	return avg > 0 && stats.MaxDeviation(xs)/avg < c.config.AlignmentTolerance
}

func (c *OptionChecker) evenlySpaced(options []OptionLine) bool {
	gaps := make([]float64, 0, len(options)-1)
	for i := 1; i < len(options); i++ {
		gaps = append(gaps, options[i].Line.Box.Top-options[i-1].Line.Box.Bottom)
	}
	avg := stats.Mean(gaps)
	if avg <= 0 {
		return false
	}
	dev := make([]float64, len(gaps))
	for i, g := range gaps {
		dev[i] = math.Abs(g - avg)
	}
	return stats.Mean(dev)/avg < c.config.GapTolerance
}
