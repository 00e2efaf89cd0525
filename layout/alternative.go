package layout

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/examscan/internal/stats"
	"github.com/tsawler/examscan/model"
)

// AlternativeConfig holds the thresholds of the alternative option detector.
type AlternativeConfig struct {
	// MinRunes and MaxRunes bound the trimmed length of a candidate line.
	// MaxRunes is exclusive.
	MinRunes int
	MaxRunes int

	// MinLines is the number of bottom-half candidates needed at all
	MinLines int

	// AlignmentTolerance is the left-edge deviation, as a share of the mean
	// left edge, at which alignment reaches zero
	AlignmentTolerance float64

	// MaxGap discards vertical gaps at or above this many pixels
	MaxGap float64

	// SpacingTolerance is the gap coefficient of variation at which spacing
	// consistency reaches zero
	SpacingTolerance float64

	AlignmentWeight float64
	SpacingWeight   float64

	// MinScore is the combined score needed for a valid result
	MinScore float64
}

// DefaultAlternativeConfig returns the tuned defaults.
func DefaultAlternativeConfig() AlternativeConfig {
	return AlternativeConfig{
		MinRunes:           2,
		MaxRunes:           30,
		MinLines:           2,
		AlignmentTolerance: 0.4,
		MaxGap:             200,
		SpacingTolerance:   0.3,
		AlignmentWeight:    0.6,
		SpacingWeight:      0.4,
		MinScore:           0.6,
	}
}

// AlternativeResult describes option structure inferred from layout alone.
type AlternativeResult struct {
	// IsValid is true when enough aligned, evenly spaced short lines exist
	IsValid bool `json:"is_valid"`

	// ShortLineCount is the number of bottom-half candidate lines
	ShortLineCount int `json:"short_line_count"`

	// AlignmentScore combines left alignment and spacing consistency
	AlignmentScore float64 `json:"alignment_score"`
}

// AlternativeDetector finds option-like line groups when the markers
// themselves were lost, typically because they were covered.
type AlternativeDetector struct {
	config AlternativeConfig
}

// NewAlternativeDetector creates a detector with default configuration.
func NewAlternativeDetector() *AlternativeDetector {
	return NewAlternativeDetectorWithConfig(DefaultAlternativeConfig())
}

// NewAlternativeDetectorWithConfig creates a detector with custom configuration.
func NewAlternativeDetectorWithConfig(config AlternativeConfig) *AlternativeDetector {
	return &AlternativeDetector{config: config}
}

// Detect examines the short lines of the blocks in the lower half of the
// page. The page is split at half of the lowest block bottom.
func (d *AlternativeDetector) Detect(page *model.RecognizedPage) AlternativeResult {
	return d.DetectBlocks(page.LayoutBlocks())
}

// DetectBlocks is Detect over an explicit block list.
func (d *AlternativeDetector) DetectBlocks(blocks []model.TextBlock) AlternativeResult {
	if len(blocks) == 0 {
		return AlternativeResult{}
	}

	mid := 0.0
	for _, b := range blocks {
		if b.Box.Bottom > mid {
			mid = b.Box.Bottom
		}
	}
	mid /= 2

	var lines []model.TextLine
	for _, b := range blocks {
		if b.Box.Top < mid {
			continue
		}
		for _, l := range b.Lines {
			if l.HasBox() && d.isCandidate(l.Text) {
				lines = append(lines, l)
			}
		}
	}

	result := AlternativeResult{ShortLineCount: len(lines)}
	if len(lines) < d.config.MinLines {
		return result
	}

	align := d.alignment(lines)
	spacing := d.spacing(lines)
	result.AlignmentScore = align*d.config.AlignmentWeight + spacing*d.config.SpacingWeight
	result.IsValid = result.AlignmentScore >= d.config.MinScore
	return result
}

func (d *AlternativeDetector) isCandidate(text string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	return n >= d.config.MinRunes && n < d.config.MaxRunes
}

func (d *AlternativeDetector) alignment(lines []model.TextLine) float64 {
	xs := make([]float64, len(lines))
	for i, l := range lines {
		xs[i] = l.Box.Left
	}
	avg := stats.Mean(xs)
	if avg <= 0 {
		return 0
	}
	return stats.Consistency(stats.MaxDeviation(xs)/avg, d.config.AlignmentTolerance)
}

func (d *AlternativeDetector) spacing(lines []model.TextLine) float64 {
	sorted := append([]model.TextLine(nil), lines...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Box.Top < sorted[j].Box.Top })

	var gaps []float64
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Box.Top - sorted[i-1].Box.Bottom
		if gap > 0 && gap < d.config.MaxGap {
			gaps = append(gaps, gap)
		}
	}
	if len(gaps) < 2 || stats.Mean(gaps) <= 0 {
		return 0
	}
	return stats.Consistency(stats.CV(gaps), d.config.SpacingTolerance)
}
