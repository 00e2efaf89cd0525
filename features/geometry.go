package features

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tsawler/examscan/internal/stats"
	"github.com/tsawler/examscan/markers"
	"github.com/tsawler/examscan/model"
)

func maxBottom(blocks []model.TextBlock) float64 {
	m := 0.0
	for _, b := range blocks {
		m = math.Max(m, b.Box.Bottom)
	}
	return m
}

func runeLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

func isOptionBlock(b model.TextBlock) bool {
	for _, l := range b.Lines {
		if markers.IsOptionLine(l.Text) {
			return true
		}
	}
	return false
}

func sortBlocksByTop(blocks []model.TextBlock) []model.TextBlock {
	out := append([]model.TextBlock(nil), blocks...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Box.Top < out[j].Box.Top })
	return out
}

func sortLinesByTop(lines []model.TextLine) []model.TextLine {
	out := append([]model.TextLine(nil), lines...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Box.Top < out[j].Box.Top })
	return out
}

// verticalAlignment scores how closely all block lines share a left edge
func (e *Extractor) verticalAlignment(blocks []model.TextBlock) float64 {
	if len(blocks) < 2 {
		return 0
	}
	var xs []float64
	for _, b := range blocks {
		for _, l := range b.Lines {
			if l.HasBox() {
				xs = append(xs, l.Box.Left)
			}
		}
	}
	avg := stats.Mean(xs)
	if avg <= 0 {
		return 0
	}
	return stats.Consistency(stats.MaxDeviation(xs)/avg, e.config.AlignmentTolerance)
}

// halves returns the lines of blocks starting above and below the midline
func halves(blocks []model.TextBlock) (top, bottom []model.TextLine) {
	mid := maxBottom(blocks) / 2
	for _, b := range blocks {
		if b.Box.Top < mid {
			top = append(top, b.Lines...)
		} else {
			bottom = append(bottom, b.Lines...)
		}
	}
	return top, bottom
}

func (e *Extractor) topHalfLongLineRatio(blocks []model.TextBlock) float64 {
	top, _ := halves(blocks)
	if len(top) == 0 {
		return 0
	}
	long := 0
	for _, l := range top {
		if runeLen(l.Text) > e.config.LongLineRunes {
			long++
		}
	}
	return float64(long) / float64(len(top))
}

func (e *Extractor) bottomHalfShortLines(blocks []model.TextBlock) int {
	_, bottom := halves(blocks)
	n := 0
	for _, l := range bottom {
		if runeLen(l.Text) < e.config.BottomShortRunes {
			n++
		}
	}
	return n
}

// optionLeftAlignment combines left-edge alignment, row alignment and
// bottom-half position of the option lines.
func (e *Extractor) optionLeftAlignment(blocks []model.TextBlock) float64 {
	var lefts, tops []float64
	for _, b := range blocks {
		for _, l := range b.Lines {
			if l.HasBox() && markers.IsOptionLine(l.Text) {
				lefts = append(lefts, l.Box.Left)
				tops = append(tops, l.Box.Top)
			}
		}
	}
	if len(lefts) < 2 {
		return 0
	}

	left := 0.0
	if avg := stats.Mean(lefts); avg > 0 {
		left = stats.Consistency(stats.StdDev(lefts)/avg, e.config.OptionLeftTolerance)
	}
	row := 0.0
	if avg := stats.Mean(tops); avg > 0 {
		row = stats.Consistency(stats.StdDev(tops)/avg, e.config.OptionRowTolerance)
	}
	bottom := 0.0
	if maxY := maxBottom(blocks); maxY > 0 {
		n := 0
		for _, t := range tops {
			if t >= maxY/2 {
				n++
			}
		}
		bottom = float64(n) / float64(len(tops))
	}
	return stats.Clamp01(left*0.4 + row*0.4 + bottom*0.2)
}

func optionBlocks(blocks []model.TextBlock) []model.TextBlock {
	var out []model.TextBlock
	for _, b := range blocks {
		if isOptionBlock(b) {
			out = append(out, b)
		}
	}
	return out
}

func (e *Extractor) optionSpacingConsistency(blocks []model.TextBlock) float64 {
	if len(blocks) < 3 {
		return 0
	}
	opts := optionBlocks(blocks)
	check := blocks
	bonus := 0.0
	if len(opts) >= 2 {
		check = opts
		bonus = e.config.OptionBlockBonus
	}
	sorted := sortBlocksByTop(check)

	var gaps []float64
	for i := 1; i < len(sorted); i++ {
		if gap := sorted[i].Box.Top - sorted[i-1].Box.Bottom; gap > 0 {
			gaps = append(gaps, gap)
		}
	}
	if len(gaps) < 2 {
		return 0
	}
	return stats.Clamp01(stats.Consistency(stats.CV(gaps), e.config.SpacingCVTolerance) + bonus)
}

func (e *Extractor) blockSizeConsistency(blocks []model.TextBlock) float64 {
	check := blocks
	if opts := optionBlocks(blocks); len(opts) >= 2 {
		check = opts
	}
	if len(check) < 2 {
		return 0
	}
	heights := make([]float64, len(check))
	for i, b := range check {
		heights[i] = b.Box.Height()
	}
	if stats.Mean(heights) <= 0 {
		return 0
	}
	return stats.Consistency(stats.CV(heights), e.config.HeightCVTolerance)
}

// questionOptionSeparation measures the vertical gap between the stem
// blocks and the option blocks as a share of page height.
func (e *Extractor) questionOptionSeparation(blocks []model.TextBlock) float64 {
	if len(blocks) < 3 {
		return 0
	}
	maxY := maxBottom(blocks)
	if maxY <= 0 {
		return 0
	}
	mid := maxY / 2

	opts := optionBlocks(blocks)
	bottom := opts
	if len(bottom) == 0 {
		for _, b := range blocks {
			if b.Box.Top >= mid {
				bottom = append(bottom, b)
			}
		}
	}
	inBottom := func(b model.TextBlock) bool {
		for _, o := range bottom {
			if o.Box == b.Box {
				return true
			}
		}
		return false
	}
	var top []model.TextBlock
	for _, b := range blocks {
		if b.Box.Top < mid && !inBottom(b) {
			top = append(top, b)
		}
	}
	if len(top) == 0 || len(bottom) == 0 {
		return 0
	}

	topBottom := 0.0
	for _, b := range top {
		topBottom = math.Max(topBottom, b.Box.Bottom)
	}
	bottomTop := maxY
	for _, b := range bottom {
		bottomTop = math.Min(bottomTop, b.Box.Top)
	}

	ratio := (bottomTop - topBottom) / maxY
	base := 0.0
	switch {
	case ratio > 0.15:
		base = 1.0
	case ratio > 0.10:
		base = 0.7
	case ratio > 0.05:
		base = 0.4
	}

	bonus := 0.0
	if len(opts) > 0 {
		bonus = e.config.SeparationBonus
	}
	third := 0
	for _, b := range bottom {
		if b.Box.Top >= maxY*2/3 {
			third++
		}
	}
	position := float64(third) / float64(len(bottom))

	return stats.Clamp01(base*0.6 + bonus + position*0.25)
}

func isClusterLine(text string, maxRunes int) bool {
	t := strings.TrimSpace(text)
	n := utf8.RuneCountInString(t)
	if n == 0 || n >= maxRunes {
		return false
	}
	digits := 0
	for _, r := range t {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return float64(digits) < float64(n)*0.5
}

// shortLineClusterSize groups bottom-half short lines by left edge and
// returns the size of the largest evenly spaced group, or 0.
func (e *Extractor) shortLineClusterSize(blocks []model.TextBlock) int {
	_, bottom := halves(blocks)
	var lines []model.TextLine
	for _, l := range bottom {
		if l.HasBox() && isClusterLine(l.Text, e.config.BottomShortRunes) {
			lines = append(lines, l)
		}
	}
	if len(lines) < e.config.ClusterMinSize {
		return 0
	}

	var clusters [][]model.TextLine
	for _, l := range sortLinesByTop(lines) {
		placed := false
		for i, c := range clusters {
			xs := make([]float64, len(c))
			for j, cl := range c {
				xs[j] = cl.Box.Left
			}
			avg := stats.Mean(xs)
			tolerance := math.Max(avg*e.config.ClusterXFraction, e.config.ClusterXFloor)
			if math.Abs(l.Box.Left-avg) < tolerance {
				clusters[i] = append(c, l)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, []model.TextLine{l})
		}
	}

	best := 0
	for _, c := range clusters {
		if len(c) < e.config.ClusterMinSize {
			continue
		}
		gaps := e.lineGaps(sortLinesByTop(c))
		if len(gaps) < 2 {
			continue
		}
		if stats.CV(gaps) < e.config.ClusterSpacingCV && len(c) > best {
			best = len(c)
		}
	}
	return best
}

// lineGaps returns the positive gaps below ClusterMaxGap between
// consecutive lines, which must already be sorted by top.
func (e *Extractor) lineGaps(sorted []model.TextLine) []float64 {
	var gaps []float64
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Box.Top - sorted[i-1].Box.Bottom
		if gap > 0 && gap < e.config.ClusterMaxGap {
			gaps = append(gaps, gap)
		}
	}
	return gaps
}

func (e *Extractor) clusterCandidates(blocks []model.TextBlock) []model.TextLine {
	var out []model.TextLine
	for _, b := range blocks {
		for _, l := range b.Lines {
			n := runeLen(l.Text)
			if l.HasBox() && n > 0 && n < e.config.ClusterLineRunes {
				out = append(out, l)
			}
		}
	}
	return sortLinesByTop(out)
}

func (e *Extractor) shortLineClusterAlignment(blocks []model.TextBlock) float64 {
	lines := e.clusterCandidates(blocks)
	if len(lines) < 3 {
		return 0
	}
	xs := make([]float64, len(lines))
	for i, l := range lines {
		xs[i] = l.Box.Left
	}
	avg := stats.Mean(xs)
	if avg <= 0 {
		return 0
	}
	return stats.Consistency(stats.StdDev(xs)/avg, e.config.ClusterAlignTolerance)
}

func (e *Extractor) shortLineClusterSpacing(blocks []model.TextBlock) float64 {
	lines := e.clusterCandidates(blocks)
	if len(lines) < 3 {
		return 0
	}
	gaps := e.lineGaps(lines)
	if len(gaps) < 2 {
		return 0
	}
	return stats.Consistency(stats.CV(gaps), e.config.ClusterSpacingTolerance)
}
