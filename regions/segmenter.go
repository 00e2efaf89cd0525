package regions

import (
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/examscan/internal/logging"
	"github.com/tsawler/examscan/internal/stats"
	"github.com/tsawler/examscan/model"
)

var (
	defaultNumberPattern = regexp.MustCompile(`^(\d{1,2})[.、]`)
	defaultOptionPattern = regexp.MustCompile(`^[A-D][.、)）]|^[A-D]\s+`)
)

// Region is the rectangle believed to hold exactly one question.
type Region struct {
	Box model.Rect `json:"box"`

	// Number is the question index read from the number line, e.g. "16"
	Number string `json:"number,omitempty"`

	Confidence float64 `json:"confidence"`
}

// Config holds the segmentation thresholds. Margins are in pixels.
type Config struct {
	// NumberPattern recognizes a question-number line; its first group is
	// the number. OptionPattern recognizes an option line.
	NumberPattern *regexp.Regexp
	OptionPattern *regexp.Regexp

	HeightRatio    float64 // number lines lower than this share of the mean are suspicious (default: 0.6)
	MinHeightRatio float64 // and rejected below this share (default: 0.5)
	LeftRegion     float64 // number lines must start within this share of the width (default: 0.3)

	TopMargin        float64 // above the number line (default: 15)
	NextNumberMargin float64 // kept clear above the next number line (default: 20)
	OptionMargin     float64 // below the last option line (default: 10)
	MinSpan          float64 // minimum initial span without options (default: 50)

	HorizontalMargin float64 // default: 15
	TightenTop       float64 // default: 10
	TightenBottom    float64 // default: 5

	FixupHorizontal float64 // default: 20
	FixupVertical   float64 // default: 15

	MinWidth   float64 // regions must be wider than this (default: 50)
	MinHeight  float64 // and taller than this (default: 30)
	Confidence float64 // default: 0.95

	// Logger receives debug traces. Nil disables logging.
	Logger *slog.Logger
}

// DefaultConfig returns the tuned segmentation defaults.
func DefaultConfig() Config {
	return Config{
		NumberPattern:    defaultNumberPattern,
		OptionPattern:    defaultOptionPattern,
		HeightRatio:      0.6,
		MinHeightRatio:   0.5,
		LeftRegion:       0.3,
		TopMargin:        15,
		NextNumberMargin: 20,
		OptionMargin:     10,
		MinSpan:          50,
		HorizontalMargin: 15,
		TightenTop:       10,
		TightenBottom:    5,
		FixupHorizontal:  20,
		FixupVertical:    15,
		MinWidth:         50,
		MinHeight:        30,
		Confidence:       0.95,
	}
}

// Segmenter partitions a page into per-question regions. It holds only
// configuration and is safe for concurrent use.
type Segmenter struct {
	config Config
	logger *slog.Logger
}

// NewSegmenter creates a segmenter with default configuration.
func NewSegmenter() *Segmenter {
	return NewSegmenterWithConfig(DefaultConfig())
}

// NewSegmenterWithConfig creates a segmenter with custom configuration.
// Nil patterns fall back to the defaults.
func NewSegmenterWithConfig(config Config) *Segmenter {
	if config.NumberPattern == nil {
		config.NumberPattern = defaultNumberPattern
	}
	if config.OptionPattern == nil {
		config.OptionPattern = defaultOptionPattern
	}
	return &Segmenter{config: config, logger: logging.OrDiscard(config.Logger)}
}

// Segment returns one region per question-number line, sorted by top.
// Regions never overlap and always have positive width and height. A
// failed page or one without number lines yields nil.
func Segment(page *model.RecognizedPage) []Region {
	return NewSegmenter().Segment(page)
}

// Segment returns the question regions of the page.
func (s *Segmenter) Segment(page *model.RecognizedPage) []Region {
	if page == nil || !page.Success {
		return nil
	}
	lines := sortedLines(page)
	if len(lines) == 0 {
		return nil
	}
	bounds := page.Bounds()

	numbers := s.numberLines(lines, bounds)
	if len(numbers) == 0 {
		s.logger.Debug("no question numbers found", "lines", len(lines))
		return nil
	}

	var (
		regions []Region
		anchors []float64
	)
	for i, n := range numbers {
		var next *numberLine
		if i+1 < len(numbers) {
			next = &numbers[i+1]
		}
		r, ok := s.region(n, next, lines, bounds)
		if !ok {
			s.logger.Debug("region discarded", "number", n.number,
				"width", r.Box.Width(), "height", r.Box.Height())
			continue
		}
		regions = append(regions, r)
		anchors = append(anchors, n.line.Box.Top)
	}
	return s.separate(regions, anchors)
}

type numberLine struct {
	line   model.TextLine
	number string
}

// sortedLines returns the located lines with trimmed text, ordered by top
func sortedLines(page *model.RecognizedPage) []model.TextLine {
	src := page.GeometryLines()
	lines := make([]model.TextLine, len(src))
	for i, l := range src {
		l.Text = strings.TrimSpace(l.Text)
		lines[i] = l
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Box.Top < lines[j].Box.Top })
	return lines
}

// numberLines picks the lines that open a question
func (s *Segmenter) numberLines(lines []model.TextLine, bounds model.Rect) []numberLine {
	heights := make([]float64, len(lines))
	for i, l := range lines {
		heights[i] = l.Box.Height()
	}
	avgHeight := stats.Mean(heights)
	leftLimit := bounds.Width() * s.config.LeftRegion

	var out []numberLine
	for i, l := range lines {
		m := s.config.NumberPattern.FindStringSubmatch(l.Text)
		if m == nil || len(m) < 2 || m[1] == "" {
			continue
		}
		h := l.Box.Height()
		if h < avgHeight*s.config.MinHeightRatio {
			continue
		}
		if l.Box.Left > leftLimit {
			continue
		}
		attrs := []any{"number", m[1], "top", l.Box.Top, "height", h}
		if h < avgHeight*s.config.HeightRatio {
			attrs = append(attrs, "short", true)
		}
		if i > 0 {
			attrs = append(attrs, "gap", l.Box.Top-lines[i-1].Box.Bottom)
		}
		s.logger.Debug("question number line", attrs...)
		out = append(out, numberLine{line: l, number: m[1]})
	}
	return out
}

// lastOptionBottom returns the lowest option-line bottom between top and
// the next number line
func (s *Segmenter) lastOptionBottom(lines []model.TextLine, top float64, next *numberLine) (float64, bool) {
	found := false
	bottom := 0.0
	for _, l := range lines {
		if l.Box.Top < top || (next != nil && l.Box.Top >= next.line.Box.Top) {
			continue
		}
		if s.config.OptionPattern.MatchString(l.Text) {
			if !found || l.Box.Bottom > bottom {
				bottom = l.Box.Bottom
			}
			found = true
		}
	}
	return bottom, found
}

func (s *Segmenter) region(n numberLine, next *numberLine, lines []model.TextLine, bounds model.Rect) (Region, bool) {
	c := s.config
	top := math.Max(0, n.line.Box.Top-c.TopMargin)
	optBottom, hasOption := s.lastOptionBottom(lines, top, next)

	var bottom float64
	switch {
	case hasOption:
		limit := bounds.Bottom
		if next != nil {
			limit = next.line.Box.Top - c.NextNumberMargin
		}
		bottom = math.Min(optBottom+c.OptionMargin, limit)
	case next != nil:
		bottom = math.Max(top+c.MinSpan, next.line.Box.Top-c.NextNumberMargin)
	default:
		bottom = bounds.Bottom
	}

	members := linesWithin(lines, top, bottom)
	box := model.Rect{Left: 0, Top: top, Right: bounds.Right, Bottom: bottom}
	if len(members) > 0 {
		union := members[0].Box
		for _, l := range members[1:] {
			union = union.Union(l.Box)
		}
		tightBottom := union.Bottom + c.TightenBottom
		if hasOption && union.Bottom < optBottom {
			tightBottom = optBottom + c.OptionMargin
		}
		box = model.Rect{
			Left:   union.Left - c.HorizontalMargin,
			Top:    union.Top - c.TightenTop,
			Right:  union.Right + c.HorizontalMargin,
			Bottom: tightBottom,
		}.Clamp(bounds)
		box = s.contain(box, members, bounds)
	}

	r := Region{Box: box, Number: n.number, Confidence: c.Confidence}
	return r, box.Width() > c.MinWidth && box.Height() > c.MinHeight
}

// linesWithin returns the lines touching [top, bottom): by top, bottom or
// center, or by spanning the whole range.
func linesWithin(lines []model.TextLine, top, bottom float64) []model.TextLine {
	in := func(y float64) bool { return y >= top && y < bottom }
	var out []model.TextLine
	for _, l := range lines {
		b := l.Box
		if in(b.Top) || in(b.Bottom) || in(b.CenterY()) || (b.Top < top && b.Bottom > bottom) {
			out = append(out, l)
		}
	}
	return out
}

// contain grows box until every member line fits, with the fix-up margins
func (s *Segmenter) contain(box model.Rect, members []model.TextLine, bounds model.Rect) model.Rect {
	c := s.config
	for _, l := range members {
		b := l.Box
		if b.Left < box.Left {
			box.Left = math.Max(bounds.Left, b.Left-c.FixupHorizontal)
		}
		if b.Right > box.Right {
			box.Right = math.Min(bounds.Right, b.Right+c.FixupHorizontal)
		}
		if b.Top < box.Top {
			box.Top = math.Max(bounds.Top, b.Top-c.FixupVertical)
		}
		if b.Bottom > box.Bottom {
			box.Bottom = math.Min(bounds.Bottom, b.Bottom+c.FixupVertical)
		}
	}
	return box
}

// separate resolves overlaps between consecutive regions. anchors holds
// the top of each region's number line. The shared edge is the earlier
// region's bottom, but never below the next number line; the later region
// starts at that edge. Regions trimmed to MinWidth or MinHeight are dropped.
func (s *Segmenter) separate(regions []Region, anchors []float64) []Region {
	for i := 0; i+1 < len(regions); i++ {
		prev, next := &regions[i].Box, &regions[i+1].Box
		if prev.Bottom <= next.Top {
			continue
		}
		edge := math.Min(prev.Bottom, anchors[i+1])
		s.logger.Debug("regions overlap", "number", regions[i].Number,
			"bottom", prev.Bottom, "next_top", next.Top, "edge", edge)
		prev.Bottom = edge
		next.Top = math.Max(next.Top, edge)
	}

	out := regions[:0]
	for _, r := range regions {
		if r.Box.Width() > s.config.MinWidth && r.Box.Height() > s.config.MinHeight {
			out = append(out, r)
		} else {
			s.logger.Debug("region discarded after overlap", "number", r.Number,
				"width", r.Box.Width(), "height", r.Box.Height())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Box.Top < out[j].Box.Top })
	return out
}
