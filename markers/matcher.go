package markers

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tsawler/examscan/internal/stats"
	"github.com/tsawler/examscan/model"
)

// Config holds the tuned constants of the marker heuristics.
type Config struct {
	// PrefixRunes is how far into a line a marker may appear (default: 15)
	PrefixRunes int

	// MaxOptions caps letters after inference and unmarked options (default: 4)
	MaxOptions int

	// Occlusion inference from content lines following the single marker
	CandidateLookahead int     // candidate lines examined (default: 6)
	CandidateMinRunes  int     // default: 5
	CandidateMaxRunes  int     // default: 40
	NonLatinWeight     float64 // non-Latin letters × weight must exceed length (default: 2.5)
	MaxCandidateGap    int     // max index gap between candidates (default: 3)

	// Unmarked option fallback
	UnmarkedMinRunes   int     // default: 4
	UnmarkedMaxRunes   int     // default: 50
	UnmarkedMinLines   int     // default: 3
	LengthCVMax        float64 // candidate length CV must stay below (default: 0.3)
	AlignmentTolerance float64 // normalized max x deviation tolerance (default: 0.4)
	SpacingCVTolerance float64 // gap CV tolerance (default: 0.3)
	AlignmentWeight    float64 // default: 0.6
	SpacingWeight      float64 // default: 0.4
	MinUnmarkedLayout  float64 // layout score required with geometry (default: 0.5)
}

// DefaultConfig returns the default marker configuration.
func DefaultConfig() Config {
	return Config{
		PrefixRunes:        15,
		MaxOptions:         4,
		CandidateLookahead: 6,
		CandidateMinRunes:  5,
		CandidateMaxRunes:  40,
		NonLatinWeight:     2.5,
		MaxCandidateGap:    3,
		UnmarkedMinRunes:   4,
		UnmarkedMaxRunes:   50,
		UnmarkedMinLines:   3,
		LengthCVMax:        0.3,
		AlignmentTolerance: 0.4,
		SpacingCVTolerance: 0.3,
		AlignmentWeight:    0.6,
		SpacingWeight:      0.4,
		MinUnmarkedLayout:  0.5,
	}
}

// Matcher finds option markers in recognized lines.
type Matcher struct {
	config       Config
	letterRules  []Rule
	numeralRules []Rule
}

// NewMatcher creates a matcher with default configuration.
func NewMatcher() *Matcher {
	return NewMatcherWithConfig(DefaultConfig())
}

// NewMatcherWithConfig creates a matcher with custom configuration.
func NewMatcherWithConfig(config Config) *Matcher {
	return &Matcher{
		config:       config,
		letterRules:  DefaultLetterRules(config.PrefixRunes),
		numeralRules: DefaultNumeralRules(),
	}
}

// WithLetterRule returns a copy of the matcher with an extra letter rule
// appended after the built-in ones.
func (m *Matcher) WithLetterRule(r Rule) *Matcher {
	clone := *m
	clone.letterRules = append(append([]Rule(nil), m.letterRules...), r)
	return &clone
}

// Config returns the matcher configuration
func (m *Matcher) Config() Config {
	return m.config
}

// Match is a single marker found on a line.
type Match struct {
	Label string
	Rule  string
}

// MatchLetter applies the letter rules in order and returns the first hit
func (m *Matcher) MatchLetter(line string) (Match, bool) {
	s := Normalize(line)
	if s == "" {
		return Match{}, false
	}
	for _, r := range m.letterRules {
		if label, ok := r.Match(s); ok && label >= "A" && label <= "D" {
			return Match{Label: label, Rule: r.Name}, true
		}
	}
	return Match{}, false
}

// MatchNumerals applies every numeral rule and returns all hits
func (m *Matcher) MatchNumerals(line string) []Match {
	s := Normalize(line)
	if s == "" {
		return nil
	}
	var out []Match
	for _, r := range m.numeralRules {
		if label, ok := r.Match(s); ok {
			out = append(out, Match{Label: label, Rule: r.Name})
		}
	}
	return out
}

// Scan counts markers over plain lines with no geometry.
func (m *Matcher) Scan(lines []string) Set {
	return m.scan(lines, nil)
}

// ScanPage counts markers over a page, using line geometry for the
// unmarked option fallback when available.
func (m *Matcher) ScanPage(page *model.RecognizedPage) Set {
	return m.scan(page.LineTexts(), page.GeometryLines())
}

func (m *Matcher) scan(lines []string, located []model.TextLine) Set {
	set := newSet()
	norm := make([]string, len(lines))
	for i, l := range lines {
		norm[i] = Normalize(l)
	}

	for _, line := range norm {
		if match, ok := m.MatchLetter(line); ok {
			set.letters[match.Label] = true
		}
	}

	if len(set.letters) == 1 {
		m.inferFromPlaceholders(norm, &set)
	}
	if len(set.letters) == 1 {
		m.inferFromContent(norm, &set)
	}

	for _, line := range norm {
		for _, match := range m.MatchNumerals(line) {
			set.numerals[match.Label] = true
		}
	}

	if set.Count() == 0 {
		set.unmarked = m.Unmarked(lines, located)
	}
	return set
}

var (
	firstMarkerRe = regexp.MustCompile(`^[A-D]$|^[A-D][.。、,)]|^[A-D]\s+`)
	placeholderRe = regexp.MustCompile(`^\?+\s*$`)
	clockRe       = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
	letterOrder   = []string{"A", "B", "C", "D"}
)

func firstMarkerIndex(lines []string) int {
	for i, l := range lines {
		if firstMarkerRe.MatchString(l) {
			return i
		}
	}
	return -1
}

// inferFromPlaceholders handles damaged markers read as bare "?" lines
// directly after the one readable marker.
func (m *Matcher) inferFromPlaceholders(lines []string, set *Set) {
	if len(lines) < 3 {
		return
	}
	first := firstMarkerIndex(lines)
	if first < 0 {
		return
	}
	run := 0
	for _, l := range lines[first+1:] {
		if !placeholderRe.MatchString(l) {
			break
		}
		run++
	}
	if run >= 2 && run <= 3 {
		m.addInferred(set, run)
	}
}

// inferFromContent handles markers hidden by an overlay while the option
// text itself is still readable.
func (m *Matcher) inferFromContent(lines []string, set *Set) {
	if len(lines) < 4 {
		return
	}
	first := firstMarkerIndex(lines)
	if first < 0 || first >= len(lines)-2 {
		return
	}
	var indices []int
	for i, l := range lines[first+1:] {
		if m.isContentCandidate(l) {
			indices = append(indices, i)
			if len(indices) == m.config.CandidateLookahead {
				break
			}
		}
	}
	if len(indices) < 2 || len(indices) > 4 {
		return
	}
	for i := 1; i < len(indices); i++ {
		if indices[i]-indices[i-1] > m.config.MaxCandidateGap {
			return
		}
	}
	m.addInferred(set, len(indices))
}

func (m *Matcher) isContentCandidate(line string) bool {
	n := utf8.RuneCountInString(line)
	if n < m.config.CandidateMinRunes || n > m.config.CandidateMaxRunes {
		return false
	}
	if float64(countNonLatinLetters(line))*m.config.NonLatinWeight <= float64(n) {
		return false
	}
	if hasAnyPrefix(line, uiChromePrefixes) || clockRe.MatchString(line) {
		return false
	}
	return strings.IndexFunc(line, unicode.IsLetter) >= 0
}

func countNonLatinLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.Is(unicode.Latin, r) {
			n++
		}
	}
	return n
}

// addInferred fills in n missing letters around the single detected one.
// A is followed by B, C, D; B is preceded by A and followed by C, D;
// C and D take the remaining letters in order.
func (m *Matcher) addInferred(set *Set, n int) {
	var found string
	for k := range set.letters {
		found = k
	}

	var candidates []string
	if found == "B" {
		candidates = []string{"A", "C", "D"}
	} else {
		for _, l := range letterOrder {
			if l != found {
				candidates = append(candidates, l)
			}
		}
	}
	if n > len(candidates) {
		n = len(candidates)
	}
	for _, l := range candidates[:n] {
		if len(set.letters) >= m.config.MaxOptions {
			break
		}
		set.letters[l] = true
		set.inferred[l] = true
	}
}

var (
	unmarkedCandidateRe = regexp.MustCompile(`^[\p{Han}a-zA-Z\s,。、:;'0-9%-]+$`)
	paginationRe        = regexp.MustCompile(`^\d+/\d+$`)
	examTitleRe         = regexp.MustCompile(`^\d+年.*考试.*题.*$`)
	timestampRe         = regexp.MustCompile(`^\d+:\d+`)
	singleCapitalRe     = regexp.MustCompile(`^[A-Z]$`)
)

func (m *Matcher) isUnmarkedCandidate(line string) bool {
	n := utf8.RuneCountInString(line)
	return n >= m.config.UnmarkedMinRunes && n <= m.config.UnmarkedMaxRunes &&
		unmarkedCandidateRe.MatchString(line) &&
		!paginationRe.MatchString(line) &&
		!examTitleRe.MatchString(line) &&
		!strings.Contains(line, "B/s") &&
		!timestampRe.MatchString(line) &&
		!singleCapitalRe.MatchString(line)
}

// Unmarked looks for options printed without any marker: a run of short,
// similarly sized lines after a very strong stem phrase. When at least
// three of those lines can be located, they must also be left aligned and
// evenly spaced. Returns the option count, capped at MaxOptions, or 0.
func (m *Matcher) Unmarked(lines []string, located []model.TextLine) int {
	norm := make([]string, len(lines))
	keyword := -1
	for i, l := range lines {
		norm[i] = Normalize(l)
		if keyword < 0 && ContainsVeryStrongPhrase(l) {
			keyword = i
		}
	}
	if keyword < 0 || keyword >= len(lines)-2 {
		return 0
	}

	var candidates []string
	for _, l := range norm[keyword+1:] {
		if l == "" {
			continue
		}
		if m.isUnmarkedCandidate(l) {
			candidates = append(candidates, l)
			continue
		}
		if len(candidates) >= m.config.UnmarkedMinLines {
			break
		}
		candidates = candidates[:0]
	}
	if len(candidates) < m.config.UnmarkedMinLines {
		return 0
	}

	lengths := make([]float64, len(candidates))
	for i, c := range candidates {
		lengths[i] = float64(utf8.RuneCountInString(c))
	}
	if stats.Mean(lengths) <= 0 || stats.CV(lengths) >= m.config.LengthCVMax {
		return 0
	}

	if boxes := locate(candidates, located); len(boxes) >= m.config.UnmarkedMinLines {
		if m.unmarkedLayoutScore(boxes) < m.config.MinUnmarkedLayout {
			return 0
		}
	}

	if len(candidates) > m.config.MaxOptions {
		return m.config.MaxOptions
	}
	return len(candidates)
}

// locate finds the box of each candidate by exact text match
func locate(candidates []string, located []model.TextLine) []model.Rect {
	var boxes []model.Rect
	for _, c := range candidates {
		for _, l := range located {
			if Normalize(l.Text) == c {
				boxes = append(boxes, l.Box)
				break
			}
		}
	}
	return boxes
}

func (m *Matcher) unmarkedLayoutScore(boxes []model.Rect) float64 {
	xs := make([]float64, len(boxes))
	for i, b := range boxes {
		xs[i] = b.Left
	}
	alignment := 0.0
	if avg := stats.Mean(xs); avg > 0 {
		alignment = stats.Consistency(stats.MaxDeviation(xs)/avg, m.config.AlignmentTolerance)
	}

	sorted := append([]model.Rect(nil), boxes...)
	sortByTop(sorted)
	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, sorted[i].Top-sorted[i-1].Bottom)
	}
	spacing := 0.0
	if stats.Mean(gaps) > 0 {
		spacing = stats.Consistency(stats.CV(gaps), m.config.SpacingCVTolerance)
	}

	return alignment*m.config.AlignmentWeight + spacing*m.config.SpacingWeight
}

func sortByTop(rects []model.Rect) {
	sort.SliceStable(rects, func(i, j int) bool {
		return rects[i].Top < rects[j].Top
	})
}
