package markers

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Rule recognizes one marker format. Match returns the canonical label
// ("A".."D" or a circled numeral) when the line carries that format.
type Rule struct {
	Name  string
	Match func(line string) (label string, ok bool)
}

var (
	bareLetterRe     = regexp.MustCompile(`^[A-D]$`)
	letterPunctRe    = regexp.MustCompile(`^[A-D][.。、,)]`)
	letterColonRe    = regexp.MustCompile(`^[A-D]:[^0-9]`)
	letterSpaceHanRe = regexp.MustCompile(`^[A-D]\s+\p{Han}`)
	letterGluedHanRe = regexp.MustCompile(`^[A-D]\p{Han}`)
	parenLetterRe    = regexp.MustCompile(`^\(([A-D])\)`)
	prefixLetterRe   = regexp.MustCompile(`(?:^|\s)([A-D])(?:[.。、)]|\s+[^a-z\s])`)
	prefixLeadingRe  = regexp.MustCompile(`^([A-D])\s+[^a-z\s]`)
	prefixLabelRe    = regexp.MustCompile(`(?i:选项|答案|选择|option|answer):*\s*([A-D])[.。、)\s]`)
	leadingNumeralRe = regexp.MustCompile(`^[①②③④⑤⑥⑦⑧⑨⑩]`)
	numeralPunctRe   = regexp.MustCompile(`^[).。、:;\s]*$`)
	numeralContentRe = regexp.MustCompile(`^[\p{Han}a-zA-Z0-9\s,。、:;]`)
	parenNumeralRe   = regexp.MustCompile(`^\(([①②③④⑤⑥⑦⑧⑨⑩])\)`)
	labelNumeralRe   = regexp.MustCompile(`(?i:选项|答案|选择|option|answer):*\(*([①②③④⑤⑥⑦⑧⑨⑩])`)
	optionLineRes    = []*regexp.Regexp{
		bareLetterRe,
		regexp.MustCompile(`^[A-D][.。、,)]`),
		letterColonRe,
		letterSpaceHanRe,
		parenLetterRe,
		leadingNumeralRe,
	}
)

// Normalize folds fullwidth ASCII variants to their narrow forms and trims
// surrounding space, so "Ａ．" and "A." match the same rules.
func Normalize(line string) string {
	return strings.TrimSpace(width.Fold.String(line))
}

func firstRune(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	return string(r)
}

func matchWhole(re *regexp.Regexp) func(string) (string, bool) {
	return func(line string) (string, bool) {
		if re.MatchString(line) {
			return firstRune(line), true
		}
		return "", false
	}
}

func matchGroup(re *regexp.Regexp) func(string) (string, bool) {
	return func(line string) (string, bool) {
		if m := re.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
		return "", false
	}
}

// prefixWindow returns the first n runes of line
func prefixWindow(line string, n int) string {
	if utf8.RuneCountInString(line) <= n {
		return line
	}
	i := 0
	for pos := range line {
		if i == n {
			return line[:pos]
		}
		i++
	}
	return line
}

// DefaultLetterRules returns the ordered letter marker formats. The first
// matching rule decides; new formats are appended, never reordered.
func DefaultLetterRules(prefixRunes int) []Rule {
	return []Rule{
		{Name: "bare-letter", Match: matchWhole(bareLetterRe)},
		{Name: "letter-punct", Match: matchWhole(letterPunctRe)},
		{Name: "letter-colon", Match: matchWhole(letterColonRe)},
		{Name: "letter-space-han", Match: matchWhole(letterSpaceHanRe)},
		{Name: "letter-glued-han", Match: matchWhole(letterGluedHanRe)},
		{Name: "paren-letter", Match: matchGroup(parenLetterRe)},
		{Name: "prefix-window", Match: func(line string) (string, bool) {
			prefix := prefixWindow(line, prefixRunes)
			for _, re := range []*regexp.Regexp{prefixLetterRe, prefixLeadingRe, prefixLabelRe} {
				if m := re.FindStringSubmatch(prefix); m != nil {
					return m[1], true
				}
			}
			return "", false
		}},
	}
}

// DefaultNumeralRules returns the circled numeral formats. Unlike letters,
// every numeral rule runs on every line.
func DefaultNumeralRules() []Rule {
	return []Rule{
		{Name: "leading-numeral", Match: func(line string) (string, bool) {
			m := leadingNumeralRe.FindString(line)
			if m == "" {
				return "", false
			}
			rest := strings.TrimSpace(line[len(m):])
			if hasAnyPrefix(rest, numeralChromePrefixes) {
				return "", false
			}
			if rest == "" || numeralPunctRe.MatchString(rest) || numeralContentRe.MatchString(rest) {
				return m, true
			}
			return "", false
		}},
		{Name: "paren-numeral", Match: matchGroup(parenNumeralRe)},
		{Name: "labelled-numeral", Match: matchGroup(labelNumeralRe)},
	}
}

// IsOptionLine reports whether a line starts with an option marker format.
// It is the predicate used to tell options from stem text.
func IsOptionLine(line string) bool {
	s := Normalize(line)
	for _, re := range optionLineRes {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
