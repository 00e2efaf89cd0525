package features

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// StemKeywords are phrases that typically appear in a question stem.
var StemKeywords = []string{
	"正确的一项是", "正确的是", "错误的是", "不正确的是",
	"下列", "以下",
	"分类", "分为", "分成",
	"选出", "选出的是",
	"依次填入", "填入", "填入划横线", "填入横线", "划横线",
	"最恰当的一项是", "最恰当的是", "最合适的一项是", "最合适的是",
	"填入画横线", "填入画线", "填入下划线",
	"画横线", "画線", "画线", "横线", "橫线", "下划线",
	"最恰当", "最合适", "的一项是", "的是",
	"镇入", "填入画", "填入横",
	"可以推出", "推出", "可以得出", "得出", "可以推断", "推断",
	"可能的结果", "结果是",
	"which of the following", "the following statements", "is correct",
	"is incorrect", "fill in the blank", "most appropriate", "can be inferred",
	"can be concluded", "select the",
}

// TypeLabels name a question type explicitly.
var TypeLabels = []string{
	"单选题", "多选题", "判断题", "选择题", "填空题", "问答题",
	"single choice", "multiple choice", "true or false", "true/false",
	"true-false", "short answer",
}

var (
	numberLineStartPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\s*\d+[.。、]\s*\p{Han}`),
		regexp.MustCompile(`^\s*\d+\s*题`),
		regexp.MustCompile(`^\s*题\s*\d+`),
		regexp.MustCompile(`^\s*第\s*\d+`),
		regexp.MustCompile(`^\s*题目\s*\d+`),
		regexp.MustCompile(`^\s*[（(]\s*\d+\s*[）)]\s*\p{Han}`),
		regexp.MustCompile(`^\s*[（(]\s*\d+\s*题\s*[）)]`),
		regexp.MustCompile(`(?i)^\s*(?:no\.|question|q)\s*\d+`),
	}

	numberAnywherePatterns = []*regexp.Regexp{
		regexp.MustCompile(`第\s*\d+\s*题`),
		regexp.MustCompile(`题目\s*\d+`),
		regexp.MustCompile(`题\s*\d+`),
		regexp.MustCompile(`题\s*\d+\s*[：:]`),
		regexp.MustCompile(`[（(]\s*\d+\s*题\s*[）)]`),
		regexp.MustCompile(`(?i)\bquestion\s+\d+`),
	}

	leadingDashRe = regexp.MustCompile(`^\s*[-—–]`)
	circledRe     = regexp.MustCompile(`[①②③④⑤⑥⑦⑧⑨⑩]`)
)

const (
	punctuationRunes = "，。！？、；：“”‘’\"'（）【】《》…—"
	mathRunes        = "=≠<>≤≥±×÷∑∏∫√∞∠°%"
	rareSymbolRunes  = "￥$@#%&*+=<>《》【】[]{}「」"
)

var (
	alternativeMarkers = []string{"·", "-", "○", "●", "■", "□", "→", "—"}
	separatorMarkers   = []string{"|", "｜", "/", "\\", "——"}
)

// ContainsAny reports whether text contains any of the phrases, ignoring
// case for Latin text.
func ContainsAny(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// HasStemKeywords reports whether text contains a stem keyword
func HasStemKeywords(text string) bool {
	return ContainsAny(text, StemKeywords)
}

// HasTypeLabel reports whether text names a question type
func HasTypeLabel(text string) bool {
	return ContainsAny(text, TypeLabels)
}

// HasQuestionNumber looks for a question index. The first scanLines
// non-empty lines are tried against line-start and anywhere patterns, then
// the whole text against the anywhere patterns.
func HasQuestionNumber(text string, scanLines int) bool {
	lines := strings.Split(text, "\n")
	if len(lines) > scanLines {
		lines = lines[:scanLines]
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		for _, re := range numberLineStartPatterns {
			if re.MatchString(trimmed) {
				return true
			}
		}
		for _, re := range numberAnywherePatterns {
			if re.MatchString(trimmed) {
				return true
			}
		}
	}
	for _, re := range numberAnywherePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func countRunesIn(text, set string) int {
	n := 0
	for _, r := range text {
		if strings.ContainsRune(set, r) {
			n++
		}
	}
	return n
}

// PunctuationRatio returns the share of runes that are CJK punctuation
func PunctuationRatio(text string) float64 {
	total := utf8.RuneCountInString(text)
	if total == 0 {
		return 0
	}
	return float64(countRunesIn(text, punctuationRunes)) / float64(total)
}

// DigitRatio returns the share of runes that are decimal digits
func DigitRatio(text string) float64 {
	total, digits := 0, 0
	for _, r := range text {
		total++
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(digits) / float64(total)
}

// RareSymbolCount counts currency, markup and bracket symbols that are
// common in shopping, chat and code screenshots but rare in questions.
func RareSymbolCount(text string) int {
	return countRunesIn(text, rareSymbolRunes)
}

// HasMathSymbols reports whether any math symbol appears
func HasMathSymbols(text string) bool {
	return strings.ContainsAny(text, mathRunes)
}

// HasAlternativeMarkers reports bullets, dashes, arrows or circled numerals
// that may stand in for letter markers.
func HasAlternativeMarkers(text string) bool {
	for _, m := range alternativeMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	if circledRe.MatchString(text) {
		return true
	}
	for _, line := range strings.Split(text, "\n") {
		if leadingDashRe.MatchString(line) {
			return true
		}
	}
	return false
}

// HasSeparatorMarkers reports glyphs that separate inline options
func HasSeparatorMarkers(text string) bool {
	for _, s := range separatorMarkers {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
