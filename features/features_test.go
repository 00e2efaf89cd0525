package features

import (
	"math"
	"reflect"
	"testing"

	"github.com/tsawler/examscan/model"
)

// stackedPage places each line in its own block, one below the other
func stackedPage(texts []string, left, top, height, gap float64) *model.RecognizedPage {
	blocks := make([]model.TextBlock, len(texts))
	y := top
	for i, text := range texts {
		box := model.NewRect(left, y, left+300, y+height)
		blocks[i] = model.TextBlock{Box: box, Lines: []model.TextLine{{Text: text, Box: box}}}
		y += height + gap
	}
	return model.NewPage(blocks)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestExtractScenarioA(t *testing.T) {
	page := stackedPage([]string{"16.", "stem text", "A.opt1", "B.opt2", "C.opt3", "D.opt4"}, 40, 100, 40, 20)
	f := Extract(page)

	if f.OptionMarkerCount != 4 {
		t.Errorf("OptionMarkerCount = %d, want 4", f.OptionMarkerCount)
	}
	if f.NumTextBlocks != 6 || f.NumLines != 6 {
		t.Errorf("blocks/lines = %d/%d, want 6/6", f.NumTextBlocks, f.NumLines)
	}
	if !approx(f.VerticalAlignmentScore, 1) {
		t.Errorf("VerticalAlignmentScore = %v, want 1", f.VerticalAlignmentScore)
	}
	if !approx(f.OptionSpacingConsistency, 1) {
		t.Errorf("OptionSpacingConsistency = %v, want 1", f.OptionSpacingConsistency)
	}
	if !approx(f.OptionLeftAlignment, 0.6) {
		t.Errorf("OptionLeftAlignment = %v, want 0.6", f.OptionLeftAlignment)
	}
	if !approx(f.BlockSizeConsistency, 1) {
		t.Errorf("BlockSizeConsistency = %v, want 1", f.BlockSizeConsistency)
	}
	if f.OCRConfidence != 0.85 {
		t.Errorf("OCRConfidence = %v, want default 0.85", f.OCRConfidence)
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	page := stackedPage([]string{"1. 下列说法正确的是", "A. 甲", "B. 乙", "C. 丙"}, 30, 50, 30, 15)
	first := Extract(page)
	for i := 0; i < 5; i++ {
		again := Extract(page)
		if !reflect.DeepEqual(again, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestExtractEmptyPage(t *testing.T) {
	f := Extract(&model.RecognizedPage{Success: true})
	if f.NumLines != 0 || f.AvgLineLength != 0 || f.ShortLineRatio != 0 {
		t.Errorf("expected zero counts, got %+v", f)
	}
	if f.VerticalAlignmentScore != 0 || f.QuestionOptionSeparation != 0 || f.ShortLineClusterSize != 0 {
		t.Errorf("expected zero layout scores, got %+v", f)
	}
}

func TestExtractSkipsInvalidBoxes(t *testing.T) {
	page := model.NewPage([]model.TextBlock{
		{Lines: []model.TextLine{{Text: "A. 甲"}}},
		{Lines: []model.TextLine{{Text: "B. 乙", Box: model.NewRect(10, 10, 10, 40)}}},
		{Box: model.NewRect(50, 50, 20, 20), Lines: []model.TextLine{{Text: "C. 丙"}}},
	})
	f := Extract(page)
	if f.OptionMarkerCount != 3 {
		t.Errorf("OptionMarkerCount = %d, want 3", f.OptionMarkerCount)
	}
	if f.VerticalAlignmentScore != 0 || f.OptionLeftAlignment != 0 || f.BlockSizeConsistency != 0 {
		t.Errorf("layout scores should be 0 without geometry: %+v", f)
	}
}

func TestShortLineCluster(t *testing.T) {
	stemBox := model.NewRect(50, 100, 700, 140)
	blocks := []model.TextBlock{{Box: stemBox, Lines: []model.TextLine{
		{Text: "根据材料内容判断下列说法中哪一项最符合作者的原意呢", Box: stemBox},
	}}}
	for i, text := range []string{"甲乙丙", "丁戊己", "庚辛壬", "癸子丑"} {
		top := 500 + float64(i)*60
		box := model.NewRect(50, top, 200, top+30)
		blocks = append(blocks, model.TextBlock{Box: box, Lines: []model.TextLine{{Text: text, Box: box}}})
	}
	f := Extract(model.NewPage(blocks))

	if f.ShortLineClusterSize != 4 {
		t.Errorf("ShortLineClusterSize = %d, want 4", f.ShortLineClusterSize)
	}
	if f.BottomHalfShortLines != 4 {
		t.Errorf("BottomHalfShortLines = %d, want 4", f.BottomHalfShortLines)
	}
	if f.TopHalfLongLineRatio != 1 {
		t.Errorf("TopHalfLongLineRatio = %v, want 1", f.TopHalfLongLineRatio)
	}
	if !approx(f.ShortLineClusterSpacing, 1) {
		t.Errorf("ShortLineClusterSpacing = %v, want 1", f.ShortLineClusterSpacing)
	}
}

func TestShortLineClusterRejectsUnevenSpacing(t *testing.T) {
	stemBox := model.NewRect(50, 100, 700, 140)
	blocks := []model.TextBlock{{Box: stemBox, Lines: []model.TextLine{{Text: "题干", Box: stemBox}}}}
	for i, top := range []float64{500, 540, 680, 700} {
		box := model.NewRect(50, top, 200, top+15)
		text := []string{"甲乙丙", "丁戊己", "庚辛壬", "癸子丑"}[i]
		blocks = append(blocks, model.TextBlock{Box: box, Lines: []model.TextLine{{Text: text, Box: box}}})
	}
	if got := Extract(model.NewPage(blocks)).ShortLineClusterSize; got != 0 {
		t.Errorf("ShortLineClusterSize = %d, want 0", got)
	}
}

func TestQuestionOptionSeparation(t *testing.T) {
	box := func(top, bottom float64) model.Rect { return model.NewRect(40, top, 600, bottom) }
	page := model.NewPage([]model.TextBlock{
		{Box: box(50, 150), Lines: []model.TextLine{{Text: "下列说法正确的是", Box: box(50, 150)}}},
		{Box: box(700, 740), Lines: []model.TextLine{{Text: "A. 甲", Box: box(700, 740)}}},
		{Box: box(760, 800), Lines: []model.TextLine{{Text: "B. 乙", Box: box(760, 800)}}},
		{Box: box(820, 860), Lines: []model.TextLine{{Text: "C. 丙", Box: box(820, 860)}}},
	})
	// gap 550/860 > 0.15 gives 0.6, option bonus 0.15, all options in the
	// bottom third gives 0.25
	if got := Extract(page).QuestionOptionSeparation; !approx(got, 1) {
		t.Errorf("QuestionOptionSeparation = %v, want 1", got)
	}
}

func TestConfidenceFromRecognizer(t *testing.T) {
	page := &model.RecognizedPage{Success: true, Text: "a\nb\nc", Lines: []model.TextLine{
		{Text: "a", Confidence: 0.9},
		{Text: "b", Confidence: 0.7},
		{Text: "c"},
	}}
	if got := Extract(page).OCRConfidence; !approx(got, 0.8) {
		t.Errorf("OCRConfidence = %v, want 0.8", got)
	}
}

func TestHasQuestionNumber(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"1. 下列说法正确的是", true},
		{"12、根据材料", true},
		{"第3题", true},
		{"题目 5", true},
		{"(2) 甲乙", true},
		{"（4题）", true},
		{"Question 7: pick one", true},
		{"No. 3 which statement", true},
		{"16.", false},
		{"今天天气不错", false},
		{"2023年考试真题", false},
	}
	for _, tt := range tests {
		if got := HasQuestionNumber(tt.text, 15); got != tt.want {
			t.Errorf("HasQuestionNumber(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestHasQuestionNumberScansFullTextAfterWindow(t *testing.T) {
	text := ""
	for i := 0; i < 20; i++ {
		text += "普通内容\n"
	}
	text += "参见第8题"
	if !HasQuestionNumber(text, 15) {
		t.Error("full-text pattern beyond the scan window should still match")
	}
}

func TestTextSignals(t *testing.T) {
	if !HasTypeLabel("【单选题】") || !HasTypeLabel("Single Choice") {
		t.Error("expected type labels to match")
	}
	if HasTypeLabel("今天吃什么") {
		t.Error("unexpected type label")
	}
	if !HasStemKeywords("下列选项中") || !HasStemKeywords("Which of the following is true") {
		t.Error("expected stem keywords to match")
	}
	if !HasMathSymbols("x ≥ 3") || HasMathSymbols("plain") {
		t.Error("math symbol detection wrong")
	}
	if !HasAlternativeMarkers("○ 选项") || !HasAlternativeMarkers("— 破折号") {
		t.Error("alternative markers not detected")
	}
	if !HasSeparatorMarkers("甲 | 乙") || HasSeparatorMarkers("甲乙") {
		t.Error("separator detection wrong")
	}
}

func TestRatios(t *testing.T) {
	if got := PunctuationRatio("甲，乙。"); !approx(got, 0.5) {
		t.Errorf("PunctuationRatio = %v, want 0.5", got)
	}
	if got := DigitRatio("12ab"); !approx(got, 0.5) {
		t.Errorf("DigitRatio = %v, want 0.5", got)
	}
	if PunctuationRatio("") != 0 || DigitRatio("") != 0 {
		t.Error("empty text should give 0")
	}
	if got := RareSymbolCount("￥99 @商家 #热卖"); got != 3 {
		t.Errorf("RareSymbolCount = %d, want 3", got)
	}
}
