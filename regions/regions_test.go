package regions

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/tsawler/examscan/model"
)

func line(text string, left, top, right, bottom float64) model.TextLine {
	return model.TextLine{Text: text, Box: model.NewRect(left, top, right, bottom)}
}

// question returns a number line and four option lines starting at top
func question(number string, top float64) []model.TextLine {
	lines := []model.TextLine{line(number+". 下列说法正确的是", 40, top, 900, top+40)}
	for i, letter := range []string{"A", "B", "C", "D"} {
		y := top + 60 + float64(i)*40
		lines = append(lines, line(letter+".选项内容", 60, y, 400, y+30))
	}
	return lines
}

func pageOf(width, height float64, groups ...[]model.TextLine) *model.RecognizedPage {
	var blocks []model.TextBlock
	for _, g := range groups {
		for _, l := range g {
			blocks = append(blocks, model.TextBlock{Box: l.Box, Lines: []model.TextLine{l}})
		}
	}
	page := model.NewPage(blocks)
	page.Width, page.Height = width, height
	return page
}

func assertSeparated(t *testing.T, regions []Region) {
	t.Helper()
	for i, r := range regions {
		if !r.Box.IsValid() {
			t.Errorf("region %d has no area: %+v", i, r.Box)
		}
		if i == 0 {
			continue
		}
		if regions[i-1].Box.Top > r.Box.Top {
			t.Errorf("regions %d and %d out of order", i-1, i)
		}
		for j := 0; j < i; j++ {
			if regions[j].Box.Overlaps(r.Box) {
				t.Errorf("regions %d and %d overlap: %+v %+v", j, i, regions[j].Box, r.Box)
			}
		}
	}
}

func TestSegmentThreeQuestions(t *testing.T) {
	page := pageOf(1000, 1400, question("1", 100), question("2", 400), question("3", 700))
	got := Segment(page)
	if len(got) != 3 {
		t.Fatalf("Segment() returned %d regions, want 3", len(got))
	}

	want := []struct {
		number string
		box    model.Rect
	}{
		{"1", model.NewRect(25, 90, 915, 315)},
		{"2", model.NewRect(25, 390, 915, 615)},
		{"3", model.NewRect(25, 690, 915, 915)},
	}
	for i, w := range want {
		if got[i].Number != w.number {
			t.Errorf("region %d Number = %q, want %q", i, got[i].Number, w.number)
		}
		if got[i].Box != w.box {
			t.Errorf("region %d Box = %+v, want %+v", i, got[i].Box, w.box)
		}
		if got[i].Confidence != 0.95 {
			t.Errorf("region %d Confidence = %v, want 0.95", i, got[i].Confidence)
		}
	}
	assertSeparated(t, got)
}

func TestSegmentRejectsNonNumberLines(t *testing.T) {
	page := pageOf(1000, 1400,
		question("1", 100),
		[]model.TextLine{
			line("5. 右侧的编号", 600, 500, 900, 540),
			line("100. 三位数", 40, 600, 300, 640),
			line("12:30", 40, 700, 120, 740),
			line("3. 太矮的行", 40, 800, 300, 805),
		},
	)
	got := Segment(page)
	if len(got) != 1 || got[0].Number != "1" {
		t.Errorf("Segment() = %+v, want only question 1", got)
	}
}

func TestSegmentCloseNumbersDoNotOverlap(t *testing.T) {
	page := pageOf(1000, 400,
		[]model.TextLine{line("1. 第一题", 40, 100, 900, 140)},
		[]model.TextLine{line("2. 第二题", 40, 150, 900, 190)},
	)
	got := Segment(page)
	if len(got) != 2 {
		t.Fatalf("Segment() returned %d regions, want 2", len(got))
	}
	if got[0].Box.Bottom != got[1].Box.Top {
		t.Errorf("shared edge: %v vs %v", got[0].Box.Bottom, got[1].Box.Top)
	}
	assertSeparated(t, got)
}

func TestSegmentDropsRegionsTrimmedByOverlap(t *testing.T) {
	page := pageOf(0, 0,
		[]model.TextLine{
			line("1. 第一题", 40, 100, 900, 130),
			line("题干内容延续到下一行", 40, 135, 900, 175),
		},
		[]model.TextLine{line("2. 第二题", 40, 160, 900, 190)},
	)
	cfg := DefaultConfig()
	for _, r := range NewSegmenterWithConfig(cfg).Segment(page) {
		if r.Box.Width() <= cfg.MinWidth || r.Box.Height() <= cfg.MinHeight {
			t.Errorf("region %s kept at %.0fx%.0f", r.Number, r.Box.Width(), r.Box.Height())
		}
	}
}

func TestSegmentLastQuestionWithoutOptions(t *testing.T) {
	page := pageOf(800, 1000,
		[]model.TextLine{
			line("7、阅读下面的材料回答问题", 30, 200, 700, 240),
			line("材料内容第一行", 30, 260, 650, 290),
			line("材料内容第二行", 30, 300, 660, 330),
		},
	)
	got := Segment(page)
	if len(got) != 1 {
		t.Fatalf("Segment() returned %d regions, want 1", len(got))
	}
	if want := model.NewRect(15, 190, 715, 335); got[0].Box != want {
		t.Errorf("Box = %+v, want %+v", got[0].Box, want)
	}
}

func TestSegmentDiscardsTinyRegions(t *testing.T) {
	page := pageOf(1000, 1000, []model.TextLine{line("9.", 10, 10, 30, 30)})
	if got := Segment(page); len(got) != 0 {
		t.Errorf("Segment() = %+v, want none", got)
	}
}

func TestSegmentFailedOrEmptyPage(t *testing.T) {
	tests := []struct {
		name string
		page *model.RecognizedPage
	}{
		{"nil", nil},
		{"failed", &model.RecognizedPage{Success: false, Error: "recognizer timeout"}},
		{"no lines", &model.RecognizedPage{Success: true}},
		{"no geometry", &model.RecognizedPage{Success: true, Lines: []model.TextLine{{Text: "1. 题目"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Segment(tt.page); len(got) != 0 {
				t.Errorf("Segment() = %+v, want none", got)
			}
		})
	}
}

func TestSegmentIsDeterministic(t *testing.T) {
	page := pageOf(1000, 1400, question("1", 100), question("2", 400))
	s := NewSegmenter()
	first := s.Segment(page)
	second := s.Segment(page)
	if len(first) != len(second) {
		t.Fatal("region count changed between runs")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("region %d changed: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSegmentLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	NewSegmenterWithConfig(cfg).Segment(pageOf(1000, 1400, question("4", 100)))
	if !strings.Contains(buf.String(), "question number line") {
		t.Errorf("expected a debug trace, got %q", buf.String())
	}
}

func TestNilPatternsFallBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumberPattern = nil
	cfg.OptionPattern = nil
	got := NewSegmenterWithConfig(cfg).Segment(pageOf(1000, 1400, question("1", 100)))
	if len(got) != 1 {
		t.Errorf("Segment() returned %d regions, want 1", len(got))
	}
}
