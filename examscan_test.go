package examscan

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tsawler/examscan/config"
	"github.com/tsawler/examscan/format"
	"github.com/tsawler/examscan/model"
	"github.com/tsawler/examscan/scoring"
)

func line(text string, left, top, right, bottom float64) model.TextLine {
	return model.TextLine{Text: text, Box: model.NewRect(left, top, right, bottom)}
}

// questionPage returns a 1000x1400 page holding one printed question
func questionPage() *model.RecognizedPage {
	lines := []model.TextLine{line("1. 下列说法正确的是", 40, 100, 900, 140)}
	for i, letter := range []string{"A", "B", "C", "D"} {
		y := 160 + float64(i)*40
		lines = append(lines, line(letter+".选项内容", 60, y, 400, y+30))
	}
	var blocks []model.TextBlock
	for _, l := range lines {
		blocks = append(blocks, model.TextBlock{Box: l.Box, Lines: []model.TextLine{l}})
	}
	page := model.NewPage(blocks)
	page.Width, page.Height = 1000, 1400
	return page
}

func chatPage() *model.RecognizedPage {
	return model.NewPage([]model.TextBlock{
		{Lines: []model.TextLine{{Text: "今晚回家吃饭吗"}}},
		{Lines: []model.TextLine{{Text: "好呀"}}},
	})
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func writePage(t *testing.T, page *model.RecognizedPage) string {
	t.Helper()
	data, err := json.Marshal(page)
	if err != nil {
		t.Fatal(err)
	}
	return writeFile(t, "page.json", data)
}

// ============================================================================
// Fluent API
// ============================================================================

func TestFromPageAnalyze(t *testing.T) {
	a, err := FromPage(questionPage()).Analyze()
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !a.Detection.IsQuestion {
		t.Errorf("IsQuestion = false via %s", a.Detection.Rule)
	}
	if len(a.Detection.Options) != 4 {
		t.Errorf("got %d options, want 4", len(a.Detection.Options))
	}
	if len(a.Regions) != 1 {
		t.Fatalf("got %d regions, want 1", len(a.Regions))
	}
	if want := model.NewRect(25, 90, 915, 315); a.Regions[0].Box != want {
		t.Errorf("region = %+v, want %+v", a.Regions[0].Box, want)
	}
}

func TestChainMethodsDoNotMutate(t *testing.T) {
	base := FromPage(questionPage())
	silent := base.Weights(scoring.Weights{AutoThreshold: 40, ConfirmThreshold: 15})

	strict, err := silent.Detect()
	if err != nil {
		t.Fatal(err)
	}
	if strict.IsQuestion || strict.Scoring.Score != 0 {
		t.Errorf("zero weights: IsQuestion = %v, score = %v", strict.IsQuestion, strict.Scoring.Score)
	}

	normal, err := base.Detect()
	if err != nil {
		t.Fatal(err)
	}
	if !normal.IsQuestion {
		t.Error("base scanner was changed by a chained call")
	}
}

func TestGatesMoveCoreMarkerCount(t *testing.T) {
	g := scoring.DefaultGates()
	g.CoreMarkers = 4
	s := FromPage(questionPage()).Gates(g)
	if s.options.detector.Thresholds.CoreMarkers != 4 {
		t.Errorf("Thresholds.CoreMarkers = %d, want 4", s.options.detector.Thresholds.CoreMarkers)
	}
}

func TestConfigErrorSurfaces(t *testing.T) {
	cfg := config.Default()
	cfg.Regions.OptionPattern = "(["
	_, err := FromPage(questionPage()).Config(cfg).Detect()
	if err == nil {
		t.Error("Detect() should report the configuration error")
	}
}

func TestNoSource(t *testing.T) {
	if _, err := New().Detect(); !errors.Is(err, ErrNoSource) {
		t.Errorf("Detect() error = %v, want ErrNoSource", err)
	}
}

func TestMust(t *testing.T) {
	if got := Must(42, nil); got != 42 {
		t.Errorf("Must() = %d", got)
	}
	defer func() {
		if recover() == nil {
			t.Error("Must() should panic on error")
		}
	}()
	Must(0, errors.New("boom"))
}

// ============================================================================
// Loading
// ============================================================================

func TestOpenJSON(t *testing.T) {
	res, err := Open(writePage(t, questionPage())).Detect()
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if !res.IsQuestion {
		t.Errorf("IsQuestion = false via %s", res.Rule)
	}
}

func TestOpenJSONBlocksOnly(t *testing.T) {
	data := []byte(`{
  "success": true,
  "blocks": [
    {"box": {"left": 40, "top": 100, "right": 900, "bottom": 140},
     "lines": [{"text": "1. 下列说法正确的是", "box": {"left": 40, "top": 100, "right": 900, "bottom": 140}}]}
  ]
}`)
	page, err := Open(writeFile(t, "blocks.json", data)).Page()
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	if page.Text != "1. 下列说法正确的是" || len(page.Lines) != 1 || !page.Success {
		t.Errorf("page = %+v", page)
	}
}

func TestOpenHOCR(t *testing.T) {
	doc := `<html><body><div class="ocr_page" title="bbox 0 0 1000 1400">
<p class="ocr_par" title="bbox 40 100 900 140"><span class="ocr_line" title="bbox 40 100 900 140">1. 下列说法正确的是</span></p>
</div></body></html>`
	page, err := Open(writeFile(t, "page.hocr", []byte(doc))).Page()
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	if page.Height != 1400 || len(page.Blocks) != 1 {
		t.Errorf("page = %+v", page)
	}
}

func TestOpenErrors(t *testing.T) {
	if _, err := Open(writeFile(t, "notes.txt", []byte("hello"))).Detect(); !errors.Is(err, format.ErrUnsupported) {
		t.Errorf("unsupported file error = %v", err)
	}
	if _, err := Open(writeFile(t, "bad.json", []byte("{"))).Detect(); err == nil {
		t.Error("malformed JSON should fail")
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing.json")).Detect(); err == nil {
		t.Error("missing file should fail")
	}
}

// ============================================================================
// Batches
// ============================================================================

func TestDetectAllPreservesOrder(t *testing.T) {
	var pages []*model.RecognizedPage
	for i := 0; i < 10; i++ {
		if i%2 == 0 {
			pages = append(pages, questionPage())
		} else {
			pages = append(pages, chatPage())
		}
	}

	for _, workers := range []int{0, 1, 3, 50} {
		got := DetectAll(pages, workers)
		if len(got) != len(pages) {
			t.Fatalf("workers=%d: got %d results", workers, len(got))
		}
		for i, res := range got {
			single := FromPage(pages[i])
			want, _ := single.Detect()
			if !reflect.DeepEqual(res, want) {
				t.Errorf("workers=%d: result %d differs from a single detection", workers, i)
			}
			if res.IsQuestion != (i%2 == 0) {
				t.Errorf("workers=%d: result %d IsQuestion = %v", workers, i, res.IsQuestion)
			}
		}
	}

	if got := DetectAll(nil, 4); len(got) != 0 {
		t.Errorf("DetectAll(nil) = %v", got)
	}
}

func TestAnalyzeFiles(t *testing.T) {
	good := writePage(t, questionPage())
	missing := filepath.Join(t.TempDir(), "missing.json")

	out := New().AnalyzeFiles(context.Background(), []string{good, missing, good}, 2)
	if len(out) != 3 {
		t.Fatalf("got %d results", len(out))
	}
	if out[0].Err != nil || !out[0].Analysis.Detection.IsQuestion {
		t.Errorf("first file: %+v", out[0])
	}
	if out[1].Err == nil || out[1].Source != missing {
		t.Errorf("missing file: %+v", out[1])
	}
	if !reflect.DeepEqual(out[0].Analysis, out[2].Analysis) {
		t.Error("same file analyzed differently")
	}
}

func TestAnalyzeFilesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := New().AnalyzeFiles(ctx, []string{writePage(t, questionPage())}, 1)
	if !errors.Is(out[0].Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", out[0].Err)
	}
}
