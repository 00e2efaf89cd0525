// Package hocr reads Tesseract hOCR output into recognized pages.
//
// Each ocr_page element becomes a [model.RecognizedPage]. Paragraphs
// (ocr_par) become text blocks and ocr_line, ocr_header, ocr_caption and
// ocr_textfloat elements become lines. Word confidences (x_wconf) are
// averaged into the line confidence.
package hocr

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/tsawler/examscan/internal/stats"
	"github.com/tsawler/examscan/model"
)

// ErrNoPage is returned when the document holds no ocr_page element.
var ErrNoPage = errors.New("hocr: no ocr_page element")

var lineClasses = []string{"ocr_line", "ocr_header", "ocr_caption", "ocr_textfloat"}

// Open reads the first page of an hOCR file.
func Open(filename string) (*model.RecognizedPage, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads the first page of an hOCR document.
func Parse(r io.Reader) (*model.RecognizedPage, error) {
	pages, err := ParseAll(r)
	if err != nil {
		return nil, err
	}
	return pages[0], nil
}

// ParseAll reads every page of an hOCR document in document order.
func ParseAll(r io.Reader) ([]*model.RecognizedPage, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing hOCR: %w", err)
	}

	var pages []*model.RecognizedPage
	walk(doc, func(n *html.Node) bool {
		if hasClass(n, "ocr_page") {
			pages = append(pages, parsePage(n))
			return false
		}
		return true
	})
	if len(pages) == 0 {
		return nil, ErrNoPage
	}
	return pages, nil
}

// walk visits element nodes depth first. Returning false from visit skips
// the node's children.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if n.Type == html.ElementNode && !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func parsePage(n *html.Node) *model.RecognizedPage {
	var blocks []model.TextBlock
	walk(n, func(c *html.Node) bool {
		switch {
		case c == n:
			return true
		case hasClass(c, "ocr_par"):
			if b, ok := parseBlock(c); ok {
				blocks = append(blocks, b)
			}
			return false
		case isLine(c):
			// a line outside any paragraph is a block of its own
			if l, ok := parseLine(c); ok {
				blocks = append(blocks, model.TextBlock{Box: l.Box, Lines: []model.TextLine{l}})
			}
			return false
		}
		return true
	})

	page := model.NewPage(blocks)
	if box, ok := bbox(n); ok {
		page.Width = box.Width()
		page.Height = box.Height()
	}
	return page
}

func parseBlock(n *html.Node) (model.TextBlock, bool) {
	var lines []model.TextLine
	walk(n, func(c *html.Node) bool {
		if c != n && isLine(c) {
			if l, ok := parseLine(c); ok {
				lines = append(lines, l)
			}
			return false
		}
		return true
	})
	if len(lines) == 0 {
		return model.TextBlock{}, false
	}

	box, ok := bbox(n)
	if !ok {
		box = unionBoxes(lines)
	}
	return model.TextBlock{Box: box, Lines: lines}, true
}

func parseLine(n *html.Node) (model.TextLine, bool) {
	var words []string
	var confs []float64
	var wordLines []model.TextLine
	walk(n, func(c *html.Node) bool {
		if !hasClass(c, "ocrx_word") {
			return true
		}
		text := collapse(textContent(c))
		if text == "" {
			return false
		}
		words = append(words, text)
		if conf, ok := wconf(c); ok {
			confs = append(confs, conf)
		}
		if box, ok := bbox(c); ok {
			wordLines = append(wordLines, model.TextLine{Box: box})
		}
		return false
	})

	line := model.TextLine{}
	if len(words) > 0 {
		line.Text = joinWords(words)
	} else {
		line.Text = collapse(textContent(n))
	}
	if line.Text == "" {
		return line, false
	}
	if len(confs) > 0 {
		line.Confidence = stats.Clamp01(stats.Mean(confs) / 100)
	}
	if box, ok := bbox(n); ok {
		line.Box = box
	} else if len(wordLines) > 0 {
		line.Box = unionBoxes(wordLines)
	}
	return line, true
}

func unionBoxes(lines []model.TextLine) model.Rect {
	var box model.Rect
	first := true
	for _, l := range lines {
		if !l.HasBox() {
			continue
		}
		if first {
			box, first = l.Box, false
			continue
		}
		box = box.Union(l.Box)
	}
	return box
}

// joinWords joins recognized words with single spaces, except between two
// CJK runes where no space is written.
func joinWords(words []string) string {
	var b strings.Builder
	for i, w := range words {
		if i > 0 {
			last, _ := utf8.DecodeLastRuneInString(words[i-1])
			next, _ := utf8.DecodeRuneInString(w)
			if !isCJK(last) || !isCJK(next) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(w)
	}
	return b.String()
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		(r >= 0x3000 && r <= 0x303F) || // CJK punctuation
		(r >= 0xFF00 && r <= 0xFFEF) // fullwidth forms
}

func isLine(n *html.Node) bool {
	for _, c := range lineClasses {
		if hasClass(n, c) {
			return true
		}
	}
	return false
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// properties splits an hOCR title attribute such as
// "bbox 0 0 10 10; x_wconf 93" into named fields.
func properties(n *html.Node) map[string][]string {
	out := make(map[string][]string)
	for _, part := range strings.Split(getAttr(n, "title"), ";") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		out[fields[0]] = fields[1:]
	}
	return out
}

func bbox(n *html.Node) (model.Rect, bool) {
	fields := properties(n)["bbox"]
	if len(fields) != 4 {
		return model.Rect{}, false
	}
	var v [4]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return model.Rect{}, false
		}
		v[i] = x
	}
	r := model.NewRect(v[0], v[1], v[2], v[3])
	return r, r.IsValid()
}

func wconf(n *html.Node) (float64, bool) {
	fields := properties(n)["x_wconf"]
	if len(fields) != 1 {
		return 0, false
	}
	c, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return c, true
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
