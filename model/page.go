package model

import (
	"math"
	"strings"
)

// TextLine is one line of recognized text with its position on the image.
type TextLine struct {
	Text string `json:"text"`
	Box  Rect   `json:"box"`

	// Corners holds the four corner points when the recognizer reports a
	// rotated quadrilateral. Optional.
	Corners []Point `json:"corners,omitempty"`

	// Confidence is the recognizer's confidence in [0,1]; 0 means unknown.
	Confidence float64 `json:"confidence,omitempty"`
}

// HasBox reports whether the line carries usable geometry
func (l TextLine) HasBox() bool {
	return l.Box.IsValid()
}

// TextBlock is a recognizer grouping of lines, top to bottom.
type TextBlock struct {
	Box   Rect       `json:"box"`
	Lines []TextLine `json:"lines"`
}

// Text returns the block's lines joined by newlines
func (b TextBlock) Text() string {
	parts := make([]string, len(b.Lines))
	for i, l := range b.Lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}

// RecognizedPage is the complete recognizer output for one image.
// It is the sole input of the detection pipeline and is never modified by it.
type RecognizedPage struct {
	Text    string      `json:"text"`
	Lines   []TextLine  `json:"lines"`
	Blocks  []TextBlock `json:"blocks"`
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`

	// Image dimensions in pixels. Zero means unknown; consumers derive the
	// extent from line geometry instead.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// NewPage builds a successful page from blocks, filling the flattened line
// list and the raw text.
func NewPage(blocks []TextBlock) *RecognizedPage {
	p := &RecognizedPage{Blocks: blocks, Success: true}
	var texts []string
	for _, b := range blocks {
		for _, l := range b.Lines {
			p.Lines = append(p.Lines, l)
			texts = append(texts, l.Text)
		}
	}
	p.Text = strings.Join(texts, "\n")
	return p
}

// IsBlank reports whether the page carries no text at all
func (p *RecognizedPage) IsBlank() bool {
	return strings.TrimSpace(p.Text) == ""
}

// LineTexts returns the trimmed text of every line. When the recognizer
// supplied no line list, the raw text is split on newlines instead.
func (p *RecognizedPage) LineTexts() []string {
	if len(p.Lines) == 0 {
		if p.Text == "" {
			return nil
		}
		raw := strings.Split(p.Text, "\n")
		out := make([]string, 0, len(raw))
		for _, s := range raw {
			out = append(out, strings.TrimSpace(s))
		}
		return out
	}
	out := make([]string, len(p.Lines))
	for i, l := range p.Lines {
		out[i] = strings.TrimSpace(l.Text)
	}
	return out
}

// BlockLines returns every line of every block in recognizer order
func (p *RecognizedPage) BlockLines() []TextLine {
	var out []TextLine
	for _, b := range p.Blocks {
		out = append(out, b.Lines...)
	}
	return out
}

// GeometryLines returns the lines that carry usable geometry. Block lines are
// preferred; the flattened list is used when the page has no blocks.
func (p *RecognizedPage) GeometryLines() []TextLine {
	src := p.BlockLines()
	if len(src) == 0 {
		src = p.Lines
	}
	out := make([]TextLine, 0, len(src))
	for _, l := range src {
		if l.HasBox() {
			out = append(out, l)
		}
	}
	return out
}

// Bounds returns the page extent. Explicit dimensions win; otherwise the
// extent reaches from the origin to the furthest line edge.
func (p *RecognizedPage) Bounds() Rect {
	if p.Width > 0 && p.Height > 0 {
		return Rect{Right: p.Width, Bottom: p.Height}
	}
	var r Rect
	for _, l := range p.GeometryLines() {
		r.Right = math.Max(r.Right, l.Box.Right)
		r.Bottom = math.Max(r.Bottom, l.Box.Bottom)
	}
	if p.Width > 0 {
		r.Right = p.Width
	}
	if p.Height > 0 {
		r.Bottom = p.Height
	}
	return r
}

// LayoutBlocks returns the blocks usable for geometry. A block without a
// valid box borrows the union of its line boxes and is dropped when it has
// none. A page without blocks yields one block per located line.
func (p *RecognizedPage) LayoutBlocks() []TextBlock {
	var out []TextBlock
	for _, b := range p.Blocks {
		box := b.Box
		if !box.IsValid() {
			first := true
			for _, l := range b.Lines {
				if !l.HasBox() {
					continue
				}
				if first {
					box = l.Box
					first = false
				} else {
					box = box.Union(l.Box)
				}
			}
		}
		if box.IsValid() {
			out = append(out, TextBlock{Box: box, Lines: b.Lines})
		}
	}
	if len(p.Blocks) > 0 {
		return out
	}
	for _, l := range p.GeometryLines() {
		out = append(out, TextBlock{Box: l.Box, Lines: []TextLine{l}})
	}
	return out
}
