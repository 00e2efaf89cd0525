// Package regions splits a page holding several questions into one
// rectangle per question.
//
// A [Segmenter] first finds question-number lines: lines starting with a
// one or two digit index followed by "." or "、", tall enough compared to
// the page's mean line height and starting in the left part of the page.
// Each number opens a region that runs to its last option line, or to just
// above the next number, or to the bottom of the page. The region is then
// tightened to the lines it touches and grown again until none of them
// pokes out.
//
//	for _, r := range regions.Segment(page) {
//		fmt.Println(r.Number, r.Box)
//	}
//
// Regions are sorted by top, never overlap and have positive width and
// height. Regions of 50×30 pixels or less are discarded.
package regions
