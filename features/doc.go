// Package features turns recognizer output into the measurements used to
// score a page.
//
// [Extract] is a pure function of its input: the same page always yields
// the same [Features]. Measurements fall into four groups:
//
//   - Counts - blocks, lines, average line length, short-line ratio
//   - Markers - the deduplicated option marker count from package markers
//   - Text signals - stem keywords, type labels, question numbers,
//     punctuation, math and scene glyphs
//   - Layout - alignment, spacing, size and separation scores computed
//     from bounding boxes, plus the short-line cluster
//
// Layout measurements skip boxes with zero or negative width or height.
// Every ratio defaults to 0 when there is nothing to measure.
package features
