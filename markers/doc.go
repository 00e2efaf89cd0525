// Package markers recognizes answer option markers in recognized text.
//
// Letter markers (A to D) are matched by an ordered list of [Rule] values;
// the first rule that matches a line decides. Circled numerals (① to ⑩)
// are matched by a separate list in which every rule runs. A [Matcher]
// scans a whole page and returns a deduplicated [Set]:
//
//	set := markers.NewMatcher().ScanPage(page)
//	fmt.Println(set.Count(), set.Letters())
//
// Two recovery steps run on top of plain matching. When exactly one letter
// is readable, the missing letters are inferred from "?" placeholder lines
// or from option-like content lines that follow it. When nothing at all is
// readable, [Matcher.Unmarked] looks for unmarked options after a very
// strong stem phrase.
package markers
