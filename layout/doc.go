// Package layout infers answer-option structure from line geometry.
//
// Two independent checks live here. Neither looks at the scoring weights;
// their results are folded into the features and diagnostics by the
// detector.
//
// # Alternative options
//
// [AlternativeDetector] handles pages whose option markers were lost,
// typically under a finger or a colored overlay. It looks at the short
// lines in the lower half of the page and scores how well their left edges
// line up and how evenly they are spaced:
//
//	res := layout.NewAlternativeDetector().Detect(page)
//	if res.IsValid {
//		fmt.Println(res.ShortLineCount, res.AlignmentScore)
//	}
//
// # Option layout
//
// [CheckOptions] collects lines starting with a lettered marker and tests
// four properties: A–D order, vertical stacking, left alignment and gap
// uniformity. The layout is valid when at least two hold.
//
// [Analyzer] runs both checks in one call.
package layout
