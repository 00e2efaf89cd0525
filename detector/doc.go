// Package detector decides whether a recognized page holds an exam
// question and extracts its stem and options.
//
// # Pipeline
//
// [Detector.Detect] runs these steps on one page:
//
//  1. Failed or blank pages are returned at once, with the recognizer's
//     error passed through.
//  2. Pages dominated by digits or by shopping and markup symbols are
//     rejected unless they name a question type.
//  3. Features are extracted and the marker-free layout detector is folded
//     in.
//  4. Independent [Signal] values are collected: [TypeLabel],
//     [QuestionNumber] and [StemKeyword].
//  5. The page is scored. When a signal fired but fewer than two markers
//     were found, the gated features are counted anyway and a
//     [Compensation] bonus is added.
//  6. The override ladder, an ordered list of [Rule] values, decides. The
//     first rule that applies wins.
//
// # Rules
//
// [DefaultRules] returns the ladder in priority order: core-signal,
// type-label-and-number, type-label, question-number, stem-keywords,
// single-marker and no-markers. Each rule can be tested on its own by
// building an [Evidence] value.
//
// # Example
//
//	res := detector.New().Detect(page)
//	if res.IsQuestion {
//		fmt.Println(res.Stem)
//		for _, opt := range res.Options {
//			fmt.Println(opt)
//		}
//	}
package detector
