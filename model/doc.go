// Package model provides the value types exchanged between a text recognizer
// and the question detection pipeline.
//
// # Recognizer Output
//
// A [RecognizedPage] holds everything the recognizer produced for one image:
//
//   - Text - the raw concatenated text
//   - Lines - the flattened list of [TextLine] values
//   - Blocks - the recognizer's own [TextBlock] grouping
//   - Success and Error - the upstream status
//
// Pages are plain values with JSON tags so they can be stored and replayed:
//
//	var page model.RecognizedPage
//	err := json.Unmarshal(data, &page)
//
// # Geometry
//
// [Rect] uses image pixel space with the origin at the top-left corner.
// A rectangle with zero or negative width or height is not valid and is
// skipped by every layout computation.
package model
