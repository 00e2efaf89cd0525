// Package examscan provides a fluent API for deciding whether recognized
// exam pages hold questions and where each question lies.
//
// Basic usage:
//
//	res, err := examscan.Open("page.hocr").Detect()
//	if err != nil {
//	    // handle error
//	}
//	if res.IsQuestion {
//	    fmt.Println(res.Stem)
//	}
//
// With options:
//
//	analysis, err := examscan.Open("page.json").
//	    Weights(weights).
//	    Logger(logger).
//	    Analyze()
//
// Inputs may be recognized pages serialized as JSON, Tesseract hOCR files,
// or images when the module is built with the "ocr" tag. For finer control
// use the detector and regions packages directly.
package examscan

import (
	"github.com/tsawler/examscan/model"
)

// Open returns a Scanner reading its page from filename. The file is read
// by the first terminal operation.
//
// Example:
//
//	res, err := examscan.Open("page.json").Detect()
func Open(filename string) *Scanner {
	return &Scanner{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromPage returns a Scanner over a page that is already in memory.
//
// Example:
//
//	regions, err := examscan.FromPage(page).Segment()
func FromPage(page *model.RecognizedPage) *Scanner {
	return &Scanner{
		page:    page,
		options: defaultOptions(),
	}
}

// New returns a Scanner without a source. Configure it and use it for
// batch operations such as AnalyzeFiles.
func New() *Scanner {
	return &Scanner{options: defaultOptions()}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	res := examscan.Must(examscan.Open("page.json").Detect())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
