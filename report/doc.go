// Package report writes detection results for a batch of pages.
//
// A [Report] collects one [Entry] per input with its detection result and
// question regions, a summary and a random run identifier. A [Writer]
// renders it as JSON, JSON Lines, CSV, Markdown or HTML:
//
//	r := report.New(entries)
//	w := report.NewWriterWithConfig(report.Config{Format: report.FormatHTML})
//	err := w.Write(os.Stdout, r)
//
// HTML is produced by rendering the Markdown form with goldmark.
package report
