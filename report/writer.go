package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ErrUnknownFormat is returned by ParseFormat for unknown names.
var ErrUnknownFormat = errors.New("unknown report format")

// Format selects how a report is rendered.
type Format int

const (
	// FormatJSON writes the whole report as one JSON document
	FormatJSON Format = iota
	// FormatJSONL writes one JSON object per entry
	FormatJSONL
	// FormatCSV writes one row per entry
	FormatCSV
	// FormatMarkdown writes a human-readable document
	FormatMarkdown
	// FormatHTML writes the Markdown document rendered as HTML
	FormatHTML
)

// String returns the format name accepted by ParseFormat
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatJSONL:
		return "jsonl"
	case FormatCSV:
		return "csv"
	case FormatMarkdown:
		return "markdown"
	case FormatHTML:
		return "html"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (f Format) FileExtension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatJSONL:
		return ".jsonl"
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	default:
		return ".txt"
	}
}

// ParseFormat returns the format with the given name. "md" is accepted
// for Markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "jsonl":
		return FormatJSONL, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return FormatJSON, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Config holds writer options.
type Config struct {
	Format Format

	// PrettyPrint indents JSON output
	PrettyPrint bool

	// Title heads Markdown and HTML output
	Title string
}

// DefaultConfig returns indented JSON output.
func DefaultConfig() Config {
	return Config{
		Format:      FormatJSON,
		PrettyPrint: true,
		Title:       "Exam page scan",
	}
}

// Writer renders reports.
type Writer struct {
	config Config
}

// NewWriter creates a writer with default configuration.
func NewWriter() *Writer {
	return NewWriterWithConfig(DefaultConfig())
}

// NewWriterWithConfig creates a writer with custom configuration.
func NewWriterWithConfig(config Config) *Writer {
	if config.Title == "" {
		config.Title = DefaultConfig().Title
	}
	return &Writer{config: config}
}

// Write renders r to out in the configured format.
func (w *Writer) Write(out io.Writer, r *Report) error {
	switch w.config.Format {
	case FormatJSON:
		return w.writeJSON(out, r)
	case FormatJSONL:
		return w.writeJSONL(out, r)
	case FormatCSV:
		return w.writeCSV(out, r)
	case FormatMarkdown:
		_, err := io.WriteString(out, w.Markdown(r))
		return err
	case FormatHTML:
		return w.writeHTML(out, r)
	}
	return fmt.Errorf("%w: %d", ErrUnknownFormat, int(w.config.Format))
}

func (w *Writer) writeJSON(out io.Writer, r *Report) error {
	enc := json.NewEncoder(out)
	if w.config.PrettyPrint {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

func (w *Writer) writeJSONL(out io.Writer, r *Report) error {
	enc := json.NewEncoder(out)
	for i, e := range r.Entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("encoding entry %d: %w", i, err)
		}
	}
	return nil
}

var csvHeader = []string{
	"source", "is_question", "decision", "confidence", "score",
	"rule", "markers", "options", "regions", "error",
}

func (w *Writer) writeCSV(out io.Writer, r *Report) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range r.Entries {
		res := e.Result
		errText := e.Err
		if errText == "" {
			errText = res.Error
		}
		row := []string{
			e.Source,
			strconv.FormatBool(res.IsQuestion),
			res.Decision.String(),
			strconv.FormatFloat(res.Confidence, 'f', 3, 64),
			strconv.FormatFloat(res.Scoring.Score, 'f', 2, 64),
			res.Rule,
			strconv.Itoa(res.Features.OptionMarkerCount),
			strconv.Itoa(len(res.Options)),
			strconv.Itoa(len(e.Regions)),
			errText,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`,
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "|", `\|`, "#", `\#`,
)

func escape(s string) string {
	return mdEscaper.Replace(s)
}

// Markdown renders r as a Markdown document.
func (w *Writer) Markdown(r *Report) string {
	var b strings.Builder
	s := r.Summary

	fmt.Fprintf(&b, "# %s\n\n", escape(w.config.Title))
	fmt.Fprintf(&b, "Run `%s` at %s\n\n", r.RunID, r.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	b.WriteString("| Pages | Questions | Auto add | Confirm | Ignored | Failed |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d | %d |\n", s.Pages, s.Questions, s.AutoAdd, s.Confirm, s.Ignored, s.Failed)

	for _, e := range r.Entries {
		fmt.Fprintf(&b, "\n## %s\n\n", escape(e.Source))
		if e.Failed() {
			msg := e.Err
			if msg == "" {
				msg = e.Result.Error
			}
			fmt.Fprintf(&b, "Failed: %s\n", escape(msg))
			continue
		}

		res := e.Result
		fmt.Fprintf(&b, "- Decision: **%s** (rule `%s`)\n", res.Decision, res.Rule)
		fmt.Fprintf(&b, "- Confidence: %.2f\n", res.Confidence)
		fmt.Fprintf(&b, "- Markers: %d\n", res.Features.OptionMarkerCount)
		if kinds := res.Signals.Kinds(); len(kinds) > 0 {
			fmt.Fprintf(&b, "- Signals: %s\n", strings.Join(kinds, ", "))
		}

		if res.Stem != "" {
			b.WriteString("\n### Stem\n\n")
			for _, line := range strings.Split(res.Stem, "\n") {
				fmt.Fprintf(&b, "> %s\n", escape(line))
			}
		}
		if len(res.Options) > 0 {
			b.WriteString("\n### Options\n\n")
			for _, opt := range res.Options {
				fmt.Fprintf(&b, "- %s\n", escape(opt))
			}
		}
		if len(e.Regions) > 0 {
			b.WriteString("\n### Regions\n\n")
			b.WriteString("| Number | Left | Top | Right | Bottom |\n")
			b.WriteString("|---|---|---|---|---|\n")
			for _, reg := range e.Regions {
				fmt.Fprintf(&b, "| %s | %.0f | %.0f | %.0f | %.0f |\n",
					escape(reg.Number), reg.Box.Left, reg.Box.Top, reg.Box.Right, reg.Box.Bottom)
			}
		}
	}
	return b.String()
}

func (w *Writer) writeHTML(out io.Writer, r *Report) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var body bytes.Buffer
	if err := md.Convert([]byte(w.Markdown(r)), &body); err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}

	_, err := fmt.Fprintf(out, `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`, html.EscapeString(w.config.Title), body.String())
	return err
}
