package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tsawler/examscan"
	"github.com/tsawler/examscan/config"
	"github.com/tsawler/examscan/internal/logging"
	"github.com/tsawler/examscan/report"
	"github.com/tsawler/examscan/scoring"
)

var version = "0.1.0"

var (
	colorRed    = color.New(color.FgRed, color.Bold)
	colorGreen  = color.New(color.FgGreen, color.Bold)
	colorYellow = color.New(color.FgYellow)
	colorCyan   = color.New(color.FgCyan)
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	format     string
	workers    int
	logLevel   string
}

// app is what a command needs once flags and configuration are resolved
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "examscan",
		Short: "Find exam questions in recognized page images",
		Long: `examscan decides whether recognized exam pages hold a question,
extracts the stem and options, and splits multi-question pages into regions.

Inputs are recognized pages as JSON, Tesseract hOCR files, or images when
built with -tags ocr.

Examples:
  examscan detect page.json shot.hocr
  examscan regions --format markdown page.json
  examscan weights --config examscan.yaml`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "configuration file (default: ./examscan.yaml when present)")
	flags.StringVarP(&opts.format, "format", "f", "text", "output format: text, json, jsonl, csv, markdown or html")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "pages processed at once (default: from configuration)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (default: from configuration)")

	setup := func() (*app, error) {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		if opts.workers > 0 {
			cfg.Workers = opts.workers
		}
		level := cfg.Log.Level
		if opts.logLevel != "" {
			level = opts.logLevel
		}
		return &app{
			cfg:    cfg,
			logger: logging.Setup(level, cfg.Log.Format, errOut),
			out:    out,
		}, nil
	}

	root.AddCommand(
		newScanCmd("detect", "Classify pages and extract stems and options", opts, setup, printDetection),
		newScanCmd("regions", "Split pages into per-question regions", opts, setup, printRegions),
		newWeightsCmd(setup),
	)
	return root
}

type printer func(w io.Writer, e report.Entry)

func newScanCmd(use, short string, opts *options, setup func() (*app, error), show printer) *cobra.Command {
	return &cobra.Command{
		Use:   use + " FILE...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			return a.scan(cmd.Context(), args, opts.format, show)
		},
	}
}

func (a *app) scan(ctx context.Context, files []string, format string, show printer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	scanner := examscan.New().Config(a.cfg).Logger(a.logger)
	results := scanner.AnalyzeFiles(ctx, files, a.cfg.Workers)

	entries := make([]report.Entry, len(results))
	for i, r := range results {
		entries[i] = report.Entry{
			Source:  r.Source,
			Result:  r.Analysis.Detection,
			Regions: r.Analysis.Regions,
		}
		if r.Err != nil {
			entries[i].Err = r.Err.Error()
			a.logger.Warn("input skipped", "file", r.Source, "error", r.Err)
		}
	}
	rep := report.New(entries)
	a.logger.Info("scan finished", "run_id", rep.RunID, "pages", rep.Summary.Pages,
		"questions", rep.Summary.Questions, "failed", rep.Summary.Failed)

	if strings.EqualFold(format, "text") {
		for _, e := range rep.Entries {
			show(a.out, e)
		}
		printSummary(a.out, rep.Summary)
		return nil
	}

	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}
	return report.NewWriterWithConfig(report.Config{Format: f, PrettyPrint: true}).Write(a.out, rep)
}

func printFailure(w io.Writer, e report.Entry) bool {
	if !e.Failed() {
		return false
	}
	msg := e.Err
	if msg == "" {
		msg = e.Result.Error
	}
	colorRed.Fprintf(w, "✗ %s: %s\n", e.Source, msg)
	return true
}

func printDetection(w io.Writer, e report.Entry) {
	if printFailure(w, e) {
		return
	}
	res := e.Result
	switch {
	case !res.IsQuestion:
		fmt.Fprintf(w, "- %s: no question (%s, score %.1f)\n", e.Source, res.Rule, res.Scoring.Score)
		return
	case res.Decision == scoring.DecisionAutoAdd:
		colorGreen.Fprintf(w, "✓ %s: question", e.Source)
	default:
		colorYellow.Fprintf(w, "? %s: question to confirm", e.Source)
	}
	fmt.Fprintf(w, " (%s, confidence %.2f)\n", res.Rule, res.Confidence)

	for _, line := range strings.Split(res.Stem, "\n") {
		if line != "" {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
	for _, opt := range res.Options {
		colorCyan.Fprintf(w, "    %s\n", opt)
	}
}

func printRegions(w io.Writer, e report.Entry) {
	if printFailure(w, e) {
		return
	}
	fmt.Fprintf(w, "%s: %d regions\n", e.Source, len(e.Regions))
	for _, r := range e.Regions {
		colorCyan.Fprintf(w, "    %-4s", r.Number)
		fmt.Fprintf(w, " left=%.0f top=%.0f right=%.0f bottom=%.0f\n",
			r.Box.Left, r.Box.Top, r.Box.Right, r.Box.Bottom)
	}
}

func printSummary(w io.Writer, s report.Summary) {
	fmt.Fprintf(w, "\n%d pages, %d questions (%d auto, %d to confirm), %d ignored, %d failed\n",
		s.Pages, s.Questions, s.AutoAdd, s.Confirm, s.Ignored, s.Failed)
}

func newWeightsCmd(setup func() (*app, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "weights",
		Short: "Print the effective scoring weights and gates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			dc := a.cfg.DetectorConfig()
			enc := json.NewEncoder(a.out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"weights": dc.Scoring.Weights,
				"gates":   dc.Scoring.Gates,
			})
		},
	}
}
