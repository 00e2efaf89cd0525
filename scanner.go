package examscan

import (
	"errors"
	"log/slog"

	"github.com/tsawler/examscan/config"
	"github.com/tsawler/examscan/detector"
	"github.com/tsawler/examscan/model"
	"github.com/tsawler/examscan/regions"
	"github.com/tsawler/examscan/scoring"
)

// ErrNoSource is returned by terminal operations on a Scanner created
// with New.
var ErrNoSource = errors.New("no page or filename specified")

// Analysis is the full outcome for one page.
type Analysis struct {
	Detection detector.Result  `json:"detection"`
	Regions   []regions.Region `json:"regions"`
}

// Scanner provides a fluent interface over the detection pipeline.
// Each configuration method returns a new Scanner, making it safe for
// concurrent use and allowing method chaining.
type Scanner struct {
	filename string
	page     *model.RecognizedPage

	options scanOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a copy of the Scanner with its own options.
func (s *Scanner) clone() *Scanner {
	return &Scanner{
		filename: s.filename,
		page:     s.page,
		options:  s.options.clone(),
		err:      s.err,
	}
}

// Weights replaces the scoring weights and thresholds.
func (s *Scanner) Weights(w scoring.Weights) *Scanner {
	n := s.clone()
	n.options.detector.Scoring.Weights = w
	return n
}

// Gates replaces the scoring regime constants. The rule ladder's core
// marker count follows the gates.
func (s *Scanner) Gates(g scoring.Gates) *Scanner {
	n := s.clone()
	n.options.detector.Scoring.Gates = g
	n.options.detector.Thresholds.CoreMarkers = g.CoreMarkers
	return n
}

// Detector replaces the whole detector configuration.
func (s *Scanner) Detector(cfg detector.Config) *Scanner {
	n := s.clone()
	n.options.detector = cfg
	return n
}

// Regions replaces the segmentation configuration.
func (s *Scanner) Regions(cfg regions.Config) *Scanner {
	n := s.clone()
	n.options.regions = cfg
	return n
}

// Config applies a loaded configuration file.
func (s *Scanner) Config(cfg *config.Config) *Scanner {
	n := s.clone()
	n.options.detector = cfg.DetectorConfig()
	rc, err := cfg.RegionConfig()
	if err != nil && n.err == nil {
		n.err = err
	}
	n.options.regions = rc
	return n
}

// Logger sets the logger that receives debug traces of every decision.
func (s *Scanner) Logger(l *slog.Logger) *Scanner {
	n := s.clone()
	n.options.logger = l
	return n
}

// Page returns the page the Scanner works on, reading it if needed.
func (s *Scanner) Page() (*model.RecognizedPage, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.page != nil {
		return s.page, nil
	}
	if s.filename == "" {
		return nil, ErrNoSource
	}
	return LoadPage(s.filename)
}

// Detect classifies the page.
func (s *Scanner) Detect() (detector.Result, error) {
	page, err := s.Page()
	if err != nil {
		return detector.Result{}, err
	}
	return s.options.newDetector().Detect(page), nil
}

// Segment splits the page into per-question regions.
func (s *Scanner) Segment() ([]regions.Region, error) {
	page, err := s.Page()
	if err != nil {
		return nil, err
	}
	return s.options.newSegmenter().Segment(page), nil
}

// Analyze classifies and segments the page, reading it once.
func (s *Scanner) Analyze() (Analysis, error) {
	page, err := s.Page()
	if err != nil {
		return Analysis{}, err
	}
	return s.analyze(page), nil
}

func (s *Scanner) analyze(page *model.RecognizedPage) Analysis {
	return Analysis{
		Detection: s.options.newDetector().Detect(page),
		Regions:   s.options.newSegmenter().Segment(page),
	}
}
