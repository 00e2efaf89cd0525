package examscan

import (
	"log/slog"

	"github.com/tsawler/examscan/detector"
	"github.com/tsawler/examscan/regions"
)

// scanOptions holds the configuration a Scanner passes to the core.
type scanOptions struct {
	detector detector.Config
	regions  regions.Config
	logger   *slog.Logger
}

// defaultOptions returns the default scan options.
func defaultOptions() scanOptions {
	return scanOptions{
		detector: detector.DefaultConfig(),
		regions:  regions.DefaultConfig(),
	}
}

// clone creates a copy that shares no mutable slices with o.
func (o scanOptions) clone() scanOptions {
	n := o
	if o.detector.Rules != nil {
		n.detector.Rules = append([]detector.Rule(nil), o.detector.Rules...)
	}
	if o.detector.Thresholds.Indicators != nil {
		n.detector.Thresholds.Indicators = append([]string(nil), o.detector.Thresholds.Indicators...)
	}
	return n
}

func (o scanOptions) newDetector() *detector.Detector {
	cfg := o.detector
	cfg.Logger = o.logger
	return detector.NewWithConfig(cfg)
}

func (o scanOptions) newSegmenter() *regions.Segmenter {
	cfg := o.regions
	cfg.Logger = o.logger
	return regions.NewSegmenterWithConfig(cfg)
}
