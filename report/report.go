package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/tsawler/examscan/detector"
	"github.com/tsawler/examscan/regions"
	"github.com/tsawler/examscan/scoring"
)

// Entry is the outcome for one input.
type Entry struct {
	Source  string           `json:"source"`
	Result  detector.Result  `json:"result"`
	Regions []regions.Region `json:"regions,omitempty"`

	// Err is set when the input could not be read at all
	Err string `json:"err,omitempty"`
}

// Failed reports whether the input could not be read or recognized
func (e Entry) Failed() bool {
	return e.Err != "" || e.Result.Error != ""
}

// Summary counts entries by outcome.
type Summary struct {
	Pages     int `json:"pages"`
	Questions int `json:"questions"`
	AutoAdd   int `json:"auto_add"`
	Confirm   int `json:"confirm"`
	Ignored   int `json:"ignored"`
	Failed    int `json:"failed"`
}

// Report is one run over a batch of inputs.
type Report struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Summary   Summary   `json:"summary"`
	Entries   []Entry   `json:"entries"`
}

// New builds a report with a fresh run identifier.
func New(entries []Entry) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Summary:   Summarize(entries),
		Entries:   entries,
	}
}

// Summarize counts the outcomes of entries. Failed entries are counted
// only as failed.
func Summarize(entries []Entry) Summary {
	s := Summary{Pages: len(entries)}
	for _, e := range entries {
		if e.Failed() {
			s.Failed++
			continue
		}
		if e.Result.IsQuestion {
			s.Questions++
		}
		switch e.Result.Decision {
		case scoring.DecisionAutoAdd:
			s.AutoAdd++
		case scoring.DecisionConfirm:
			s.Confirm++
		default:
			s.Ignored++
		}
	}
	return s
}
