package stats

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMeanStdDevCV(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := Mean(values); !approx(got, 5) {
		t.Errorf("Mean() = %v, want 5", got)
	}
	if got := StdDev(values); !approx(got, 2) {
		t.Errorf("StdDev() = %v, want 2", got)
	}
	if got := CV(values); !approx(got, 0.4) {
		t.Errorf("CV() = %v, want 0.4", got)
	}
}

func TestEmptyInputsYieldZero(t *testing.T) {
	if Mean(nil) != 0 || StdDev(nil) != 0 || CV(nil) != 0 || MaxDeviation(nil) != 0 {
		t.Error("expected zero for empty input")
	}
	if CV([]float64{0, 0}) != 0 {
		t.Error("expected zero CV for zero mean")
	}
	if Ratio(3, 0) != 0 {
		t.Error("expected zero ratio for zero denominator")
	}
}

func TestMaxDeviation(t *testing.T) {
	if got := MaxDeviation([]float64{10, 10, 16}); !approx(got, 4) {
		t.Errorf("MaxDeviation() = %v, want 4", got)
	}
}

func TestClampAndConsistency(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"clamp low", Clamp01(-0.5), 0},
		{"clamp high", Clamp01(1.5), 1},
		{"clamp nan", Clamp01(math.NaN()), 0},
		{"perfect", Consistency(0, 0.3), 1},
		{"half", Consistency(0.15, 0.3), 0.5},
		{"beyond tolerance", Consistency(0.6, 0.3), 0},
		{"zero tolerance", Consistency(0.1, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !approx(tt.got, tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}
