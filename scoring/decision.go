package scoring

import "fmt"

// Decision is the three-way outcome of scoring.
type Decision int

const (
	DecisionIgnore Decision = iota
	DecisionConfirm
	DecisionAutoAdd
)

// String returns the string representation of the decision
func (d Decision) String() string {
	switch d {
	case DecisionIgnore:
		return "ignore"
	case DecisionConfirm:
		return "confirm"
	case DecisionAutoAdd:
		return "auto_add"
	default:
		return "unknown"
	}
}

// Accepted reports whether the decision keeps the page as a question
func (d Decision) Accepted() bool {
	return d == DecisionConfirm || d == DecisionAutoAdd
}

// MarshalText encodes the decision as its string form.
func (d Decision) MarshalText() ([]byte, error) {
	switch d {
	case DecisionIgnore, DecisionConfirm, DecisionAutoAdd:
		return []byte(d.String()), nil
	}
	return nil, fmt.Errorf("scoring: invalid decision %d", int(d))
}

// UnmarshalText parses "ignore", "confirm" or "auto_add".
func (d *Decision) UnmarshalText(text []byte) error {
	parsed, err := ParseDecision(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDecision parses the string form of a decision.
func ParseDecision(s string) (Decision, error) {
	switch s {
	case "ignore":
		return DecisionIgnore, nil
	case "confirm":
		return DecisionConfirm, nil
	case "auto_add":
		return DecisionAutoAdd, nil
	}
	return DecisionIgnore, fmt.Errorf("scoring: unknown decision %q", s)
}
