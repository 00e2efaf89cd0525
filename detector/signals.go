package detector

import "encoding/json"

// Signal is evidence, independent of option markers, that a page holds a
// question. The concrete types are TypeLabel, QuestionNumber and
// StemKeyword.
type Signal interface {
	Kind() string
	isSignal()
}

// TypeLabel fires when the page names a question type, e.g. "单选题".
type TypeLabel struct{}

// QuestionNumber fires when the page carries a question index.
type QuestionNumber struct{}

// StemKeyword fires when the page uses stem phrasing. VeryStrong is set
// when one of the phrases that almost only occur in questions matched.
type StemKeyword struct {
	VeryStrong bool
}

func (TypeLabel) Kind() string      { return "type_label" }
func (QuestionNumber) Kind() string { return "question_number" }

func (s StemKeyword) Kind() string {
	if s.VeryStrong {
		return "stem_keyword_very_strong"
	}
	return "stem_keyword"
}

func (TypeLabel) isSignal()      {}
func (QuestionNumber) isSignal() {}
func (StemKeyword) isSignal()    {}

// Signals is the set of signals found on a page, in detection order.
type Signals []Signal

// HasTypeLabel reports whether a TypeLabel fired
func (s Signals) HasTypeLabel() bool {
	for _, sig := range s {
		if _, ok := sig.(TypeLabel); ok {
			return true
		}
	}
	return false
}

// HasQuestionNumber reports whether a QuestionNumber fired
func (s Signals) HasQuestionNumber() bool {
	for _, sig := range s {
		if _, ok := sig.(QuestionNumber); ok {
			return true
		}
	}
	return false
}

// StemKeyword returns the stem keyword signal, if it fired
func (s Signals) StemKeyword() (StemKeyword, bool) {
	for _, sig := range s {
		if k, ok := sig.(StemKeyword); ok {
			return k, true
		}
	}
	return StemKeyword{}, false
}

// Kinds returns the kind of every signal
func (s Signals) Kinds() []string {
	out := make([]string, len(s))
	for i, sig := range s {
		out[i] = sig.Kind()
	}
	return out
}

// MarshalJSON encodes the signals as a list of kinds.
func (s Signals) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Kinds())
}
