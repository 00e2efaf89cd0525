package markers

import "sort"

// Set is the deduplicated collection of option markers found on a page.
// Markers are keyed by canonical label, so "A." on three lines counts once.
type Set struct {
	letters  map[string]bool
	numerals map[string]bool
	inferred map[string]bool
	unmarked int
}

func newSet() Set {
	return Set{
		letters:  make(map[string]bool),
		numerals: make(map[string]bool),
		inferred: make(map[string]bool),
	}
}

// Count returns letters + numerals + unmarked options
func (s Set) Count() int {
	return len(s.letters) + len(s.numerals) + s.unmarked
}

// Has reports whether a letter or numeral label is present
func (s Set) Has(label string) bool {
	return s.letters[label] || s.numerals[label]
}

// Letters returns the letter labels, detected and inferred, sorted
func (s Set) Letters() []string {
	return sortedKeys(s.letters)
}

// Numerals returns the circled numeral labels, sorted
func (s Set) Numerals() []string {
	return sortedKeys(s.numerals)
}

// Inferred returns the letters that were inferred rather than read
func (s Set) Inferred() []string {
	return sortedKeys(s.inferred)
}

// Unmarked returns the number of options found without any marker
func (s Set) Unmarked() int {
	return s.unmarked
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
