package detector

import (
	"regexp"
	"strings"

	"github.com/tsawler/examscan/features"
	"github.com/tsawler/examscan/markers"
)

var paginationRe = regexp.MustCompile(`^\d+/\d+$`)

// Extract splits lines into stem text and options, keeping their order.
// Option lines start with a marker format. Blank lines, pagination such as
// "5/69" and bare type labels are left out of the stem.
func Extract(lines []string) (stem string, options []string) {
	var stemLines []string
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
		case markers.IsOptionLine(line):
			options = append(options, line)
		case paginationRe.MatchString(line), isBareLabel(line):
		default:
			stemLines = append(stemLines, line)
		}
	}
	return strings.Join(stemLines, "\n"), options
}

func isBareLabel(line string) bool {
	for _, label := range features.TypeLabels {
		if strings.EqualFold(line, label) {
			return true
		}
	}
	return false
}
