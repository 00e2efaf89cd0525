// Command examscan classifies recognized exam pages and locates their
// questions.
//
// Usage:
//
//	examscan detect page1.json page2.hocr
//	examscan regions --format markdown page.json
//	examscan weights --config examscan.yaml
package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
