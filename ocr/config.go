package ocr

import (
	"fmt"
	"os"

	"github.com/tsawler/examscan/model"
)

// PageSegMode selects how Tesseract analyzes the page layout. The values
// match Tesseract's own numbering.
type PageSegMode int

// Page segmentation modes useful for exam pages.
const (
	PSMAuto         PageSegMode = 3  // fully automatic
	PSMSingleColumn PageSegMode = 4  // one column of variable-sized text
	PSMSingleBlock  PageSegMode = 6  // one uniform block of text
	PSMSparseText   PageSegMode = 11 // as much text as possible, in no order
)

// Config holds the recognizer settings.
type Config struct {
	// Languages is a "+" separated list of Tesseract language codes
	Languages   string
	PageSegMode PageSegMode
}

// DefaultConfig recognizes simplified Chinese and English with automatic
// segmentation.
func DefaultConfig() Config {
	return Config{
		Languages:   "chi_sim+eng",
		PageSegMode: PSMAuto,
	}
}

// RecognizeFile reads an image file and recognizes it.
func (c *Client) RecognizeFile(path string) (*model.RecognizedPage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return c.Recognize(data)
}
