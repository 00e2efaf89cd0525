package examscan

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tsawler/examscan/format"
	"github.com/tsawler/examscan/hocr"
	"github.com/tsawler/examscan/model"
	"github.com/tsawler/examscan/ocr"
)

// LoadPage reads a recognized page from a JSON or hOCR file, or recognizes
// an image with Tesseract. Images fail with ocr.ErrOCRNotEnabled unless the
// module was built with the "ocr" tag.
func LoadPage(filename string) (*model.RecognizedPage, error) {
	f, err := format.DetectFile(filename)
	if err != nil {
		return nil, err
	}

	switch f {
	case format.JSON:
		return loadJSON(filename)
	case format.HOCR:
		page, err := hocr.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read hOCR: %w", err)
		}
		return page, nil
	case format.Image:
		client, err := ocr.New()
		if err != nil {
			return nil, err
		}
		defer client.Close()
		page, err := client.RecognizeFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to recognize image: %w", err)
		}
		return page, nil
	default:
		return nil, fmt.Errorf("%s: %w", filename, format.ErrUnsupported)
	}
}

// loadJSON reads a serialized page. A page that lists only blocks gets its
// flattened lines and text filled in.
func loadJSON(filename string) (*model.RecognizedPage, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	var page model.RecognizedPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}

	if page.Text == "" && len(page.Lines) == 0 && len(page.Blocks) > 0 {
		filled := model.NewPage(page.Blocks)
		filled.Success = page.Success
		filled.Error = page.Error
		filled.Width = page.Width
		filled.Height = page.Height
		return filled, nil
	}
	return &page, nil
}
