// Package format detects which kind of page input a file holds.
package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned when a file is not a recognized page input.
var ErrUnsupported = errors.New("unsupported input format")

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// JSON indicates a serialized recognized page.
	JSON
	// HOCR indicates Tesseract hOCR output.
	HOCR
	// Image indicates a raster image that needs recognition.
	Image
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case JSON:
		return "JSON"
	case HOCR:
		return "hOCR"
	case Image:
		return "Image"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case JSON:
		return ".json"
	case HOCR:
		return ".hocr"
	case Image:
		return ".png"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return JSON
	case ".hocr", ".html", ".htm":
		return HOCR
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp", ".webp":
		return Image
	default:
		return Unknown
	}
}

var imageMagic = [][]byte{
	[]byte("\x89PNG\r\n\x1a\n"),
	{0xFF, 0xD8, 0xFF},
	[]byte("II*\x00"),
	[]byte("MM\x00*"),
	[]byte("BM"),
}

// DetectFromMagic checks leading bytes to determine format.
// Returns Unknown if the format cannot be determined from them.
func DetectFromMagic(data []byte) Format {
	for _, m := range imageMagic {
		if bytes.HasPrefix(data, m) {
			return Image
		}
	}
	if len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return Image
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) == 0 {
		return Unknown
	}
	if trimmed[0] == '{' {
		return JSON
	}
	if detectHTMLMagic(trimmed) {
		return HOCR
	}
	return Unknown
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	upper := strings.ToUpper(string(data[:min(len(data), 512)]))
	switch {
	case strings.HasPrefix(upper, "<!DOCTYPE HTML"), strings.HasPrefix(upper, "<HTML"):
		return true
	case strings.HasPrefix(upper, "<?XML"):
		// Tesseract writes XHTML with an XML declaration
		return strings.Contains(upper, "<HTML")
	}
	return false
}

// DetectFromReader inspects the leading bytes of r.
func DetectFromReader(r io.Reader) (Format, error) {
	magic := make([]byte, 512)
	n, err := io.ReadFull(r, magic)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Unknown, err
	}
	return DetectFromMagic(magic[:n]), nil
}

// DetectFile determines the format of a file, trusting the extension
// first and falling back to the content. It returns ErrUnsupported when
// neither identifies a page input.
func DetectFile(path string) (Format, error) {
	if f := Detect(path); f != Unknown {
		return f, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return Unknown, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	f, err := DetectFromReader(file)
	if err != nil {
		return Unknown, fmt.Errorf("reading %s: %w", path, err)
	}
	if f == Unknown {
		return Unknown, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
	}
	return f, nil
}
