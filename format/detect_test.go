package format

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{JSON, "JSON"},
		{HOCR, "hOCR"},
		{Image, "Image"},
		{Unknown, "Unknown"},
		{Format(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{JSON, ".json"},
		{HOCR, ".hocr"},
		{Image, ".png"},
		{Unknown, ""},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("Format(%d).Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"page.json", JSON},
		{"page.JSON", JSON},
		{"page.hocr", HOCR},
		{"page.html", HOCR},
		{"page.htm", HOCR},
		{"shot.png", Image},
		{"shot.JPG", Image},
		{"shot.jpeg", Image},
		{"scan.tif", Image},
		{"scan.tiff", Image},
		{"scan.bmp", Image},
		{"scan.webp", Image},
		{"notes.txt", Unknown},
		{"noext", Unknown},
		{"/path/to/page.json", JSON},
	}

	for _, tt := range tests {
		if got := Detect(tt.filename); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"png", "\x89PNG\r\n\x1a\n....", Image},
		{"jpeg", "\xff\xd8\xff\xe0", Image},
		{"tiff little endian", "II*\x00rest", Image},
		{"tiff big endian", "MM\x00*rest", Image},
		{"bmp", "BM....", Image},
		{"webp", "RIFF\x00\x00\x00\x00WEBPVP8 ", Image},
		{"riff but not webp", "RIFF\x00\x00\x00\x00WAVE", Unknown},
		{"json", "  \n{\"text\": \"\"}", JSON},
		{"hocr doctype", "<!DOCTYPE html><html>", HOCR},
		{"hocr lowercase", "<html><body>", HOCR},
		{"xhtml", "<?xml version=\"1.0\"?>\n<html xmlns=\"http://www.w3.org/1999/xhtml\">", HOCR},
		{"plain xml", "<?xml version=\"1.0\"?><root/>", Unknown},
		{"empty", "", Unknown},
		{"whitespace", "   ", Unknown},
		{"text", "hello", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFromMagic([]byte(tt.data)); got != tt.want {
				t.Errorf("DetectFromMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFromReader(t *testing.T) {
	got, err := DetectFromReader(strings.NewReader(`{"success": true}`))
	if err != nil {
		t.Fatalf("DetectFromReader() error = %v", err)
	}
	if got != JSON {
		t.Errorf("DetectFromReader() = %v, want JSON", got)
	}
}

func TestDetectFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	if f, err := DetectFile(write("a.json", "")); err != nil || f != JSON {
		t.Errorf("DetectFile(a.json) = %v, %v", f, err)
	}
	if f, err := DetectFile(write("page.out", "<html><body></body></html>")); err != nil || f != HOCR {
		t.Errorf("DetectFile(page.out) = %v, %v", f, err)
	}

	_, err := DetectFile(write("notes.txt", "just text"))
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("DetectFile(notes.txt) error = %v, want ErrUnsupported", err)
	}

	if _, err := DetectFile(filepath.Join(dir, "missing.bin")); err == nil || errors.Is(err, ErrUnsupported) {
		t.Errorf("DetectFile(missing) error = %v, want open error", err)
	}
}
