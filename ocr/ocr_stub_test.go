//go:build !ocr

package ocr

import (
	"errors"
	"testing"
)

func TestNewReturnsError(t *testing.T) {
	client, err := New()
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled, got: %v", err)
	}
	if client != nil {
		t.Error("Expected nil client when OCR is disabled")
	}

	if _, err := NewWithConfig(DefaultConfig()); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("NewWithConfig() error = %v", err)
	}
}

func TestStubMethods(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client should not error: %v", err)
	}
	if _, err := client.Recognize(createTestPNG(10, 10)); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Recognize() error = %v", err)
	}
	if err := client.SetLanguage("eng"); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("SetLanguage() error = %v", err)
	}
	if err := client.SetPageSegMode(PSMSingleBlock); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("SetPageSegMode() error = %v", err)
	}
}
