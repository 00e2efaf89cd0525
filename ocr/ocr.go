//go:build ocr

package ocr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/examscan/hocr"
	"github.com/tsawler/examscan/model"
)

// ErrOCRNotEnabled is returned by the stub build. It is never returned when
// Tesseract support is compiled in.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Client wraps a Tesseract instance. A Client is not safe for concurrent
// use; create one per worker.
type Client struct {
	client *gosseract.Client
}

// New creates a client with the default configuration.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a client with custom configuration.
func NewWithConfig(config Config) (*Client, error) {
	client := gosseract.NewClient()
	c := &Client{client: client}
	if err := c.SetLanguage(config.Languages); err != nil {
		client.Close()
		return nil, err
	}
	if err := c.SetPageSegMode(config.PageSegMode); err != nil {
		client.Close()
		return nil, err
	}
	return c, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Recognize runs Tesseract on image data and returns the page with line
// geometry and confidences.
func (c *Client) Recognize(imageData []byte) (*model.RecognizedPage, error) {
	data, err := Normalize(imageData)
	if err != nil {
		return nil, err
	}
	if err := c.client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	out, err := c.client.HOCRText()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}
	page, err := hocr.Parse(strings.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("reading OCR output: %w", err)
	}
	return page, nil
}

// SetLanguage sets the recognition languages as a "+" separated list
// such as "chi_sim+eng".
func (c *Client) SetLanguage(lang string) error {
	if err := c.client.SetLanguage(strings.Split(lang, "+")...); err != nil {
		return fmt.Errorf("setting language %q: %w", lang, err)
	}
	return nil
}

// SetPageSegMode sets the page segmentation mode.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	if err := c.client.SetPageSegMode(gosseract.PageSegMode(mode)); err != nil {
		return fmt.Errorf("setting page segmentation mode %d: %w", mode, err)
	}
	return nil
}
