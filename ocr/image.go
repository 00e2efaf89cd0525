package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	// decoders for the formats Tesseract may not read
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	_ "image/jpeg"
)

// Normalize returns image data Tesseract can read. PNG and JPEG data is
// returned as is; BMP, TIFF and WebP are decoded and re-encoded as PNG.
func Normalize(data []byte) ([]byte, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if format == "png" || format == "jpeg" {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s image: %w", format, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
