// Package ocr recognizes exam page images with the Tesseract engine and
// returns them as recognized pages.
//
// Recognition runs Tesseract via gosseract, asks for hOCR output and reads
// it with the hocr package, so lines keep their boxes and confidences.
// BMP, TIFF and WebP images are converted to PNG before they are handed to
// Tesseract.
//
// Tesseract support is compiled in only with the "ocr" build tag:
//
//	go build -tags ocr ./...
//
// Without the tag every constructor returns [ErrOCRNotEnabled]. The
// Tesseract library and the chi_sim and eng language data must be
// installed. On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr tesseract-ocr-chi-sim libtesseract-dev
package ocr
