// Package extract derives searchable text content from uploaded payloads.
// Extraction is best-effort: callers treat a failure as data to record, not
// as a reason to reject the upload.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Extractor produces text content for a payload of the given declared type
// (a lowercased filename extension without the dot).
type Extractor interface {
	Extract(ctx context.Context, data []byte, fileType string) (string, error)
}

// placeholder recorded for document formats whose text pipeline runs
// out-of-band (full parsing is not done inline on upload).
const documentPlaceholder = "Extracted text content would go here"

var (
	documentTypes = map[string]struct{}{"txt": {}, "pdf": {}, "doc": {}, "docx": {}}
	imageTypes    = map[string]struct{}{"jpg": {}, "jpeg": {}, "png": {}}
)

// TypeExtractor routes by declared type: document formats get placeholder
// text, image formats are run through the tesseract OCR binary, anything
// else yields no content.
type TypeExtractor struct {
	// ocr is a seam for tests; defaults to running the tesseract binary.
	ocr func(ctx context.Context, data []byte) (string, error)
}

func NewTypeExtractor() *TypeExtractor {
	return &TypeExtractor{ocr: runTesseract}
}

func (e *TypeExtractor) Extract(ctx context.Context, data []byte, fileType string) (string, error) {
	t := strings.ToLower(fileType)
	if _, ok := documentTypes[t]; ok {
		return documentPlaceholder, nil
	}
	if _, ok := imageTypes[t]; ok {
		return e.ocr(ctx, data)
	}
	return "", nil
}

// runTesseract pipes the image through the tesseract CLI, reading the
// recognized text from stdout.
func runTesseract(ctx context.Context, data []byte) (string, error) {
	cmd := exec.CommandContext(ctx, "tesseract", "stdin", "stdout")
	cmd.Stdin = bytes.NewReader(data)

	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(errOut.String()))
	}
	return out.String(), nil
}
