package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtract_DocumentTypesGetPlaceholder(t *testing.T) {
	e := NewTypeExtractor()
	for _, typ := range []string{"txt", "pdf", "doc", "docx", "PDF"} {
		got, err := e.Extract(context.Background(), []byte("payload"), typ)
		require.NoError(t, err, typ)
		require.Equal(t, documentPlaceholder, got, typ)
	}
}

func TestExtract_ImageTypesUseOCR(t *testing.T) {
	e := NewTypeExtractor()
	e.ocr = func(ctx context.Context, data []byte) (string, error) {
		return "recognized text", nil
	}

	got, err := e.Extract(context.Background(), []byte{0xFF, 0xD8}, "jpg")
	require.NoError(t, err)
	require.Equal(t, "recognized text", got)
}

func TestExtract_OCRFailurePropagates(t *testing.T) {
	e := NewTypeExtractor()
	e.ocr = func(ctx context.Context, data []byte) (string, error) {
		return "", errors.New("engine missing")
	}

	_, err := e.Extract(context.Background(), []byte{0x89}, "png")
	require.Error(t, err)
}

func TestExtract_UnknownTypeYieldsNoContent(t *testing.T) {
	e := NewTypeExtractor()
	got, err := e.Extract(context.Background(), []byte("zip bytes"), "zip")
	require.NoError(t, err)
	require.Empty(t, got)
}
