package plaintext

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/documind/documind/internal/core/domain"
)

// Extractor reads UTF-8 text files. Plain text has no page concept, so the
// reported page count is always zero.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, path string) (*domain.ExtractedText, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrLoadFailure, "read text file", err)
	}

	if !utf8.Valid(raw) {
		return nil, domain.WrapError(domain.ErrLoadFailure, "read text file",
			fmt.Errorf("file is not valid UTF-8"))
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, domain.WrapError(domain.ErrLoadFailure, "read text file",
			errors.New("file contains no text"))
	}

	return &domain.ExtractedText{
		Segments: []string{text},
		Pages:    0,
	}, nil
}
