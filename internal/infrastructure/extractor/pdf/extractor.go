package pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/documind/documind/internal/core/domain"
)

// Extractor pulls page-ordered plain text out of a PDF file.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, path string) (*domain.ExtractedText, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrLoadFailure, "open pdf", err)
	}
	defer f.Close()

	pages := reader.NumPage()
	if pages == 0 {
		return nil, domain.WrapError(domain.ErrLoadFailure, "open pdf", errors.New("pdf has no pages"))
	}

	segments := make([]string, 0, pages)
	for pageNum := 1; pageNum <= pages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, domain.WrapError(domain.ErrLoadFailure, fmt.Sprintf("extract pdf page %d", pageNum), err)
		}
		text = strings.TrimSpace(text)
		if text != "" {
			segments = append(segments, text)
		}
	}

	if len(segments) == 0 {
		return nil, domain.WrapError(domain.ErrLoadFailure, "extract pdf", errors.New("pdf contains no extractable text"))
	}

	return &domain.ExtractedText{
		Segments: segments,
		Pages:    pages,
	}, nil
}
