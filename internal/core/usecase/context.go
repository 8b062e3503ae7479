package usecase

import (
	"strings"

	"github.com/documind/documind/internal/core/domain"
)

// buildContext joins chunk texts in retrieval order with a blank line
// separator. Size limits are the generator's concern, not assembled here.
func buildContext(chunks []domain.Chunk) string {
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		parts = append(parts, chunk.Text)
	}
	return strings.Join(parts, "\n\n")
}

// distinctDocumentIDs returns the de-duplicated source document ids in
// first-appearance order.
func distinctDocumentIDs(chunks []domain.Chunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	out := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if _, ok := seen[chunk.DocumentID]; ok {
			continue
		}
		seen[chunk.DocumentID] = struct{}{}
		out = append(out, chunk.DocumentID)
	}
	return out
}
