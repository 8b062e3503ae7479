package chunking

import (
	"errors"
	"fmt"

	"github.com/documind/documind/internal/core/domain"
)

// Splitter cuts text into overlapping spans of at most ChunkSize runes.
// Consecutive spans share Overlap runes so context does not break at chunk
// boundaries. Split points prefer paragraph, sentence, line and word
// boundaries before falling back to a hard cut.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, domain.WrapError(domain.ErrInvalidConfiguration, "new splitter",
			fmt.Errorf("chunk size must be positive, got %d", chunkSize))
	}
	if overlap < 0 {
		return nil, domain.WrapError(domain.ErrInvalidConfiguration, "new splitter",
			fmt.Errorf("overlap must not be negative, got %d", overlap))
	}
	if overlap >= chunkSize {
		return nil, domain.WrapError(domain.ErrInvalidConfiguration, "new splitter",
			errors.New("overlap must be strictly less than chunk size"))
	}
	return &Splitter{
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}, nil
}

func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	out := make([]string, 0, len(runes)/(s.ChunkSize-s.Overlap)+1)
	start := 0
	for start < len(runes) {
		end := start + s.ChunkSize
		if end >= len(runes) {
			out = append(out, string(runes[start:]))
			break
		}

		end = s.breakPoint(runes, start, end)
		out = append(out, string(runes[start:end]))
		start = end - s.Overlap
	}
	return out
}

// breakPoint searches backwards from the hard limit for a natural boundary.
// The search floor keeps every span advancing past the previous one even
// after the overlap is subtracted.
func (s *Splitter) breakPoint(runes []rune, start, limit int) int {
	floor := start + s.ChunkSize/2
	if min := start + s.Overlap + 1; floor < min {
		floor = min
	}
	if floor >= limit {
		return limit
	}

	for _, probe := range []func([]rune, int, int) int{
		paragraphBreak,
		sentenceBreak,
		lineBreak,
		wordBreak,
	} {
		if at := probe(runes, floor, limit); at > 0 {
			return at
		}
	}
	return limit
}

func paragraphBreak(runes []rune, floor, limit int) int {
	for i := limit - 1; i > floor; i-- {
		if runes[i] == '\n' && runes[i-1] == '\n' {
			return i + 1
		}
	}
	return 0
}

func sentenceBreak(runes []rune, floor, limit int) int {
	for i := limit - 1; i > floor; i-- {
		if isSpace(runes[i]) && isSentenceEnd(runes[i-1]) {
			return i + 1
		}
	}
	return 0
}

func lineBreak(runes []rune, floor, limit int) int {
	for i := limit - 1; i >= floor; i-- {
		if runes[i] == '\n' {
			return i + 1
		}
	}
	return 0
}

func wordBreak(runes []rune, floor, limit int) int {
	for i := limit - 1; i >= floor; i-- {
		if isSpace(runes[i]) {
			return i + 1
		}
	}
	return 0
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
