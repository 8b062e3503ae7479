package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/documind/documind/internal/core/domain"
)

// tokenizeQuestion extracts the keyword-search tokens: whitespace-separated
// words stripped of surrounding punctuation, at least minLength characters,
// lowercased, first maxTokens distinct ones in question order.
func tokenizeQuestion(question string, maxTokens, minLength int) []string {
	seen := make(map[string]struct{}, maxTokens)
	out := make([]string, 0, maxTokens)

	for _, word := range strings.Fields(question) {
		token := strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		token = strings.ToLower(token)
		if utf8.RuneCountInString(token) < minLength {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
		if len(out) == maxTokens {
			break
		}
	}
	return out
}

// fuseVectorFirst unions the two candidate lists by chunk identity and
// truncates at limit with vector candidates taking priority: every
// vector-sourced chunk (in distance order) outranks every keyword-only
// chunk (in store order).
func fuseVectorFirst(vector, keyword []domain.Chunk, limit int) []domain.Chunk {
	out := make([]domain.Chunk, 0, len(vector)+len(keyword))
	seen := make(map[string]struct{}, len(vector)+len(keyword))

	appendChunk := func(chunk domain.Chunk) bool {
		if _, ok := seen[chunk.ID]; ok {
			return true
		}
		if limit > 0 && len(out) == limit {
			return false
		}
		seen[chunk.ID] = struct{}{}
		out = append(out, chunk)
		return true
	}

	for _, chunk := range vector {
		if !appendChunk(chunk) {
			return out
		}
	}
	for _, chunk := range keyword {
		if !appendChunk(chunk) {
			return out
		}
	}
	return out
}
