package usecase

import (
	"strings"

	"github.com/documind/documind/internal/core/domain"
)

// summaryKeywords is the fixed recognized set expressing whole-document
// intent. Matching is case-insensitive substring, so "summar" covers both
// "summary" and "summarize". Turkish terms carried over from the corpus the
// system was first built for.
var summaryKeywords = []string{
	"özet",
	"summar",
	"overview",
	"whole document",
	"entire document",
	"tüm doküman",
	"genel bakış",
	"main content",
	"içeriği",
}

// classifyQuestion is a deliberately simple lexical heuristic: one keyword
// hit routes the question to summary mode, anything else stays targeted.
// The decision is binary and final for the request.
func classifyQuestion(question string) domain.QueryMode {
	lowered := strings.ToLower(question)
	for _, keyword := range summaryKeywords {
		if strings.Contains(lowered, keyword) {
			return domain.ModeSummary
		}
	}
	return domain.ModeTargeted
}
