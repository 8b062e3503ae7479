package ollama

import "fmt"

func buildAnswerPrompt(question, contextText string) string {
	return fmt.Sprintf(`Answer the user question only from the context below.
If the context is insufficient, say so directly instead of inventing facts.

Question:
%s

Context:
%s
`, question, contextText)
}

func buildSummaryPrompt(text string) string {
	const maxSnippet = 8000
	snippet := []rune(text)
	if len(snippet) > maxSnippet {
		snippet = snippet[:maxSnippet]
	}

	return `Write a short summary of the document below.
Keep it factual, a single paragraph, no preamble.

Document:
` + string(snippet)
}
