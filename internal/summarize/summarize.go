// Package summarize produces document summaries via a remote text-generation
// capability, falling back to a local extractive summary when it fails.
package summarize

import (
	"context"
	"strings"
)

// Generator is the remote text-generation capability (Cohere chat).
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Detail selects the summary length.
type Detail string

const (
	DetailBrief    Detail = "brief"
	DetailStandard Detail = "standard"
	DetailDetailed Detail = "detailed"
)

// maxInputChars caps how much document text is sent to the generator.
const maxInputChars = 8000

// tokenBudget returns the generation token budget for a detail level.
// Unknown levels get the standard budget.
func tokenBudget(detail Detail) int {
	switch detail {
	case DetailBrief:
		return 100
	case DetailDetailed:
		return 600
	default:
		return 300
	}
}

// sentenceBudget returns how many leading sentences the extractive fallback
// keeps for a detail level.
func sentenceBudget(detail Detail) int {
	switch detail {
	case DetailBrief:
		return 2
	case DetailDetailed:
		return 10
	default:
		return 5
	}
}

// Summarize summarizes text at the given detail level. Generation failures
// are recovered locally with Extractive, so a usable summary always comes
// back; the second return reports whether the fallback was used.
func Summarize(ctx context.Context, gen Generator, text string, detail Detail) (string, bool) {
	runes := []rune(text)
	if len(runes) > maxInputChars {
		text = string(runes[:maxInputChars])
	}
	if gen != nil {
		prompt := "Summarize the following document in a " + string(detail) + " manner:\n\n" + text
		if out, err := gen.Generate(ctx, prompt, tokenBudget(detail)); err == nil && strings.TrimSpace(out) != "" {
			return out, false
		}
	}
	return Extractive(text, sentenceBudget(detail)), true
}

// Extractive returns the leading maxSentences sentences of text, split on
// ". " and re-joined with a trailing period.
func Extractive(text string, maxSentences int) string {
	sentences := strings.Split(text, ". ")
	if maxSentences > len(sentences) {
		maxSentences = len(sentences)
	}
	return strings.Join(sentences[:maxSentences], ". ") + "."
}
