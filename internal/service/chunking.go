package service

import "strings"

// SplitSentences splits text into sentence-boundary chunks. Fragments are
// trimmed and empty ones dropped, so "A. B. C." yields ["A", "B", "C"].
func SplitSentences(text string) []string {
	parts := strings.Split(text, ".")

	chunks := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
	}

	return chunks
}
