package extract

import "strings"

// Normalize collapses every whitespace run in raw OCR/PDF text into a single
// space and trims the ends. It is total and idempotent; downstream token
// extractors run on its output. Line-based heuristics (the vendor resolver)
// keep working on the raw text because normalization erases line structure.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
