package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Monetary patterns share one numeric body: optional currency symbol, digits
// with optional thousands separators, optional cents. Commas are stripped
// before parsing. A matched substring that still fails decimal parsing (for
// example a run of bare commas) is treated as not-found, never as an error.
const amountBody = `[:\s]*[₹$€£]?\s?([\d,]+(?:\.\d{2})?)`

var (
	subtotalPattern = regexp.MustCompile(`(?i)\bsubtotal\b` + amountBody)

	// Lazy gap so the first number after the "Tax" label wins instead of an
	// unrelated number later in the document.
	taxPattern = regexp.MustCompile(`(?i)\btax\b.*?[₹$€£]?\s?([\d,]+(?:\.\d{2})?)`)

	// Total patterns in priority order, most specific first. A document with
	// both "Grand Total" and a bare "Total" must yield the former; the bare
	// label is more likely to be a line-item heading elsewhere.
	totalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)grand\s*total` + amountBody),
		regexp.MustCompile(`(?i)total\s*amount` + amountBody),
		regexp.MustCompile(`(?i)total\s*payable` + amountBody),
		regexp.MustCompile(`(?i)amount\s*due` + amountBody),
	}

	// Fallback for a bare "Total". RE2 has no lookbehind, so "sub" exclusion
	// is enforced in extractTotalFallback by inspecting the preceding bytes.
	bareTotalPattern = regexp.MustCompile(`(?i)\btotal\b` + amountBody)
)

// parseAmount strips thousands separators and parses the captured numeric
// text. Second return is false on malformed input.
func parseAmount(raw string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ExtractSubtotal resolves the subtotal amount, anchored on the literal word
// "Subtotal". Returns nil when absent or malformed.
func ExtractSubtotal(text string) *decimal.Decimal {
	if m := subtotalPattern.FindStringSubmatch(text); m != nil {
		if d, ok := parseAmount(m[1]); ok {
			return &d
		}
	}
	return nil
}

// ExtractTax resolves the tax amount, anchored on "Tax" and lazily matching
// up to the first following number.
func ExtractTax(text string) *decimal.Decimal {
	if m := taxPattern.FindStringSubmatch(text); m != nil {
		if d, ok := parseAmount(m[1]); ok {
			return &d
		}
	}
	return nil
}

// ExtractTotalAmount resolves the total via the priority cascade, falling
// back to a bare "Total" that is not part of "Subtotal". This ordering and
// exclusion is what keeps subtotal values from being misread as the total.
func ExtractTotalAmount(text string) *decimal.Decimal {
	for _, re := range totalPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if d, ok := parseAmount(m[1]); ok {
				return &d
			}
		}
	}
	return extractTotalFallback(text)
}

// extractTotalFallback matches a standalone "Total" while rejecting any
// candidate immediately preceded by "sub" (covers variants like "SubTotal"
// that survive the word-boundary anchor).
func extractTotalFallback(text string) *decimal.Decimal {
	for _, loc := range bareTotalPattern.FindAllStringSubmatchIndex(text, -1) {
		start := loc[0]
		if start >= 3 && strings.EqualFold(text[start-3:start], "sub") {
			continue
		}
		if d, ok := parseAmount(text[loc[2]:loc[3]]); ok {
			return &d
		}
	}
	return nil
}
