package extract

import "regexp"

// Invoice number patterns, tried in declared order; the first match wins and
// later patterns are not evaluated. Each pattern captures the token in group 1.
var invoiceNumberPatterns = []*regexp.Regexp{
	// Keyword-anchored: "Invoice No: 12345", "invoice #: INV-2024-001"
	regexp.MustCompile(`(?i)\binvoice\s*(?:number|no\.?|#)\s*[:\-]?\s*([A-Za-z0-9][A-Za-z0-9\-]*)`),
	// Bare identifier shape: 2+ uppercase letters, hyphen, 3+ digits
	regexp.MustCompile(`(\b[A-Z]{2,}-\d{3,}\b)`),
}

// Invoice date patterns in fixed priority order: ISO first, then DD/MM/YYYY,
// then DD-MM-YYYY. The literal substring is returned unparsed; calendar
// validation is deliberately not performed.
var invoiceDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}\b`),
	regexp.MustCompile(`\b\d{2}-\d{2}-\d{4}\b`),
}

// ExtractInvoiceNumber resolves the invoice number from normalized text.
// Returns nil when no pattern matches.
func ExtractInvoiceNumber(text string) *string {
	for _, re := range invoiceNumberPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			token := m[1]
			return &token
		}
	}
	return nil
}

// ExtractInvoiceDate resolves the invoice date from normalized text.
// Returns the first literal match of the highest-priority format, or nil.
func ExtractInvoiceDate(text string) *string {
	for _, re := range invoiceDatePatterns {
		if m := re.FindString(text); m != "" {
			return &m
		}
	}
	return nil
}
