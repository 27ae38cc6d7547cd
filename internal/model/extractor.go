package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fieldlens/invoice-extract-service/internal/models"
)

// Extractor runs the model-based field extraction: it prompts a provider with
// the cleaned document text and parses the JSON reply into a FieldSet. It is
// the second, independent pipeline the hybrid merger reconciles against the
// rule-based one.
type Extractor struct {
	provider Provider
}

// NewExtractor creates a model extractor on top of an existing provider
// handle. The provider's lifecycle stays with the caller.
func NewExtractor(provider Provider) *Extractor {
	return &Extractor{provider: provider}
}

// Extract asks the model for the six invoice fields. The returned FieldSet
// carries SourceModel on every field; values the model could not read stay
// nil.
func (e *Extractor) Extract(ctx context.Context, cleanedText string) (*models.FieldSet, error) {
	response, err := e.provider.Complete(ctx, buildPrompt(cleanedText))
	if err != nil {
		return nil, fmt.Errorf("model extraction failed: %w", err)
	}
	fields, err := parseResponse(response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}
	return fields, nil
}

func buildPrompt(text string) string {
	return fmt.Sprintf(`You are an expert at reading invoices. Extract the following fields from the invoice text below.

Return ONLY valid JSON (no markdown, no comments):
{
  "vendor_name": "name of the vendor/supplier, null if unreadable",
  "invoice_number": "the invoice identifier, null if unreadable",
  "invoice_date": "the invoice date exactly as written, null if unreadable",
  "subtotal": number before tax, null if not present,
  "tax": tax amount, null if not present,
  "total_amount": final amount payable, null if not present
}

Rules:
1. NEVER invent values - use null for anything you cannot read
2. Amounts are plain numbers without currency symbols or thousands separators
3. Copy the invoice number and date verbatim from the text

Invoice text:
%s`, text)
}

// parseResponse converts the model JSON reply into a FieldSet. Amounts accept
// numbers or strings with thousands separators; anything unparseable stays
// absent rather than failing the extraction.
func parseResponse(response string) (*models.FieldSet, error) {
	// Strip markdown code fences some models wrap around JSON
	cleaned := strings.TrimSpace(response)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var raw struct {
		VendorName    *string     `json:"vendor_name"`
		InvoiceNumber *string     `json:"invoice_number"`
		InvoiceDate   *string     `json:"invoice_date"`
		Subtotal      interface{} `json:"subtotal"`
		Tax           interface{} `json:"tax"`
		TotalAmount   interface{} `json:"total_amount"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("JSON parse error: %w - response: %s", err, cleaned)
	}

	fields := models.NewFieldSet(models.SourceModel)
	fields.VendorName.Value = cleanText(raw.VendorName)
	fields.InvoiceNumber.Value = cleanText(raw.InvoiceNumber)
	fields.InvoiceDate.Value = cleanText(raw.InvoiceDate)
	fields.Subtotal.Value = parseDecimal(raw.Subtotal)
	fields.Tax.Value = parseDecimal(raw.Tax)
	fields.TotalAmount.Value = parseDecimal(raw.TotalAmount)
	return &fields, nil
}

// cleanText trims the value and drops empty strings.
func cleanText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// parseDecimal handles flexible number parsing from interface{}.
// Supports numbers and strings with commas (e.g. "3,965.34").
func parseDecimal(v interface{}) *decimal.Decimal {
	switch val := v.(type) {
	case float64:
		d := decimal.NewFromFloat(val)
		return &d
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(val), ",", "")
		if cleaned == "" {
			return nil
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return nil
		}
		return &d
	case json.Number:
		d, err := decimal.NewFromString(string(val))
		if err != nil {
			return nil
		}
		return &d
	default:
		return nil
	}
}
