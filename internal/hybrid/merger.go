// Package hybrid reconciles the rule-based and model-based field sets into
// one final extraction result.
package hybrid

import (
	"time"

	"github.com/fieldlens/invoice-extract-service/internal/models"
)

// Trust levels for merged results. These are deliberately coarse: per-field
// scoring applies to pure rule-based results, while a hybrid result carries a
// flat trust level depending on whether the model contributed anything.
const (
	modelTrust    = 0.95
	fallbackTrust = 0.75
)

// Merge combines a rule-based extraction with an optional model-based field
// set. For vendor name, invoice number and total amount the model value wins
// whenever it is present and non-empty; everything else stays rule-sourced.
// A nil modelFields leaves the rule result untouched.
func Merge(rule models.ExtractionResult, modelFields *models.FieldSet) models.ExtractionResult {
	if modelFields == nil {
		return rule
	}

	merged := rule.Fields
	contributed := false

	if v := modelFields.VendorName.Value; v != nil && *v != "" {
		merged.VendorName = modelFields.VendorName
		contributed = true
	}
	if v := modelFields.InvoiceNumber.Value; v != nil && *v != "" {
		merged.InvoiceNumber = modelFields.InvoiceNumber
		contributed = true
	}
	if modelFields.TotalAmount.Value != nil {
		merged.TotalAmount = modelFields.TotalAmount
		contributed = true
	}

	score := fallbackTrust
	if contributed {
		score = modelTrust
	}

	return models.ExtractionResult{
		RawText:     rule.RawText,
		CleanedText: rule.CleanedText,
		Fields:      merged,
		Confidence:  models.Confidence{Score: score, Label: models.LabelForScore(score)},
		ProcessedAt: time.Now(),
	}
}
