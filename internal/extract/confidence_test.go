package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fieldlens/invoice-extract-service/internal/models"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func fullFieldSet() models.FieldSet {
	fields := models.NewFieldSet(models.SourceRule)
	fields.VendorName.Value = strPtr("Acme Corp")
	fields.InvoiceNumber.Value = strPtr("INV-001")
	fields.InvoiceDate.Value = strPtr("2024-03-15")
	fields.Subtotal.Value = decPtr("80.00")
	fields.Tax.Value = decPtr("20.00")
	fields.TotalAmount.Value = decPtr("100.00")
	return fields
}

func TestScoreAllFieldsConsistent(t *testing.T) {
	s := NewConfidenceScorer(models.ScoringConfig{})

	conf := s.Score(fullFieldSet())
	assert.Equal(t, 1.0, conf.Score)
	assert.Equal(t, models.ConfidenceHigh, conf.Label)
}

func TestScoreCrossCheckLiftsSparseFields(t *testing.T) {
	s := NewConfidenceScorer(models.ScoringConfig{})

	// Only the amounts were found, but they agree: presence alone would give
	// 0.35, the cross-check lifts it to 0.95.
	fields := models.NewFieldSet(models.SourceRule)
	fields.Subtotal.Value = decPtr("80.00")
	fields.Tax.Value = decPtr("20.00")
	fields.TotalAmount.Value = decPtr("100.00")

	conf := s.Score(fields)
	assert.Equal(t, 0.95, conf.Score)
	assert.Equal(t, models.ConfidenceHigh, conf.Label)
}

func TestScoreCrossCheckCapsInconsistent(t *testing.T) {
	s := NewConfidenceScorer(models.ScoringConfig{})

	// Every field present, but 80 + 20 != 150: the contradiction caps the
	// score no matter how complete the field set looks.
	fields := fullFieldSet()
	fields.TotalAmount.Value = decPtr("150.00")

	conf := s.Score(fields)
	assert.Equal(t, 0.6, conf.Score)
	assert.Equal(t, models.ConfidenceMedium, conf.Label)
}

func TestScoreCrossCheckTolerance(t *testing.T) {
	s := NewConfidenceScorer(models.ScoringConfig{})

	// Rounding drift below one currency unit still counts as agreement
	fields := fullFieldSet()
	fields.TotalAmount.Value = decPtr("100.50")

	conf := s.Score(fields)
	assert.Equal(t, models.ConfidenceHigh, conf.Label)

	// Exactly at the tolerance is a contradiction
	fields.TotalAmount.Value = decPtr("101.00")
	conf = s.Score(fields)
	assert.Equal(t, 0.6, conf.Score)
}

func TestScoreMissingTotalFails(t *testing.T) {
	s := NewConfidenceScorer(models.ScoringConfig{})

	fields := fullFieldSet()
	fields.TotalAmount.Value = nil

	conf := s.Score(fields)
	assert.Equal(t, 0.0, conf.Score)
	assert.Equal(t, models.ConfidenceFailed, conf.Label)
}

func TestScoreZeroTotalIsNotFailed(t *testing.T) {
	s := NewConfidenceScorer(models.ScoringConfig{})

	// A present zero total earns no weight but is not a failure
	fields := models.NewFieldSet(models.SourceRule)
	fields.TotalAmount.Value = decPtr("0")

	conf := s.Score(fields)
	assert.Equal(t, 0.0, conf.Score)
	assert.Equal(t, models.ConfidenceLow, conf.Label)
}

func TestScoreZeroTaxEarnsWeight(t *testing.T) {
	s := NewConfidenceScorer(models.ScoringConfig{})

	// Tax-exempt invoices carry a legitimate zero tax
	fields := fullFieldSet()
	fields.Tax.Value = decPtr("0")
	fields.Subtotal.Value = decPtr("100.00")

	conf := s.Score(fields)
	assert.Equal(t, 1.0, conf.Score)
	assert.Equal(t, models.ConfidenceHigh, conf.Label)
}

func TestScoreSentinelVendorEarnsNoWeight(t *testing.T) {
	s := NewConfidenceScorer(models.ScoringConfig{})

	fields := fullFieldSet()
	fields.VendorName.Value = strPtr(models.VendorNotFound)

	conf := s.Score(fields)
	// Same as the full set minus the vendor weight, then lifted by the
	// cross-check: 0.70 -> 0.95
	assert.Equal(t, 0.95, conf.Score)
}

func TestLabelThresholds(t *testing.T) {
	assert.Equal(t, models.ConfidenceHigh, models.LabelForScore(0.8))
	assert.Equal(t, models.ConfidenceMedium, models.LabelForScore(0.79))
	assert.Equal(t, models.ConfidenceMedium, models.LabelForScore(0.5))
	assert.Equal(t, models.ConfidenceLow, models.LabelForScore(0.49))
	assert.Equal(t, models.ConfidenceLow, models.LabelForScore(0))
}
