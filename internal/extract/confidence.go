package extract

import (
	"github.com/shopspring/decimal"

	"github.com/fieldlens/invoice-extract-service/internal/models"
)

// DefaultScoringConfig returns the canonical confidence weights and the
// absolute cross-check tolerance in currency units.
func DefaultScoringConfig() models.ScoringConfig {
	return models.ScoringConfig{
		VendorWeight:   0.30,
		NumberWeight:   0.25,
		TotalWeight:    0.25,
		DateWeight:     0.10,
		SubtotalWeight: 0.05,
		TaxWeight:      0.05,
		Tolerance:      1.0,
	}
}

// ConfidenceScorer turns a FieldSet into a numeric confidence in [0,1] plus
// its label. Presence of each field earns its weight; internal arithmetic
// consistency between subtotal, tax and total overrides the presence score
// in both directions. A missing total makes the extraction unusable for
// accounting and forces FAILED.
type ConfidenceScorer struct {
	cfg models.ScoringConfig
}

// NewConfidenceScorer creates a scorer, filling zero-valued config fields
// with the canonical defaults.
func NewConfidenceScorer(cfg models.ScoringConfig) *ConfidenceScorer {
	def := DefaultScoringConfig()
	if cfg.VendorWeight == 0 {
		cfg.VendorWeight = def.VendorWeight
	}
	if cfg.NumberWeight == 0 {
		cfg.NumberWeight = def.NumberWeight
	}
	if cfg.TotalWeight == 0 {
		cfg.TotalWeight = def.TotalWeight
	}
	if cfg.DateWeight == 0 {
		cfg.DateWeight = def.DateWeight
	}
	if cfg.SubtotalWeight == 0 {
		cfg.SubtotalWeight = def.SubtotalWeight
	}
	if cfg.TaxWeight == 0 {
		cfg.TaxWeight = def.TaxWeight
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = def.Tolerance
	}
	return &ConfidenceScorer{cfg: cfg}
}

// Score computes the confidence for one field set.
func (s *ConfidenceScorer) Score(fields models.FieldSet) models.Confidence {
	// No usable total: unusable downstream, regardless of other fields.
	if fields.TotalAmount.Value == nil {
		return models.Confidence{Score: 0, Label: models.ConfidenceFailed}
	}

	var score float64

	if v := fields.VendorName.Value; v != nil && *v != models.VendorNotFound {
		score += s.cfg.VendorWeight
	}
	if fields.InvoiceNumber.Value != nil {
		score += s.cfg.NumberWeight
	}
	if fields.TotalAmount.Value.GreaterThan(decimal.Zero) {
		score += s.cfg.TotalWeight
	}
	if fields.InvoiceDate.Value != nil {
		score += s.cfg.DateWeight
	}
	if fields.Subtotal.Value != nil {
		score += s.cfg.SubtotalWeight
	}
	// Zero tax is a legitimate value (tax-exempt invoices).
	if fields.Tax.Value != nil {
		score += s.cfg.TaxWeight
	}
	if score > 1.0 {
		score = 1.0
	}

	// Arithmetic cross-check: agreement of subtotal + tax with the total is
	// the strongest signal we have; contradiction caps the score even when
	// every field was individually found.
	if fields.Subtotal.Value != nil && fields.Tax.Value != nil {
		diff := fields.Subtotal.Value.Add(*fields.Tax.Value).Sub(*fields.TotalAmount.Value).Abs()
		tolerance := decimal.NewFromFloat(s.cfg.Tolerance)
		if diff.LessThan(tolerance) {
			if score < 0.95 {
				score = 0.95
			}
		} else if score > 0.6 {
			score = 0.6
		}
	}

	return models.Confidence{Score: score, Label: models.LabelForScore(score)}
}
