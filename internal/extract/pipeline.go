package extract

import (
	"sync"
	"time"

	"github.com/fieldlens/invoice-extract-service/internal/models"
)

// Pipeline runs the full rule-based extraction for document pages. All
// extractors are pure functions over immutable input, so one Pipeline is safe
// for concurrent use across requests.
type Pipeline struct {
	vendor *VendorResolver
	scorer *ConfidenceScorer
}

// NewPipeline assembles a pipeline from extraction config; zero-valued
// sections fall back to the canonical defaults.
func NewPipeline(cfg models.ExtractionConfig) *Pipeline {
	return &Pipeline{
		vendor: NewVendorResolver(cfg.Vendor),
		scorer: NewConfidenceScorer(cfg.Scoring),
	}
}

// ExtractPage processes a single page: normalize, run the field extractors,
// score. The vendor resolver gets the raw text because it needs line
// structure; everything else consumes the cleaned text.
func (p *Pipeline) ExtractPage(page models.PageInput) models.ExtractionResult {
	cleaned := Normalize(page.Text)

	fields := models.NewFieldSet(models.SourceRule)
	vendor := p.vendor.Resolve(page.Text, page.Blocks)
	fields.VendorName.Value = &vendor
	fields.InvoiceNumber.Value = ExtractInvoiceNumber(cleaned)
	fields.InvoiceDate.Value = ExtractInvoiceDate(cleaned)
	fields.Subtotal.Value = ExtractSubtotal(cleaned)
	fields.Tax.Value = ExtractTax(cleaned)
	fields.TotalAmount.Value = ExtractTotalAmount(cleaned)

	return models.ExtractionResult{
		RawText:     page.Text,
		CleanedText: cleaned,
		Fields:      fields,
		Confidence:  p.scorer.Score(fields),
		ProcessedAt: time.Now(),
	}
}

// ExtractPages processes every page of one request concurrently. Pages are
// independent, so they fan out to goroutines; results land at their page
// index, which preserves input order regardless of completion order.
func (p *Pipeline) ExtractPages(pages []models.PageInput) []models.ExtractionResult {
	results := make([]models.ExtractionResult, len(pages))

	var wg sync.WaitGroup
	for i, page := range pages {
		wg.Add(1)
		go func(i int, page models.PageInput) {
			defer wg.Done()
			results[i] = p.ExtractPage(page)
		}(i, page)
	}
	wg.Wait()

	return results
}
