package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldlens/invoice-extract-service/internal/models"
)

func TestVendorResolverLabelKeyword(t *testing.T) {
	r := NewVendorResolver(models.VendorConfig{})

	text := "Vendor: Acme Supplies Ltd\nSomething else\n"
	assert.Equal(t, "Acme Supplies Ltd", r.Resolve(text, nil))

	text = "Bill From: Globex Industries\n"
	assert.Equal(t, "Globex Industries", r.Resolve(text, nil))
}

func TestVendorResolverLabelOutsideWindow(t *testing.T) {
	r := NewVendorResolver(models.VendorConfig{KeywordLineWindow: 2, FallbackLineWindow: 1})

	// The label sits on line 3 but only the first 2 lines are scanned; line 1
	// then satisfies the fallback heuristic.
	text := "Quarterly Statement Overview\nPage one of one\nVendor: Acme Supplies Ltd\n"
	assert.Equal(t, "Quarterly Statement Overview", r.Resolve(text, nil))
}

func TestVendorResolverLayoutBlocks(t *testing.T) {
	r := NewVendorResolver(models.VendorConfig{})

	// All lines carry exclusion keywords so layer 1 and 3 come up empty
	text := "Invoice #123\nDate: 2024-01-01\nTotal: 500.00\n"
	blocks := []models.LayoutBlock{
		{Y: 20, Text: "Acme Corporation Inc"},
		{Y: 5, Text: "INVOICE"},
		{Y: 10, Text: "short"},
	}

	assert.Equal(t, "Acme Corporation Inc", r.Resolve(text, blocks))
}

func TestVendorResolverDoesNotMutateBlocks(t *testing.T) {
	r := NewVendorResolver(models.VendorConfig{})

	blocks := []models.LayoutBlock{
		{Y: 20, Text: "Acme Corporation Inc"},
		{Y: 5, Text: "INVOICE"},
	}
	r.Resolve("Invoice #123\n", blocks)

	// The caller's slice keeps its original order
	assert.Equal(t, 20.0, blocks[0].Y)
	assert.Equal(t, 5.0, blocks[1].Y)
}

func TestVendorResolverFallbackLineScan(t *testing.T) {
	r := NewVendorResolver(models.VendorConfig{})

	text := "Acme Trading Company\nInvoice #123\nTotal: 99.00\n"
	assert.Equal(t, "Acme Trading Company", r.Resolve(text, nil))
}

func TestVendorResolverFallbackRejectsDigitHeavyLines(t *testing.T) {
	r := NewVendorResolver(models.VendorConfig{})

	// First line is mostly digits, second is a plausible name
	text := "20240115-000123-99\nNorthwind Traders\n"
	assert.Equal(t, "Northwind Traders", r.Resolve(text, nil))
}

func TestVendorResolverSentinel(t *testing.T) {
	r := NewVendorResolver(models.VendorConfig{})

	// Every line is excluded or digit-heavy and there are no blocks
	text := "Invoice\nTotal: 100\n1234567890\n"
	assert.Equal(t, models.VendorNotFound, r.Resolve(text, nil))

	assert.Equal(t, models.VendorNotFound, r.Resolve("", nil))
}

func TestNewVendorResolverDefaults(t *testing.T) {
	r := NewVendorResolver(models.VendorConfig{})
	def := DefaultVendorConfig()

	assert.Equal(t, def.KeywordLineWindow, r.cfg.KeywordLineWindow)
	assert.Equal(t, def.FallbackLineWindow, r.cfg.FallbackLineWindow)
	assert.Equal(t, def.LabelKeywords, r.cfg.LabelKeywords)
	assert.Equal(t, def.MaxDigitRatio, r.cfg.MaxDigitRatio)
}
