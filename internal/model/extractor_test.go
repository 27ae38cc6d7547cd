package model

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldlens/invoice-extract-service/internal/models"
)

// fakeProvider returns a canned response without touching the network.
type fakeProvider struct {
	response string
	err      error
	prompt   string
}

func (f *fakeProvider) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func (f *fakeProvider) Name() string { return "fake" }
func (f *fakeProvider) Close() error { return nil }

func TestExtractorParsesCleanJSON(t *testing.T) {
	provider := &fakeProvider{response: `{
		"vendor_name": "Acme Corp",
		"invoice_number": "INV-2024-001",
		"invoice_date": "2024-03-15",
		"subtotal": 1000,
		"tax": 80.5,
		"total_amount": 1080.5
	}`}

	fields, err := NewExtractor(provider).Extract(context.Background(), "some invoice text")
	require.NoError(t, err)

	require.NotNil(t, fields.VendorName.Value)
	assert.Equal(t, "Acme Corp", *fields.VendorName.Value)
	assert.Equal(t, models.SourceModel, fields.VendorName.Source)

	require.NotNil(t, fields.TotalAmount.Value)
	assert.True(t, fields.TotalAmount.Value.Equal(decimal.RequireFromString("1080.5")))

	assert.Contains(t, provider.prompt, "some invoice text")
}

func TestExtractorStripsMarkdownFences(t *testing.T) {
	provider := &fakeProvider{response: "```json\n{\"vendor_name\": \"Globex\", \"total_amount\": \"2,500.00\"}\n```"}

	fields, err := NewExtractor(provider).Extract(context.Background(), "text")
	require.NoError(t, err)

	assert.Equal(t, "Globex", *fields.VendorName.Value)
	// String amounts with thousands separators parse like numbers
	assert.True(t, fields.TotalAmount.Value.Equal(decimal.RequireFromString("2500.00")))
}

func TestExtractorNullFieldsStayAbsent(t *testing.T) {
	provider := &fakeProvider{response: `{
		"vendor_name": null,
		"invoice_number": "  ",
		"subtotal": null,
		"total_amount": "not a number"
	}`}

	fields, err := NewExtractor(provider).Extract(context.Background(), "text")
	require.NoError(t, err)

	assert.Nil(t, fields.VendorName.Value)
	// Whitespace-only strings are treated as absent
	assert.Nil(t, fields.InvoiceNumber.Value)
	assert.Nil(t, fields.Subtotal.Value)
	// Unparseable amounts stay absent rather than failing the extraction
	assert.Nil(t, fields.TotalAmount.Value)
}

func TestExtractorInvalidJSON(t *testing.T) {
	provider := &fakeProvider{response: "I could not read this invoice, sorry."}

	_, err := NewExtractor(provider).Extract(context.Background(), "text")
	assert.Error(t, err)
}

func TestExtractorProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("rate limited")}

	_, err := NewExtractor(provider).Extract(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestNewProviderUnsupported(t *testing.T) {
	_, err := NewProvider(context.Background(), models.AIConfig{}, "quantum", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported model provider")
}
