package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireAmount(t *testing.T, got *decimal.Decimal, expected string) {
	t.Helper()
	require.NotNil(t, got)
	assert.True(t, got.Equal(decimal.RequireFromString(expected)),
		"expected %s, got %s", expected, got.String())
}

func TestExtractSubtotal(t *testing.T) {
	requireAmount(t, ExtractSubtotal("Subtotal: 100.00"), "100.00")
	requireAmount(t, ExtractSubtotal("SUBTOTAL $1,250.50"), "1250.50")
	requireAmount(t, ExtractSubtotal("Subtotal ₹5,000"), "5000")

	assert.Nil(t, ExtractSubtotal("Total: 100.00"))
	assert.Nil(t, ExtractSubtotal(""))
}

func TestExtractTax(t *testing.T) {
	requireAmount(t, ExtractTax("Tax: 15.50"), "15.50")
	requireAmount(t, ExtractTax("Sales Tax 7.25"), "7.25")
	// Lazy gap: the first number after the label wins
	requireAmount(t, ExtractTax("Tax due soon: 42.00 balance 999.99"), "42.00")

	assert.Nil(t, ExtractTax("Total: 100.00"))
}

func TestExtractTotalAmountPriority(t *testing.T) {
	// "Grand Total" outranks a bare "Total" regardless of position
	requireAmount(t,
		ExtractTotalAmount("Total: 500.00 Grand Total: 110.00"),
		"110.00")

	requireAmount(t, ExtractTotalAmount("Total Amount: $1,234.56"), "1234.56")
	requireAmount(t, ExtractTotalAmount("Total Payable: 89.99"), "89.99")
	requireAmount(t, ExtractTotalAmount("Amount Due: 45.00"), "45.00")

	// Bare total fallback
	requireAmount(t, ExtractTotalAmount("Total: 250.00"), "250.00")
	requireAmount(t, ExtractTotalAmount("Total ₹5,000"), "5000")
}

func TestExtractTotalAmountIgnoresSubtotal(t *testing.T) {
	// A document carrying only a subtotal has no total
	assert.Nil(t, ExtractTotalAmount("Subtotal: 100.00 Tax: 10.00"))

	// Bare total fallback skips "SubTotal" spellings
	requireAmount(t,
		ExtractTotalAmount("SubTotal: 90.00 Total: 99.00"),
		"99.00")
}

func TestExtractTotalAmountMalformed(t *testing.T) {
	// A matched substring that fails numeric parsing is treated as not-found
	assert.Nil(t, ExtractTotalAmount("Total: ,,,"))
	assert.Nil(t, ExtractTotalAmount(""))
}
