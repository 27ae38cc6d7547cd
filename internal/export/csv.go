// Package export serializes extraction records for download. The record key
// set and the CSV header row are fixed by the export contract.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fieldlens/invoice-extract-service/internal/models"
)

// CSVHeader is the fixed header row for CSV exports.
var CSVHeader = []string{
	"Vendor Name",
	"Invoice Number",
	"Invoice Date",
	"Subtotal",
	"Tax",
	"Total",
	"Confidence",
}

// WriteCSV renders records as a CSV document with the fixed header. Absent
// values become empty cells.
func WriteCSV(records []models.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(CSVHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.VendorName,
			textCell(rec.InvoiceNumber),
			textCell(rec.InvoiceDate),
			amountCell(rec.Subtotal),
			amountCell(rec.Tax),
			amountCell(rec.TotalAmount),
			rec.Confidence,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func textCell(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func amountCell(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}
