package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/fieldlens/invoice-extract-service/internal/models"
)

// WriteXLSX renders records as an XLSX workbook with the same columns as the
// CSV export.
func WriteXLSX(records []models.Record) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Extractions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range CSVHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for r, rec := range records {
		row := r + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, rec.VendorName)
		write(2, textCell(rec.InvoiceNumber))
		write(3, textCell(rec.InvoiceDate))
		write(4, amountCell(rec.Subtotal))
		write(5, amountCell(rec.Tax))
		write(6, amountCell(rec.TotalAmount))
		write(7, rec.Confidence)
	}

	// Widen the name columns
	_ = f.SetColWidth(sheet, "A", "A", 28)
	_ = f.SetColWidth(sheet, "B", "C", 16)
	_ = f.SetColWidth(sheet, "D", "F", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
