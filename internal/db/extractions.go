package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Extraction is one persisted extraction row: the flattened fields of a
// single processed page plus provenance metadata. Nil pointers map to NULL
// columns, preserving the found/not-found distinction.
type Extraction struct {
	ID            uuid.UUID  `json:"id"`
	Filename      string     `json:"filename"`
	Page          int        `json:"page"`
	VendorName    string     `json:"vendor_name"`
	InvoiceNumber *string    `json:"invoice_number"`
	InvoiceDate   *string    `json:"invoice_date"`
	Subtotal      *float64   `json:"subtotal"`
	Tax           *float64   `json:"tax"`
	TotalAmount   *float64   `json:"total_amount"`
	Confidence    float64    `json:"confidence"`
	Label         string     `json:"label"`
	Source        string     `json:"source"`
	RawText       string     `json:"raw_text,omitempty"`
	ArchiveURL    string     `json:"archive_url,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// SaveExtraction inserts one extraction row and fills in ID and CreatedAt.
func SaveExtraction(ctx context.Context, ext *Extraction) error {
	query := `
		INSERT INTO extractions (
			filename, page, vendor_name, invoice_number, invoice_date,
			subtotal, tax, total_amount, confidence, label, source,
			raw_text, archive_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`

	err := Pool.QueryRow(ctx, query,
		ext.Filename, ext.Page, ext.VendorName, ext.InvoiceNumber, ext.InvoiceDate,
		ext.Subtotal, ext.Tax, ext.TotalAmount, ext.Confidence, ext.Label, ext.Source,
		ext.RawText, ext.ArchiveURL,
	).Scan(&ext.ID, &ext.CreatedAt)

	return err
}

// GetExtractions returns the most recent extractions.
func GetExtractions(ctx context.Context, limit int) ([]Extraction, error) {
	query := `
		SELECT id, COALESCE(filename, ''), page, COALESCE(vendor_name, ''),
		       invoice_number, invoice_date, subtotal, tax, total_amount,
		       COALESCE(confidence, 0), COALESCE(label, ''), COALESCE(source, ''),
		       COALESCE(archive_url, ''), created_at
		FROM extractions
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var extractions []Extraction
	for rows.Next() {
		var ext Extraction
		err := rows.Scan(
			&ext.ID, &ext.Filename, &ext.Page, &ext.VendorName,
			&ext.InvoiceNumber, &ext.InvoiceDate, &ext.Subtotal, &ext.Tax, &ext.TotalAmount,
			&ext.Confidence, &ext.Label, &ext.Source,
			&ext.ArchiveURL, &ext.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		extractions = append(extractions, ext)
	}

	return extractions, nil
}

// GetExtractionByID retrieves a single extraction by ID, including raw text.
func GetExtractionByID(ctx context.Context, extractionID string) (*Extraction, error) {
	query := `
		SELECT id, COALESCE(filename, ''), page, COALESCE(vendor_name, ''),
		       invoice_number, invoice_date, subtotal, tax, total_amount,
		       COALESCE(confidence, 0), COALESCE(label, ''), COALESCE(source, ''),
		       COALESCE(raw_text, ''), COALESCE(archive_url, ''), created_at, updated_at
		FROM extractions
		WHERE id = $1
	`

	var ext Extraction
	err := Pool.QueryRow(ctx, query, extractionID).Scan(
		&ext.ID, &ext.Filename, &ext.Page, &ext.VendorName,
		&ext.InvoiceNumber, &ext.InvoiceDate, &ext.Subtotal, &ext.Tax, &ext.TotalAmount,
		&ext.Confidence, &ext.Label, &ext.Source,
		&ext.RawText, &ext.ArchiveURL, &ext.CreatedAt, &ext.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ext, nil
}

// UpdateExtraction updates a whitelisted set of extraction fields.
func UpdateExtraction(ctx context.Context, extractionID string, updates map[string]interface{}) error {
	sets := []string{}
	args := []interface{}{}
	i := 1
	for key, value := range updates {
		sets = append(sets, fmt.Sprintf("%s = $%d", key, i))
		args = append(args, value)
		i++
	}

	sets = append(sets, fmt.Sprintf("updated_at = $%d", i))
	args = append(args, time.Now())
	i++

	args = append(args, extractionID)

	query := fmt.Sprintf("UPDATE extractions SET %s WHERE id = $%d",
		strings.Join(sets, ", "), i)

	_, err := Pool.Exec(ctx, query, args...)
	return err
}

// DeleteExtraction removes an extraction row.
func DeleteExtraction(ctx context.Context, extractionID string) error {
	_, err := Pool.Exec(ctx, "DELETE FROM extractions WHERE id = $1", extractionID)
	return err
}

// MonthlyStats represents monthly extraction statistics
type MonthlyStats struct {
	Month            string  `json:"month"`
	TotalExtractions int     `json:"total_extractions"`
	TotalSubtotal    float64 `json:"total_subtotal"`
	TotalTax         float64 `json:"total_tax"`
	TotalAmount      float64 `json:"total_amount"`
	AvgConfidence    float64 `json:"avg_confidence"`
}

// GetMonthlyStats returns aggregate statistics for the current month.
func GetMonthlyStats(ctx context.Context) (*MonthlyStats, error) {
	query := `
		SELECT
			COUNT(*) as total_extractions,
			COALESCE(SUM(subtotal), 0) as total_subtotal,
			COALESCE(SUM(tax), 0) as total_tax,
			COALESCE(SUM(total_amount), 0) as total_amount,
			COALESCE(AVG(confidence), 0) as avg_confidence
		FROM extractions
		WHERE DATE_TRUNC('month', created_at) = DATE_TRUNC('month', CURRENT_DATE)
	`

	stats := &MonthlyStats{
		Month: time.Now().Format("2006-01"),
	}

	err := Pool.QueryRow(ctx, query).Scan(
		&stats.TotalExtractions,
		&stats.TotalSubtotal,
		&stats.TotalTax,
		&stats.TotalAmount,
		&stats.AvgConfidence,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
