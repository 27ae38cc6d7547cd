package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VendorNotFound is the sentinel reported when vendor resolution ran through
// every layer without producing a candidate. It is a present-but-unresolved
// value, not an absent field.
const VendorNotFound = "Vendor Not Found"

// FieldSource identifies which pipeline produced a field value.
type FieldSource string

const (
	SourceRule  FieldSource = "rule"
	SourceModel FieldSource = "model"
)

// TextField is a single extracted string datum. A nil Value means the field
// was not found, which is distinct from a found-but-empty string.
type TextField struct {
	Value  *string     `json:"value"`
	Source FieldSource `json:"source"`
}

// AmountField is a single extracted monetary datum.
type AmountField struct {
	Value  *decimal.Decimal `json:"value"`
	Source FieldSource      `json:"source"`
}

// FieldSet holds the complete set of extracted fields for one document page.
// Every field is always present; absence is expressed through nil values.
type FieldSet struct {
	VendorName    TextField   `json:"vendor_name"`
	InvoiceNumber TextField   `json:"invoice_number"`
	InvoiceDate   TextField   `json:"invoice_date"`
	Subtotal      AmountField `json:"subtotal"`
	Tax           AmountField `json:"tax"`
	TotalAmount   AmountField `json:"total_amount"`
}

// NewFieldSet returns an empty FieldSet with every field tagged with the
// given source.
func NewFieldSet(source FieldSource) FieldSet {
	return FieldSet{
		VendorName:    TextField{Source: source},
		InvoiceNumber: TextField{Source: source},
		InvoiceDate:   TextField{Source: source},
		Subtotal:      AmountField{Source: source},
		Tax:           AmountField{Source: source},
		TotalAmount:   AmountField{Source: source},
	}
}

// LayoutBlock is an optional positional hint for one detected text region.
// Blocks are produced by the PDF/OCR boundary and passed by reference; the
// resolver never mutates them.
type LayoutBlock struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Text   string  `json:"text"`
}

// ConfidenceLabel categorizes a numeric confidence score.
type ConfidenceLabel string

const (
	ConfidenceHigh   ConfidenceLabel = "HIGH"
	ConfidenceMedium ConfidenceLabel = "MEDIUM"
	ConfidenceLow    ConfidenceLabel = "LOW"
	ConfidenceFailed ConfidenceLabel = "FAILED"
)

// Confidence is a numeric score in [0,1] plus its derived label. FAILED is
// reserved for extractions with no usable total.
type Confidence struct {
	Score float64         `json:"score"`
	Label ConfidenceLabel `json:"label"`
}

// LabelForScore maps a score onto the canonical thresholds.
func LabelForScore(score float64) ConfidenceLabel {
	switch {
	case score >= 0.8:
		return ConfidenceHigh
	case score >= 0.5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ExtractionResult is the unit returned to the boundary layer for one page.
// Immutable after construction.
type ExtractionResult struct {
	RawText     string     `json:"rawText"`
	CleanedText string     `json:"cleanedText"`
	Fields      FieldSet   `json:"fields"`
	Confidence  Confidence `json:"confidence"`
	ProcessedAt time.Time  `json:"processedAt"`
}

// Record is the flat representation consumed by the CSV/JSON/XLSX exporters.
// Key set and order are fixed by the export contract.
type Record struct {
	VendorName    string           `json:"vendor_name"`
	InvoiceNumber *string          `json:"invoice_number"`
	InvoiceDate   *string          `json:"invoice_date"`
	Subtotal      *decimal.Decimal `json:"subtotal"`
	Tax           *decimal.Decimal `json:"tax"`
	TotalAmount   *decimal.Decimal `json:"total_amount"`
	Confidence    string           `json:"confidence"`
}

// ToRecord flattens an extraction result into its export record.
func (r ExtractionResult) ToRecord() Record {
	vendor := VendorNotFound
	if r.Fields.VendorName.Value != nil {
		vendor = *r.Fields.VendorName.Value
	}
	return Record{
		VendorName:    vendor,
		InvoiceNumber: r.Fields.InvoiceNumber.Value,
		InvoiceDate:   r.Fields.InvoiceDate.Value,
		Subtotal:      r.Fields.Subtotal.Value,
		Tax:           r.Fields.Tax.Value,
		TotalAmount:   r.Fields.TotalAmount.Value,
		Confidence:    string(r.Confidence.Label),
	}
}

// PageInput is one page of extracted document text plus optional layout hints,
// as delivered by the OCR/PDF collaborators.
type PageInput struct {
	Text   string        `json:"text"`
	Blocks []LayoutBlock `json:"blocks,omitempty"`
}

// ExtractRequest is the body of POST /api/extract-invoice.
type ExtractRequest struct {
	Filename string      `json:"filename,omitempty"`
	Pages    []PageInput `json:"pages"`

	// Model options (optional second pipeline)
	UseModel bool   `json:"useModel"`
	Provider string `json:"provider,omitempty"` // "openai" or "gemini"
	Model    string `json:"model,omitempty"`
}

// ExtractResponse is the reply for POST /api/extract-invoice.
type ExtractResponse struct {
	Success  bool               `json:"success"`
	Results  []ExtractionResult `json:"results,omitempty"`
	Records  []Record           `json:"records,omitempty"`
	Error    string             `json:"error,omitempty"`
	Duration float64            `json:"duration"`
}
