package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldlens/invoice-extract-service/internal/models"
)

func newTestHandler() *Handler {
	return NewHandler(&models.Config{})
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestExtractInvoiceEndpoint(t *testing.T) {
	router := newTestHandler().SetupRoutes()

	w := postJSON(t, router, "/api/extract-invoice", models.ExtractRequest{
		Filename: "invoice.pdf",
		Pages: []models.PageInput{
			{Text: "Acme Trading Company\nInvoice Number: INV-77\nDate: 2024-03-15\nSubtotal: 90.00\nTax: 10.00\nGrand Total: 100.00\n"},
			{Text: ""},
		},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Results, 2)
	require.Len(t, resp.Records, 2)

	assert.Equal(t, "Acme Trading Company", resp.Records[0].VendorName)
	require.NotNil(t, resp.Records[0].InvoiceNumber)
	assert.Equal(t, "INV-77", *resp.Records[0].InvoiceNumber)
	assert.Equal(t, "HIGH", resp.Records[0].Confidence)

	// The empty page degrades to a FAILED record, not an error
	assert.Equal(t, models.VendorNotFound, resp.Records[1].VendorName)
	assert.Equal(t, "FAILED", resp.Records[1].Confidence)
}

func TestExtractInvoiceRejectsEmptyRequest(t *testing.T) {
	router := newTestHandler().SetupRoutes()

	w := postJSON(t, router, "/api/extract-invoice", models.ExtractRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/extract-invoice", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportCSVEndpoint(t *testing.T) {
	router := newTestHandler().SetupRoutes()

	number := "INV-001"
	w := postJSON(t, router, "/api/export/csv", ExportRequest{
		Filename: "march",
		Records: []models.Record{
			{VendorName: "Acme Corp", InvoiceNumber: &number, Confidence: "HIGH"},
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="march.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "Vendor Name,Invoice Number,Invoice Date,Subtotal,Tax,Total,Confidence")
	assert.Contains(t, w.Body.String(), "Acme Corp,INV-001")
}

func TestExportRejectsEmptyRecords(t *testing.T) {
	router := newTestHandler().SetupRoutes()

	w := postJSON(t, router, "/api/export/json", ExportRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestHandler().SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Contains(t, body, "services")
}

func TestExtractionsUnavailableWithoutDatabase(t *testing.T) {
	router := newTestHandler().SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/extractions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
