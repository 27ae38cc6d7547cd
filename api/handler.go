package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/fieldlens/invoice-extract-service/internal/db"
	"github.com/fieldlens/invoice-extract-service/internal/extract"
	"github.com/fieldlens/invoice-extract-service/internal/hybrid"
	"github.com/fieldlens/invoice-extract-service/internal/model"
	"github.com/fieldlens/invoice-extract-service/internal/models"
	"github.com/fieldlens/invoice-extract-service/internal/storage"
)

const (
	MaxRequestSize = 10 * 1024 * 1024 // 10MB
	Version        = "1.0.0"
)

// Handler handles HTTP requests for invoice field extraction
type Handler struct {
	config   *models.Config
	pipeline *extract.Pipeline
}

// NewHandler creates a new API handler
func NewHandler(config *models.Config) *Handler {
	return &Handler{
		config:   config,
		pipeline: extract.NewPipeline(config.Extraction),
	}
}

// SetupRoutes configures the HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	// Main endpoint
	router.HandleFunc("/api/extract-invoice", h.ExtractInvoice).Methods("POST")

	// Extraction CRUD
	router.HandleFunc("/api/extractions", h.GetExtractions).Methods("GET")
	router.HandleFunc("/api/extraction/{id}", h.GetExtraction).Methods("GET")
	router.HandleFunc("/api/extraction/{id}", h.UpdateExtraction).Methods("PUT")
	router.HandleFunc("/api/extraction/{id}", h.DeleteExtraction).Methods("DELETE")

	// Exports
	router.HandleFunc("/api/export/csv", h.ExportCSV).Methods("POST")
	router.HandleFunc("/api/export/json", h.ExportJSON).Methods("POST")
	router.HandleFunc("/api/export/xlsx", h.ExportXLSX).Methods("POST")

	// Statistics
	router.HandleFunc("/api/stats", h.GetStats).Methods("GET")

	// Health check
	router.HandleFunc("/health", h.Health).Methods("GET")

	return router
}

// ExtractInvoice runs the extraction pipeline over the submitted pages.
// Input is pre-extracted document text (plus optional layout blocks) from the
// OCR/PDF boundary; the optional model pipeline is merged in when requested.
func (h *Handler) ExtractInvoice(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	startTime := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestSize)
	var req models.ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Pages) == 0 {
		h.sendError(w, http.StatusBadRequest, "no pages provided")
		return
	}

	// Rule-based pipeline, all pages concurrently
	results := h.pipeline.ExtractPages(req.Pages)

	// Optional model pipeline merged on top
	if req.UseModel {
		providerName := req.Provider
		if providerName == "" {
			providerName = h.config.AI.DefaultProvider
		}
		if providerName != "" {
			h.mergeModelResults(ctx, providerName, req.Model, results)
		}
	}

	// Archive the submission for audit (optional)
	var archiveURL string
	if storage.Client != nil {
		payload, err := json.Marshal(req.Pages)
		if err == nil {
			name := fmt.Sprintf("%s_%s.json",
				time.Now().Format("20060102_150405"),
				uuid.New().String()[:8],
			)
			archiveURL, err = storage.ArchiveDocument(ctx, name, payload)
			if err != nil {
				fmt.Printf("Warning: failed to archive document: %v\n", err)
			}
		}
	}

	// Persist rows (optional)
	if db.Pool != nil {
		h.saveResults(ctx, req.Filename, archiveURL, results)
	}

	records := make([]models.Record, len(results))
	for i, res := range results {
		records[i] = res.ToRecord()
	}

	json.NewEncoder(w).Encode(models.ExtractResponse{
		Success:  true,
		Results:  results,
		Records:  records,
		Duration: time.Since(startTime).Seconds(),
	})
}

// mergeModelResults runs the model extractor per page and merges its fields
// into the rule-based results in place. Model failures degrade to the pure
// rule-based result for that page.
func (h *Handler) mergeModelResults(ctx context.Context, providerName, modelName string, results []models.ExtractionResult) {
	provider, err := model.NewProvider(ctx, h.config.AI, providerName, modelName)
	if err != nil {
		fmt.Printf("Warning: model provider unavailable: %v\n", err)
		return
	}
	defer provider.Close()

	extractor := model.NewExtractor(provider)
	for i := range results {
		modelFields, err := extractor.Extract(ctx, results[i].CleanedText)
		if err != nil {
			fmt.Printf("Warning: model extraction failed for page %d: %v\n", i+1, err)
			continue
		}
		results[i] = hybrid.Merge(results[i], modelFields)
	}
}

// saveResults persists one row per page, logging and continuing on failure.
func (h *Handler) saveResults(ctx context.Context, filename, archiveURL string, results []models.ExtractionResult) {
	for i, res := range results {
		vendor := models.VendorNotFound
		if res.Fields.VendorName.Value != nil {
			vendor = *res.Fields.VendorName.Value
		}
		ext := &db.Extraction{
			Filename:      filename,
			Page:          i + 1,
			VendorName:    vendor,
			InvoiceNumber: res.Fields.InvoiceNumber.Value,
			InvoiceDate:   res.Fields.InvoiceDate.Value,
			Subtotal:      decimalPtrToFloat(res.Fields.Subtotal.Value),
			Tax:           decimalPtrToFloat(res.Fields.Tax.Value),
			TotalAmount:   decimalPtrToFloat(res.Fields.TotalAmount.Value),
			Confidence:    res.Confidence.Score,
			Label:         string(res.Confidence.Label),
			Source:        string(res.Fields.VendorName.Source),
			RawText:       res.RawText,
			ArchiveURL:    archiveURL,
		}
		if err := db.SaveExtraction(ctx, ext); err != nil {
			fmt.Printf("Warning: failed to save extraction for page %d: %v\n", i+1, err)
		}
	}
}

// GetExtractions returns recent extractions
func (h *Handler) GetExtractions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	extractions, err := db.GetExtractions(r.Context(), 100)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get extractions: %v", err))
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":     true,
		"extractions": extractions,
		"count":       len(extractions),
	})
}

// GetExtraction returns a single extraction
func (h *Handler) GetExtraction(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	vars := mux.Vars(r)
	extraction, err := db.GetExtractionByID(r.Context(), vars["id"])
	if err != nil {
		h.sendError(w, http.StatusNotFound, fmt.Sprintf("extraction not found: %v", err))
		return
	}

	// Generate presigned URL for the archived source document
	if extraction.ArchiveURL != "" && storage.Client != nil {
		if presignedURL, err := storage.GetPresignedURL(r.Context(), extraction.ArchiveURL); err == nil {
			extraction.ArchiveURL = presignedURL
		}
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":    true,
		"extraction": extraction,
	})
}

// UpdateExtraction updates reviewed field values
func (h *Handler) UpdateExtraction(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	vars := mux.Vars(r)

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Only allow certain fields to be updated
	allowed := map[string]bool{
		"vendor_name":    true,
		"invoice_number": true,
		"invoice_date":   true,
		"subtotal":       true,
		"tax":            true,
		"total_amount":   true,
		"label":          true,
	}
	filtered := make(map[string]interface{})
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}

	if len(filtered) == 0 {
		h.sendError(w, http.StatusBadRequest, "no valid fields to update")
		return
	}

	if err := db.UpdateExtraction(r.Context(), vars["id"], filtered); err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to update extraction")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "extraction updated",
	})
}

// DeleteExtraction removes an extraction
func (h *Handler) DeleteExtraction(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	vars := mux.Vars(r)

	// Optionally: delete the archived source document
	if storage.Client != nil {
		extraction, err := db.GetExtractionByID(r.Context(), vars["id"])
		if err == nil && extraction.ArchiveURL != "" {
			_ = storage.DeleteObject(r.Context(), extraction.ArchiveURL)
		}
	}

	if err := db.DeleteExtraction(r.Context(), vars["id"]); err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to delete extraction")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "extraction deleted",
	})
}

// GetStats returns monthly statistics
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	stats, err := db.GetMonthlyStats(r.Context())
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"stats":   stats,
	})
}

// ServiceStatus reports the availability of one dependency.
type ServiceStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health returns service health and dependency status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	services := map[string]ServiceStatus{}

	if db.Pool != nil {
		if err := db.Pool.Ping(r.Context()); err != nil {
			services["database"] = ServiceStatus{Status: "degraded", Message: err.Error()}
		} else {
			services["database"] = ServiceStatus{Status: "ok"}
		}
	} else {
		services["database"] = ServiceStatus{Status: "unavailable", Message: "not configured"}
	}

	if storage.Client != nil {
		services["storage"] = ServiceStatus{Status: "ok"}
	} else {
		services["storage"] = ServiceStatus{Status: "unavailable", Message: "not configured"}
	}

	switch {
	case h.config.AI.OpenAI.APIKey != "" || h.config.AI.Gemini.APIKey != "":
		services["model"] = ServiceStatus{Status: "ok"}
	default:
		services["model"] = ServiceStatus{Status: "unavailable", Message: "no API key configured"}
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     "healthy",
		"version":    Version,
		"services":   services,
		"goroutines": runtime.NumGoroutine(),
		"memory_mb":  mem.Alloc / 1024 / 1024,
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}

// sendError sends an error response
func (h *Handler) sendError(w http.ResponseWriter, statusCode int, message string) {
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// decimalPtrToFloat converts an optional decimal to an optional float64 for
// persistence.
func decimalPtrToFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return &f
}
