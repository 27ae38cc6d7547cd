package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fieldlens/invoice-extract-service/internal/export"
	"github.com/fieldlens/invoice-extract-service/internal/models"
	"github.com/fieldlens/invoice-extract-service/internal/storage"
)

// ExportRequest is the body of the export endpoints: the records to serialize
// plus an optional filename stem for the attachment.
type ExportRequest struct {
	Records  []models.Record `json:"records"`
	Filename string          `json:"filename,omitempty"`
}

// ExportCSV serializes posted records as a CSV attachment
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, "csv", "text/csv", export.WriteCSV)
}

// ExportJSON serializes posted records as a JSON attachment
func (h *Handler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, "json", "application/json", export.WriteJSON)
}

// ExportXLSX serializes posted records as an XLSX attachment
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, "xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		export.WriteXLSX)
}

func (h *Handler) serveExport(w http.ResponseWriter, r *http.Request, ext, contentType string, write func([]models.Record) ([]byte, error)) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		h.sendError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Records) == 0 {
		w.Header().Set("Content-Type", "application/json")
		h.sendError(w, http.StatusBadRequest, "no records provided")
		return
	}

	data, err := write(req.Records)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to generate %s: %v", ext, err))
		return
	}

	stem := req.Filename
	if stem == "" {
		stem = "extractions_" + time.Now().Format("20060102_150405")
	}
	filename := stem + "." + ext

	// Keep a copy of the export alongside the archived documents
	if storage.Client != nil {
		if _, err := storage.StoreExport(r.Context(), filename, contentType, data); err != nil {
			fmt.Printf("Warning: failed to store export copy: %v\n", err)
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}
