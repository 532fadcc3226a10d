// ============================================================================
// backend/internal/api/handlers/upload_handler.go
// HTTP handlers for gradesheet upload CRUD and year filtering
// ============================================================================

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"resultanalyzer/backend/internal/api/util"
	"resultanalyzer/backend/internal/dataset"
	"resultanalyzer/backend/internal/progression"
	"resultanalyzer/backend/internal/shared"
	"resultanalyzer/backend/internal/store"
)

// UploadHandler handles stored gradesheet endpoints.
type UploadHandler struct {
	store    *store.Store
	analyzer shared.AnalyzerConfig
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(st *store.Store, analyzer shared.AnalyzerConfig) *UploadHandler {
	return &UploadHandler{store: st, analyzer: analyzer}
}

type createUploadRequest struct {
	FileName string        `json:"file_name"`
	Headers  []string      `json:"headers"`
	Rows     []dataset.Row `json:"rows"`
}

// Create handles POST /api/uploads
func (h *UploadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FileName == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "file_name is required")
		return
	}
	if len(req.Headers) == 0 {
		util.WriteJSONError(w, http.StatusBadRequest, "headers are required")
		return
	}

	upload := &shared.Upload{
		FileName: req.FileName,
		Headers:  req.Headers,
		Rows:     req.Rows,
	}
	if claims := util.ClaimsFrom(r); claims != nil {
		upload.UploadedBy = claims.Email
	}

	id, err := h.store.SaveUpload(r.Context(), upload)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"id":        id,
		"row_count": upload.RowCount,
	})
}

// List handles GET /api/uploads
func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	metas, err := h.store.ListUploads(r.Context(), limit)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, metas)
}

// Get handles GET /api/uploads/{id}
func (h *UploadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	upload, err := h.store.GetUpload(r.Context(), id)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, upload)
}

// Delete handles DELETE /api/uploads/{id}
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteUpload(r.Context(), id); err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]string{"message": "Upload deleted"})
}

// Rows handles GET /api/uploads/{id}/rows?year=N
//
// Without a year parameter the full sheet is returned. With one, rows are
// restricted to students eligible to progress into that academic year.
func (h *UploadHandler) Rows(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	upload, err := h.store.GetUpload(r.Context(), id)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	rows := upload.Rows
	yearParam := r.URL.Query().Get("year")
	if yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil || year < 1 || year > 4 {
			util.WriteJSONError(w, http.StatusBadRequest, "year must be an integer between 1 and 4")
			return
		}
		rows = progression.FilterByYear(upload.Rows, upload.Headers, year, progression.Options{
			ResultPolicy: h.analyzer.ResultPolicy,
		})
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"headers": upload.Headers,
		"rows":    rows,
		"total":   len(rows),
	})
}
