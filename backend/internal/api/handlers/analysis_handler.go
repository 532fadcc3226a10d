// ============================================================================
// backend/internal/api/handlers/analysis_handler.go
// HTTP handlers for detention, performance, and progression analysis
// ============================================================================

package handlers

import (
	"encoding/json"
	"net/http"

	"resultanalyzer/backend/internal/analytics"
	"resultanalyzer/backend/internal/api/util"
	"resultanalyzer/backend/internal/dataset"
	"resultanalyzer/backend/internal/detention"
	"resultanalyzer/backend/internal/progression"
	"resultanalyzer/backend/internal/shared"
	"resultanalyzer/backend/internal/store"
)

// AnalysisHandler runs the analysis core over stored or inline datasets.
type AnalysisHandler struct {
	store    *store.Store
	analyzer shared.AnalyzerConfig
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(st *store.Store, analyzer shared.AnalyzerConfig) *AnalysisHandler {
	return &AnalysisHandler{store: st, analyzer: analyzer}
}

// analysisRequest names the data to analyze: either stored uploads by id
// (merged into one combined view) or an inline header/row payload.
type analysisRequest struct {
	UploadIDs []string      `json:"upload_ids,omitempty"`
	Headers   []string      `json:"headers,omitempty"`
	Rows      []dataset.Row `json:"rows,omitempty"`

	Filter detention.Filter `json:"filter,omitempty"`
	Year   int              `json:"year,omitempty"`
}

// resolveDataset materializes the request's dataset, preferring stored
// uploads over an inline payload.
func (h *AnalysisHandler) resolveDataset(r *http.Request, req *analysisRequest) (*dataset.Dataset, error) {
	if len(req.UploadIDs) > 0 {
		return h.store.CombinedDataset(r.Context(), req.UploadIDs)
	}
	return &dataset.Dataset{Headers: req.Headers, Rows: req.Rows}, nil
}

func decodeAnalysisRequest(w http.ResponseWriter, r *http.Request) (*analysisRequest, bool) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if len(req.UploadIDs) == 0 && len(req.Headers) == 0 {
		util.WriteJSONError(w, http.StatusBadRequest, "Either upload_ids or headers and rows are required")
		return nil, false
	}
	return &req, true
}

// Detention handles POST /api/analysis/detention
func (h *AnalysisHandler) Detention(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAnalysisRequest(w, r)
	if !ok {
		return
	}

	ds, err := h.resolveDataset(r, req)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	report := detention.Analyze(ds.Rows, ds.Headers, req.Filter, detention.Options{
		ResultPolicy:        h.analyzer.ResultPolicy,
		CoreSubjectKeywords: h.analyzer.CoreSubjectKeywords,
	})
	util.WriteJSON(w, http.StatusOK, report)
}

// Performance handles POST /api/analysis/performance
func (h *AnalysisHandler) Performance(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAnalysisRequest(w, r)
	if !ok {
		return
	}

	ds, err := h.resolveDataset(r, req)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	summary := analytics.Summarize(ds.Rows, ds.Headers, analytics.Options{
		ResultPolicy: h.analyzer.ResultPolicy,
		TopN:         h.analyzer.TopPerformers,
	})
	util.WriteJSON(w, http.StatusOK, summary)
}

// Progression handles POST /api/analysis/progression
func (h *AnalysisHandler) Progression(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAnalysisRequest(w, r)
	if !ok {
		return
	}
	if req.Year < 1 || req.Year > 4 {
		util.WriteJSONError(w, http.StatusBadRequest, "year must be an integer between 1 and 4")
		return
	}

	ds, err := h.resolveDataset(r, req)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	rows := progression.FilterByYear(ds.Rows, ds.Headers, req.Year, progression.Options{
		ResultPolicy: h.analyzer.ResultPolicy,
	})
	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"headers": ds.Headers,
		"rows":    rows,
		"total":   len(rows),
	})
}
