// ============================================================================
// backend/internal/api/handlers/admin_handler.go
// HTTP handlers for the admin overview
// ============================================================================

package handlers

import (
	"net/http"

	"resultanalyzer/backend/internal/api/util"
	"resultanalyzer/backend/internal/store"
)

// AdminHandler serves admin-only system information.
type AdminHandler struct {
	store *store.Store
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(st *store.Store) *AdminHandler {
	return &AdminHandler{store: st}
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, stats)
}
