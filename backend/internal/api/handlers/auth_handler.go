// ============================================================================
// backend/internal/api/handlers/auth_handler.go
// HTTP handlers for authentication endpoints
// ============================================================================

package handlers

import (
	"encoding/json"
	"net/http"

	"resultanalyzer/backend/internal/api/util"
	"resultanalyzer/backend/internal/auth"
)

// AuthHandler handles login, token validation, and password changes.
type AuthHandler struct {
	auth *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{auth: service}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// Validate handles GET /api/auth/validate. The auth middleware has already
// verified the token, so reaching this handler means the session is good.
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	claims := util.ClaimsFrom(r)
	if claims == nil {
		util.WriteJSONError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": claims.UserID,
		"email":   claims.Email,
		"role":    claims.Role,
		"name":    claims.Name,
	})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword handles POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := util.ClaimsFrom(r)
	if claims == nil {
		util.WriteJSONError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "Old and new passwords are required")
		return
	}

	if err := h.auth.ChangePassword(r.Context(), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}
