package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"resultanalyzer/backend/internal/auth"
	"resultanalyzer/backend/internal/shared"
)

func testRouter(t *testing.T) (http.Handler, string) {
	t.Helper()

	authService := auth.NewService(nil, shared.SecurityConfig{
		JWTSecret:          "route-test-secret",
		JWTExpirationHours: 1,
	})

	cfg := &shared.ServerConfig{
		CORS: shared.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		},
		Analyzer: shared.AnalyzerConfig{TopPerformers: 5},
	}

	token, err := authService.GenerateToken(&shared.User{
		ID:    "u-100",
		Email: "dean@example.edu",
		Role:  "faculty",
		Name:  "Dean Test",
	})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	// Store stays nil; inline analysis payloads never touch it.
	router := SetupRoutes(&Deps{Auth: authService, Config: cfg})
	return router, token
}

func postJSON(t *testing.T, router http.Handler, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnalysisRequiresAuth(t *testing.T) {
	router, _ := testRouter(t)

	rec := postJSON(t, router, "/api/analysis/detention", "", map[string]interface{}{
		"headers": []string{"Map Number", "Sem"},
		"rows":    [][]interface{}{},
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestDetentionInline(t *testing.T) {
	router, token := testRouter(t)

	rec := postJSON(t, router, "/api/analysis/detention", token, map[string]interface{}{
		"headers": []string{"Map Number", "Student Name", "Sem", "Result"},
		"rows": [][]interface{}{
			{"S1", "Asha", 1, "PASS"},
			{"S1", "Asha", 2, "FAIL"},
			{"S2", "Ravi", 1, "PASS"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			TotalStudents int `json:"total_students"`
			DetainedCount int `json:"detained_count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Success {
		t.Error("success = false")
	}
	if envelope.Data.TotalStudents != 2 {
		t.Errorf("total_students = %d, want 2", envelope.Data.TotalStudents)
	}
	if envelope.Data.DetainedCount != 1 {
		t.Errorf("detained_count = %d, want 1", envelope.Data.DetainedCount)
	}
}

func TestProgressionInline(t *testing.T) {
	router, token := testRouter(t)

	rec := postJSON(t, router, "/api/analysis/progression", token, map[string]interface{}{
		"year":    1,
		"headers": []string{"Map Number", "Sem", "Result"},
		"rows": [][]interface{}{
			{"S1", 1, "PASS"},
			{"S1", 2, "PASS"},
			{"S2", 1, "FAIL"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data struct {
			Total int `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Total != 2 {
		t.Errorf("total = %d, want 2 qualifying rows", envelope.Data.Total)
	}
}

func TestProgressionRejectsBadYear(t *testing.T) {
	router, token := testRouter(t)

	rec := postJSON(t, router, "/api/analysis/progression", token, map[string]interface{}{
		"year":    9,
		"headers": []string{"Map Number", "Sem", "Result"},
		"rows":    [][]interface{}{},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAdminRequiresAdminRole(t *testing.T) {
	router, token := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token) // faculty token
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
