package profile

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"cvai-core/internal/models"
	"cvai-core/internal/shared/storage/kv"
	"cvai-core/internal/store"
)

func do(t *testing.T, r http.Handler, method string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, "/api/v1/profile", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProfileLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(store.New(kv.NewMemory())).RegisterRoutes(r.Group("/api/v1"))

	if w := do(t, r, http.MethodGet, nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before create, got %d", w.Code)
	}

	w := do(t, r, http.MethodPost, map[string]string{"name": "", "email": "a@b.c"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty name, got %d", w.Code)
	}

	w = do(t, r, http.MethodPost, map[string]string{"name": "Ada", "email": "ada@example.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created models.UserProfile
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if w := do(t, r, http.MethodPost, map[string]string{"name": "Ada", "email": "ada@example.com"}); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for second create, got %d", w.Code)
	}

	w = do(t, r, http.MethodPut, map[string]string{"name": "Ada L.", "email": "ada@example.com", "phone": "555"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var saved models.UserProfile
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if saved.ID != created.ID || saved.Name != "Ada L." || !saved.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("unexpected saved profile: %+v", saved)
	}

	if w := do(t, r, http.MethodDelete, nil); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w := do(t, r, http.MethodDelete, nil); w.Code != http.StatusNoContent {
		t.Fatalf("repeat delete should succeed, got %d", w.Code)
	}
}
