package cvs

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

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(store.New(kv.NewMemory())).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCVLifecycle(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/cvs", nil)
	if w.Code != http.StatusOK || bytes.TrimSpace(w.Body.Bytes())[0] != '[' {
		t.Fatalf("expected empty list, got %d %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/api/v1/cvs", map[string]any{
		"name":     "Backend",
		"sections": []models.Section{{Title: "Skills", Content: "Go"}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created models.CV
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamps, got %+v", created)
	}

	w = do(t, r, http.MethodPut, "/api/v1/cvs/"+created.ID, map[string]any{"name": "Backend v2"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated models.CV
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Name != "Backend v2" || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("unexpected update: %+v", updated)
	}

	w = do(t, r, http.MethodDelete, "/api/v1/cvs/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = do(t, r, http.MethodDelete, "/api/v1/cvs/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("repeat delete should succeed, got %d", w.Code)
	}
	w = do(t, r, http.MethodGet, "/api/v1/cvs/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCreateCVRequiresName(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/cvs", map[string]any{"name": "  "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"field":"name"`)) {
		t.Fatalf("expected field detail, got %s", w.Body.String())
	}
}

func TestUpdateUnknownCV(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPut, "/api/v1/cvs/missing", map[string]any{"name": "x"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
