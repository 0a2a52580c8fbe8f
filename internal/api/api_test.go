package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/SO-Ctrix/Node-Packer/internal/auth"
	"github.com/SO-Ctrix/Node-Packer/internal/models"
	"github.com/SO-Ctrix/Node-Packer/internal/store"

	"github.com/gin-gonic/gin"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestServer(t *testing.T, signingKey []byte) (*gin.Engine, *store.Store) {
	t.Helper()
	db, err := store.Open(store.DriverSQLite, filepath.Join(t.TempDir(), "packer.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := store.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	st := store.New(db)
	st.Location = time.UTC
	return SetupRouter(st, signingKey), st
}

func do(r http.Handler, method, target, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
	return v
}

func idStr(id int64) string { return strconv.FormatInt(id, 10) }

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["error"]
}

func TestPackageLifecycle(t *testing.T) {
	r, _ := newTestServer(t, nil)

	body := `{"name":"core-utils","version":"1.0.0","keywords":["util"],"categories":["tools"],"dependencies":{"lodash":"^4.17.21"}}`
	w := do(r, http.MethodPost, "/records", body)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("POST status = %d, body %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/records" {
		t.Errorf("Location = %q", loc)
	}

	w = do(r, http.MethodGet, "/records", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	list := decode[[]map[string]any](t, w)
	if len(list) != 1 {
		t.Fatalf("expected 1 record, got %d", len(list))
	}
	id := int64(list[0]["id"].(float64))
	target := "/records/" + idStr(id)

	w = do(r, http.MethodGet, target, "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}
	got := decode[map[string]any](t, w)
	if got["name"] != "core-utils" || got["main"] != "index.js" || got["license"] != "MIT" {
		t.Errorf("unexpected record: %v", got)
	}
	if got["purl"] != "pkg:npm/core-utils@1.0.0" {
		t.Errorf("purl = %v", got["purl"])
	}
	if !strings.Contains(w.Body.String(), `"dependencies":{"lodash":"^4.17.21"}`) {
		t.Errorf("dependencies not preserved: %s", w.Body.String())
	}

	w = do(r, http.MethodPatch, target, `{"version":"1.1.0","private":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PATCH status = %d, body %s", w.Code, w.Body.String())
	}
	got = decode[map[string]any](t, w)
	if got["version"] != "1.1.0" || got["private"] != true || got["name"] != "core-utils" {
		t.Errorf("unexpected update: %v", got)
	}

	w = do(r, http.MethodDelete, "/records?id="+idStr(id), "")
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d", w.Code)
	}
	if ok := decode[map[string]bool](t, w)["success"]; !ok {
		t.Errorf("expected success, got %s", w.Body.String())
	}

	w = do(r, http.MethodGet, target, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("GET after delete = %d", w.Code)
	}
}

func TestListIsNeverNull(t *testing.T) {
	r, _ := newTestServer(t, nil)
	w := do(r, http.MethodGet, "/records", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
}

func TestListFilters(t *testing.T) {
	r, st := newTestServer(t, nil)
	ctx := context.Background()
	for _, in := range []*models.PackageInput{
		{Name: models.Ptr("alpha"), Version: models.Ptr("1.0.0"), Categories: models.Ptr([]string{"tools"})},
		{Name: models.Ptr("beta"), Version: models.Ptr("1.0.0"), Description: models.Ptr("Alpha helper"), Categories: models.Ptr([]string{"toolsmith"})},
	} {
		if _, err := st.Create(ctx, in); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?search=alpha", 1},
		{"?search=Alpha", 1},
		{"?category=tools", 1},
		{"?category=tool", 0},
		{"?search=zzz", 0},
	}
	for _, tt := range tests {
		w := do(r, http.MethodGet, "/records"+tt.query, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d", tt.query, w.Code)
		}
		if got := len(decode[[]map[string]any](t, w)); got != tt.want {
			t.Errorf("%s: got %d records, want %d", tt.query, got, tt.want)
		}
	}
}

func TestErrorStatuses(t *testing.T) {
	r, _ := newTestServer(t, nil)

	tests := []struct {
		name, method, target, body string
		status                     int
		msg                        string
	}{
		{"get missing", http.MethodGet, "/records/42", "", http.StatusNotFound, "package not found"},
		{"patch missing", http.MethodPatch, "/records/42", `{"name":"x"}`, http.StatusNotFound, "package not found"},
		{"delete missing", http.MethodDelete, "/records?id=42", "", http.StatusNotFound, "package not found"},
		{"delete without id", http.MethodDelete, "/records", "", http.StatusBadRequest, "ID is required"},
		{"delete bad id", http.MethodDelete, "/records?id=abc", "", http.StatusBadRequest, "invalid id"},
		{"get bad id", http.MethodGet, "/records/0", "", http.StatusBadRequest, "invalid id"},
		{"create not json", http.MethodPost, "/records", `{"name":`, http.StatusBadRequest, "invalid package payload"},
		{"create bad keywords", http.MethodPost, "/records", `{"name":"a","version":"1.0.0","keywords":"x"}`, http.StatusBadRequest, "invalid package payload"},
		{"create without name", http.MethodPost, "/records", `{"version":"1.0.0"}`, http.StatusBadRequest, "name: name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.target, tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if msg := errorOf(t, w); msg != tt.msg {
				t.Errorf("error = %q, want %q", msg, tt.msg)
			}
		})
	}
}

func TestCorruptRecordIsGenericError(t *testing.T) {
	r, st := newTestServer(t, nil)
	p, err := st.Create(context.Background(), &models.PackageInput{Name: models.Ptr("a"), Version: models.Ptr("1.0.0")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := st.DB.Exec(`UPDATE packages SET keywords = 'not json' WHERE id = ?`, p.ID); err != nil {
		t.Fatalf("corrupting row: %v", err)
	}

	w := do(r, http.MethodGet, "/records/"+idStr(p.ID), "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if msg := errorOf(t, w); msg != "error fetching package" {
		t.Errorf("error = %q", msg)
	}
}

func TestStats(t *testing.T) {
	r, st := newTestServer(t, nil)
	if _, err := st.Create(context.Background(), &models.PackageInput{Name: models.Ptr("a"), Version: models.Ptr("1.0.0")}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	w := do(r, http.MethodGet, "/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := decode[map[string]any](t, w)
	for _, key := range []string{"total", "createdThisMonth", "createdToday"} {
		if got[key] != float64(1) {
			t.Errorf("%s = %v, want 1", key, got[key])
		}
	}
	if _, ok := got["lastUpdated"].(string); !ok {
		t.Errorf("lastUpdated = %v", got["lastUpdated"])
	}
}

func TestWriteRoutesRequireToken(t *testing.T) {
	key := []byte("test-signing-key")
	r, _ := newTestServer(t, key)

	writer, err := auth.NewToken(key, "ci", []string{auth.ScopeWrite}, time.Hour)
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}
	reader, err := auth.NewToken(key, "viewer", nil, time.Hour)
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}
	forged, err := auth.NewToken([]byte("other-key"), "ci", []string{auth.ScopeWrite}, time.Hour)
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}

	body := `{"name":"a","version":"1.0.0"}`
	tests := []struct {
		name   string
		header []string
		status int
	}{
		{"no token", nil, http.StatusUnauthorized},
		{"basic auth", []string{"Authorization", "Basic abc"}, http.StatusUnauthorized},
		{"wrong key", []string{"Authorization", "Bearer " + forged}, http.StatusUnauthorized},
		{"no scope", []string{"Authorization", "Bearer " + reader}, http.StatusForbidden},
		{"write scope", []string{"Authorization", "Bearer " + writer}, http.StatusSeeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/records", body, tt.header...)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
		})
	}

	if w := do(r, http.MethodGet, "/records", ""); w.Code != http.StatusOK {
		t.Errorf("reads should stay open, got %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r, _ := newTestServer(t, nil)

	w := do(r, http.MethodGet, "/health", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated request id")
	}

	w = do(r, http.MethodGet, "/health", "", "X-Request-ID", "abc-123")
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want caller's id", got)
	}
}

func TestWriteGuardRecordsActor(t *testing.T) {
	key := []byte("test-signing-key")
	r := gin.New()
	r.POST("/whoami", RequireWrite(key), func(c *gin.Context) { c.String(http.StatusOK, actor(c)) })
	unguarded := gin.New()
	unguarded.POST("/whoami", RequireWrite(nil), func(c *gin.Context) { c.String(http.StatusOK, actor(c)) })

	tok, err := auth.NewToken(key, "release-bot", []string{auth.ScopeWrite}, time.Hour)
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}
	if w := do(r, http.MethodPost, "/whoami", "", "Authorization", "Bearer "+tok); w.Body.String() != "release-bot" {
		t.Errorf("actor = %q, want token subject", w.Body.String())
	}
	if w := do(unguarded, http.MethodPost, "/whoami", ""); w.Body.String() != "anonymous" {
		t.Errorf("actor = %q, want anonymous", w.Body.String())
	}
}
