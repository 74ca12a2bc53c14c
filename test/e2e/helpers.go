package e2e

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/dekadapp/dekad/internal/api"
	"github.com/dekadapp/dekad/internal/compare"
	"github.com/dekadapp/dekad/internal/store"

	_ "modernc.org/sqlite"
)

const testAPIKey = "e2e-test-api-key"

// planner is an in-process server backed by a real SQLite store.
type planner struct {
	router http.Handler
	store  *store.SQLiteStore
	dir    string
}

func setupPlanner(t *testing.T) *planner {
	t.Helper()

	dir := t.TempDir()
	s, err := store.NewSQLiteStore(filepath.Join(dir, "dekad.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	h := api.NewHandler(s, compare.DefaultTuning(), testAPIKey, "e2e")
	return &planner{router: api.NewRouter(h), store: s, dir: dir}
}

func (p *planner) request(method, path string, body any) (*httptest.ResponseRecorder, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	p.router.ServeHTTP(w, req)
	return w, nil
}

// status sends a request and returns only the status code. It is safe to
// call from goroutines other than the test's.
func (p *planner) status(method, path string, body any) int {
	w, err := p.request(method, path, body)
	if err != nil {
		return 0
	}
	return w.Code
}

// call sends an authenticated request and fails the test unless the response
// status is want. The response body is decoded into out when out is non-nil.
func (p *planner) call(t *testing.T, method, path string, body any, want int, out any) {
	t.Helper()

	w, err := p.request(method, path, body)
	if err != nil {
		t.Fatal(err)
	}
	if w.Code != want {
		t.Fatalf("%s %s: status = %d, want %d\nbody: %s", method, path, w.Code, want, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode response: %v\nbody: %s", method, path, err, w.Body.String())
		}
	}
}

// recordDay saves a daily record through the API.
func (p *planner) recordDay(t *testing.T, year, period, day, mood, energy int) {
	t.Helper()
	path := fmt.Sprintf("/api/v1/years/%d/periods/%d/days/%d", year, period, day)
	p.call(t, http.MethodPut, path, map[string]any{
		"mood":    mood,
		"energy":  energy,
		"summary": fmt.Sprintf("period %d day %d", period, day),
	}, http.StatusOK, nil)
}

// openSnapshotDB opens a backup file read-only for inspection.
func openSnapshotDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
