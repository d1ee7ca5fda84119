package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/budova/aptgraph/internal/runner"
	"github.com/budova/aptgraph/pkg/project"
	"github.com/budova/aptgraph/pkg/store/xlsxstore"
	"github.com/budova/aptgraph/pkg/writeback"
)

func newTestServer(t *testing.T, units ...string) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, project.FileName),
		[]byte("name: test\nstore:\n  driver: xlsx\n  path: rooms.xlsx\n"), 0o644))

	one := 1
	var rows []xlsxstore.Row
	for _, u := range units {
		rows = append(rows, xlsxstore.Row{UnitNumber: u, RoomType: &one, Area: 15.5, Level: "2"})
	}
	require.NoError(t, xlsxstore.Create(filepath.Join(dir, "rooms.xlsx"), "", writeback.Attributes{}, rows))

	p, err := project.LoadProject(dir)
	require.NoError(t, err)
	return New(runner.New(p, zap.NewNop()), 0, true, zap.NewNop())
}

func do(t *testing.T, s *Server, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	var body map[string]any
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestLots(t *testing.T) {
	s := newTestServer(t, "A2", "A1", "S1")
	w, body := do(t, s, http.MethodGet, "/api/lots")
	require.Equal(t, http.StatusOK, w.Code)

	lots, ok := body["lots"].([]any)
	require.True(t, ok)
	require.Len(t, lots, 3)
	first := lots[0].(map[string]any)
	assert.Equal(t, "A2", first["number"])
	assert.Equal(t, "1B", first["type_code"])
	assert.Equal(t, true, body["valid"])
}

func TestValidationAndSummary(t *testing.T) {
	s := newTestServer(t, "A1", "G1")

	w, body := do(t, s, http.MethodGet, "/api/validation")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["valid"])

	w, body = do(t, s, http.MethodGet, "/api/summary")
	require.Equal(t, http.StatusOK, w.Code)
	total := body["total"].(map[string]any)
	assert.Equal(t, float64(2), total["lots"])
}

func TestRun(t *testing.T) {
	s := newTestServer(t, "A1")
	w, body := do(t, s, http.MethodPost, "/api/run")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(1), body["lots"])
	assert.Equal(t, false, body["canceled"])
}

func TestRunOverflowIsConflict(t *testing.T) {
	units := make([]string, 23)
	for i := range units {
		units[i] = fmt.Sprintf("A%d", i+1)
	}
	s := newTestServer(t, units...)
	w, body := do(t, s, http.MethodPost, "/api/run")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, body, "validation")
}

func TestEmptyStoreIsUnprocessable(t *testing.T) {
	s := newTestServer(t)
	w, body := do(t, s, http.MethodGet, "/api/lots")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, body["error"], "no rooms")
}

func TestProject(t *testing.T) {
	s := newTestServer(t, "A1")
	w, body := do(t, s, http.MethodGet, "/api/project")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test", body["name"])
}
