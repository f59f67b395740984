package controllerImp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmdash/database"
)

type enabled bool

func (e enabled) Enabled() bool { return bool(e) }

func call(t *testing.T, h *HealthCtrl) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	require.NoError(t, h.Health(c))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealth_SQLite(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "h.db"))
	require.NoError(t, err)

	code, body := call(t, NewHealthCtrl(db, "sqlite", enabled(true)))
	assert.Equal(t, http.StatusOK, code)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, true, checks["database"].(map[string]any)["ok"])

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	code, _ = call(t, NewHealthCtrl(db, "sqlite", enabled(true)))
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestHealth_StoreDisabledIsStillHealthy(t *testing.T) {
	code, body := call(t, NewHealthCtrl(nil, "none", enabled(false)))
	assert.Equal(t, http.StatusOK, code)
	store := body["checks"].(map[string]any)["store"].(map[string]any)
	assert.Equal(t, false, store["enabled"])
	assert.Equal(t, "none", store["driver"])
}
