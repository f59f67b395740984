package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var appStart = time.Now()

type HealthCtrl struct {
	db     *gorm.DB // nil unless the sqlite store is in use
	driver string
	store  interface{ Enabled() bool }
}

func NewHealthCtrl(db *gorm.DB, driver string, store interface{ Enabled() bool }) *HealthCtrl {
	return &HealthCtrl{db: db, driver: driver, store: store}
}

type sub struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

// Health reports 503 only when the sqlite store is configured and unreachable.
// A disabled store is reported but never fails the check.
func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	checks := map[string]any{
		"store": map[string]any{"driver": h.driver, "enabled": h.store.Enabled()},
	}
	allOK := true
	if h.db != nil {
		db := sub{OK: true}
		sqlDB, err := h.db.DB()
		if err != nil {
			db = sub{Err: "db.DB(): " + err.Error()}
		} else if err := sqlDB.PingContext(ctx); err != nil {
			db = sub{Err: "ping: " + err.Error()}
		}
		checks["database"] = db
		allOK = db.OK
	}

	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, map[string]any{
		"status":     map[string]any{"ok": allOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks":     checks,
		"time":       time.Now().Format(time.RFC3339),
	})
}
