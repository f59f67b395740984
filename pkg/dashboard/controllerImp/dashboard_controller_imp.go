package controllerImp

import (
	"bytes"
	"errors"
	"html/template"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"farmdash/entities"
	"farmdash/pkg/dashboard/controller"
	"farmdash/pkg/dashboard/service"
	"farmdash/pkg/dashboard/view"
	"farmdash/pkg/export"
	"farmdash/pkg/lazy"
	"farmdash/pkg/middleware"
	"farmdash/pkg/viz"
	"farmdash/pkg/yield"
)

var errBadAdjustment = errors.New("adjustment must be a finite number")

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DashboardCtrl struct {
	svc   service.DashboardService
	chart *lazy.Loader[*viz.Chart]
	views interface{ Has(string) bool }
	fmt   *view.Formatter
	mount string
	lang  string
	log   *zap.Logger

	writeXLSX func(io.Writer, entities.FarmRecord, export.Stamp) error
}

func New(svc service.DashboardService, chart *lazy.Loader[*viz.Chart], views interface{ Has(string) bool },
	f *view.Formatter, mount, lang string, log *zap.Logger) *DashboardCtrl {
	return &DashboardCtrl{svc: svc, chart: chart, views: views, fmt: f, mount: mount, lang: lang, log: log,
		writeXLSX: export.WriteRecord}
}

var _ controller.DashboardController = (*DashboardCtrl)(nil)

type page struct {
	Lang    string
	Snap    service.Snapshot
	Metrics service.MetricsView
	Chart   template.HTML
}

func (h *DashboardCtrl) Index(c echo.Context) error {
	if !h.views.Has(h.mount) {
		return c.NoContent(http.StatusNoContent)
	}
	ctx := c.Request().Context()
	bid := middleware.BrowserID(c)
	snap := h.svc.Snapshot(ctx, bid)
	metrics, _ := h.svc.Metrics(ctx, bid)

	p := page{Lang: h.lang, Snap: snap, Metrics: metrics}
	if ch, ok := h.chart.Peek(); ok {
		out, err := ch.Render(snap.Record, snap.Version)
		if err != nil {
			h.log.Warn("chart render failed", zap.Error(err))
		}
		p.Chart = out
	} else {
		h.chart.Start()
	}
	return c.Render(http.StatusOK, h.mount, p)
}

func (h *DashboardCtrl) SetAdjustment(c echo.Context) error {
	adj, err := readAdjustment(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	snap := h.svc.SetPending(c.Request().Context(), middleware.BrowserID(c), adj)
	return respond(c, snap, nil)
}

func (h *DashboardCtrl) Commit(c echo.Context) error {
	snap, ok, err := h.svc.Commit(c.Request().Context(), middleware.BrowserID(c))
	if errors.Is(err, service.ErrOutOfRange) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}
	return respond(c, snap, &ok)
}

func (h *DashboardCtrl) ToggleTheme(c echo.Context) error {
	snap := h.svc.ToggleDark(c.Request().Context(), middleware.BrowserID(c))
	return respond(c, snap, nil)
}

// Visualization serves the chart fragment, or the placeholder with 202 while
// the chart is still loading. ?wait=1 blocks until the load resolves.
func (h *DashboardCtrl) Visualization(c echo.Context) error {
	ctx := c.Request().Context()
	ch, ok := h.chart.Peek()
	if !ok && c.QueryParam("wait") == "1" {
		var err error
		if ch, err = h.chart.Get(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
		}
		ok = true
	}
	if !ok {
		h.chart.Start()
		return c.Render(http.StatusAccepted, "placeholder", nil)
	}
	snap := h.svc.Snapshot(ctx, middleware.BrowserID(c))
	out, err := ch.Render(snap.Record, snap.Version)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.HTML(http.StatusOK, string(out))
}

func (h *DashboardCtrl) Record(c echo.Context) error {
	snap := h.svc.Snapshot(c.Request().Context(), middleware.BrowserID(c))
	return c.JSON(http.StatusOK, body(snap, nil))
}

func (h *DashboardCtrl) Export(c echo.Context) error {
	snap := h.svc.Snapshot(c.Request().Context(), middleware.BrowserID(c))
	var buf bytes.Buffer
	if err := h.writeXLSX(&buf, snap.Record, func(r entities.FarmRecord) string { return h.fmt.Stamp(r.UpdatedAt) }); err != nil {
		h.log.Warn("export failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="farm-metrics.xlsx"`)
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}

// readAdjustment accepts {"adjustment": n} JSON or an "adjustment" form
// field. An empty form field reads as zero.
func readAdjustment(c echo.Context) (float64, error) {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ct, echo.MIMEApplicationJSON) {
		var in struct {
			Adjustment *float64 `json:"adjustment"`
		}
		if err := c.Bind(&in); err != nil || in.Adjustment == nil {
			return 0, errBadAdjustment
		}
		return checkAdjustment(*in.Adjustment)
	}
	raw := strings.TrimSpace(c.FormValue("adjustment"))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errBadAdjustment
	}
	return checkAdjustment(v)
}

// checkAdjustment refuses values whose own water delta already overflows.
// Overflow that builds up across commits is caught by the service.
func checkAdjustment(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.IsInf(v*yield.WaterPerUnit, 0) {
		return 0, errBadAdjustment
	}
	return v, nil
}

func wantsJSON(c echo.Context) bool {
	req := c.Request()
	return strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) ||
		strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}

func body(snap service.Snapshot, committed *bool) echo.Map {
	m := echo.Map{
		"record":     snap.Record,
		"version":    snap.Version,
		"dark":       snap.Dark,
		"pending":    snap.Pending,
		"can_commit": snap.CanCommit,
	}
	if committed != nil {
		m["committed"] = *committed
	}
	return m
}

// respond answers API callers with JSON and sends form posts back to the page.
func respond(c echo.Context, snap service.Snapshot, committed *bool) error {
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, body(snap, committed))
	}
	return c.Redirect(http.StatusSeeOther, "/")
}
