package router

import (
	"github.com/labstack/echo/v4"

	"farmdash/pkg/dashboard/controller"
	"farmdash/pkg/middleware"
)

func New(
	e *echo.Echo,
	dashCtrl controller.DashboardController,
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.GET("/health", healthCtrl.Health)

	app := e.Group("", middleware.Browser())
	app.GET("/", dashCtrl.Index)
	app.POST("/adjustment", dashCtrl.SetAdjustment)
	app.POST("/commit", dashCtrl.Commit)
	app.POST("/theme/toggle", dashCtrl.ToggleTheme)
	app.GET("/visualization", dashCtrl.Visualization)
	app.GET("/api/record", dashCtrl.Record)
	app.GET("/export.xlsx", dashCtrl.Export)
	return e
}
