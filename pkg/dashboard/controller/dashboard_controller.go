package controller

import "github.com/labstack/echo/v4"

type DashboardController interface {
	Index(c echo.Context) error
	SetAdjustment(c echo.Context) error
	Commit(c echo.Context) error
	ToggleTheme(c echo.Context) error
	Visualization(c echo.Context) error
	Record(c echo.Context) error
	Export(c echo.Context) error
}
