package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	BrowserCookie = "FARM_BID"
	BrowserKey    = "browser"
)

// Browser tags every request with a stable per-browser id kept in a cookie,
// issuing a new one when the cookie is missing or malformed.
func Browser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if ck, err := c.Cookie(BrowserCookie); err == nil {
				if _, perr := uuid.Parse(ck.Value); perr == nil {
					id = ck.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{Name: BrowserCookie, Value: id, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
			}
			c.Set(BrowserKey, id)
			return next(c)
		}
	}
}

// BrowserID returns the id set by Browser, or "" outside that middleware.
func BrowserID(c echo.Context) string {
	id, _ := c.Get(BrowserKey).(string)
	return id
}
