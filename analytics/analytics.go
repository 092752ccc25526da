package analytics

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Skipper decides whether a request should not be counted.
type Skipper func(c echo.Context) bool

// SkipAdmin skips admin pages, static assets, and machine endpoints.
func SkipAdmin(c echo.Context) bool {
	path := c.Request().URL.Path
	return strings.HasPrefix(path, "/admin") ||
		strings.HasPrefix(path, "/public") ||
		path == "/sitemap.xml" || path == "/feed.xml" ||
		path == "/robots.txt" || path == "/favicon.svg"
}

// Middleware records a pageview for every successful HTML GET request.
// Recording happens after the handler so errors never block the response.
func Middleware(store *Store, skip Skipper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil {
				return err
			}
			req := c.Request()
			if req.Method != http.MethodGet {
				return nil
			}
			if skip != nil && skip(c) {
				return nil
			}
			if code := c.Response().Status; code < 200 || code >= 300 {
				return nil
			}
			if recErr := store.Record(req.URL.Path, timeNow()); recErr != nil {
				c.Logger().Warnf("analytics: record %s: %v", req.URL.Path, recErr)
			}
			return nil
		}
	}
}

// TotalsHandler serves JSON view counts for the admin dashboard.
// Query param "days" limits the window (default 30).
func TotalsHandler(store *Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		days := 30
		if d := c.QueryParam("days"); d != "" {
			if n, err := parsePositive(d); err == nil {
				days = n
			}
		}
		totals, sum, err := store.Totals(days)
		if err != nil {
			return err
		}
		if totals == nil {
			totals = []PathTotal{}
		}
		return c.JSON(http.StatusOK, map[string]any{
			"days":  days,
			"total": sum,
			"paths": totals,
		})
	}
}
