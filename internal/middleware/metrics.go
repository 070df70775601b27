package middleware

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movielist/internal/metrics"
)

// Metrics records request count and latency per registered route.
func Metrics() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Path() == "/metrics" {
                return next(c)
            }
            done := metrics.InFlight()
            defer done()

            start := time.Now()
            err := next(c)

            status := c.Response().Status
            if err != nil {
                // the error handler has not written the response yet
                var he *echo.HTTPError
                if errors.As(err, &he) {
                    status = he.Code
                } else {
                    status = http.StatusInternalServerError
                }
            }
            metrics.RecordHTTPRequest(c.Request().Method, c.Path(), status, time.Since(start))
            return err
        }
    }
}
