package middleware // middleware provides shared request processing for handlers

import (
    "log" // log emits the request-received event

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequestLog returns a middleware that logs every request as it arrives,
// before any guard runs. It carries no per-request state beyond the log
// line itself.
func RequestLog() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            r := c.Request()
            log.Printf("request received: %s %s", r.Method, r.URL.Path)
            return next(c)
        }
    }
}
