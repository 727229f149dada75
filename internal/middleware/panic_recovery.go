package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"household-ledger/internal/errors"
	"household-ledger/internal/handlers"
	"household-ledger/internal/session"

	"github.com/labstack/echo/v4"
)

// PanicRecovery turns a panicking handler into a SYSTEM_001 response. If the
// handler already started writing, such as a report export mid-stream, the
// partial response is left alone and only the log entry is written.
func PanicRecovery(logger *slog.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				traceID := GetTraceID(c)
				if traceID == "" {
					traceID = "unknown"
				}

				attrs := []any{
					"trace_id", traceID,
					"panic", fmt.Sprintf("%v", r),
					"stack_trace", string(debug.Stack()),
					"method", c.Request().Method,
					"route", c.Path(),
					"path", c.Request().URL.Path,
				}
				if sess, ok := c.Get(handlers.SessionContextKey).(*session.Session); ok && sess != nil {
					attrs = append(attrs, "member_id", sess.MemberID())
				}
				logger.ErrorContext(c.Request().Context(), "panic recovered", attrs...)

				err = nil
				if c.Response().Committed {
					return
				}

				if sendErr := c.JSON(http.StatusInternalServerError, errors.NewErrorResponse(errors.SystemInternalError, traceID)); sendErr != nil {
					logger.Error("failed to send panic response", "trace_id", traceID, "error", sendErr)
				}
			}()

			return next(c)
		}
	}
}
