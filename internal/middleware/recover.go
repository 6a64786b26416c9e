package middleware

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const stackSize = 4 << 10

// Recover turns a handler panic into a logged 500 with the same opaque
// body every other internal failure gets. http.ErrAbortHandler is re-raised.
func Recover(log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}
				stack := make([]byte, stackSize)
				stack = stack[:runtime.Stack(stack, false)]
				log.Error("panic recovered",
					zap.String("method", c.Request().Method),
					zap.String("route", c.Path()),
					zap.String("panic", fmt.Sprint(r)),
					zap.ByteString("stack", stack),
				)
				if c.Response().Committed {
					err = nil
					return
				}
				err = c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
			}()
			return next(c)
		}
	}
}
