package web

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Context carries a request scoped logger next to the echo context
type Context struct {
	echo.Context
	L *zap.Logger
}

// HandlerFunc is a route handler that receives the wrapped Context
type HandlerFunc func(ctx Context) error

// Wrap adapts h to echo, tagging its logger with the request id
func Wrap(h HandlerFunc, l *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		rid := c.Response().Header().Get(echo.HeaderXRequestID)

		ctx := Context{
			Context: c,
			L:       l.With(zap.String("request_id", rid)),
		}

		return h(ctx)
	}
}

func (c Context) Error(status int, message string) error {
	return c.JSON(status, map[string]string{
		"error": message,
	})
}

func (c Context) BadGateway(message string) error {
	return c.Error(http.StatusBadGateway, message)
}

func (c Context) OK(data any) error {
	return c.JSON(http.StatusOK, data)
}
