package lemons

import (
	"log/slog"
	"time"
)

// Logger returns middleware that logs each request using the provided slog.Logger.
// Faults passing through are logged with the status the app will answer with
// and then returned unchanged.
func Logger(logger *slog.Logger) Middleware {
	return func(c *Context, next Next) error {
		start := time.Now()
		err := next()

		status := c.Response.status()
		switch {
		case c.Written():
			status = c.w.status
		case err != nil:
			status = ErrorStatus(err)
		}

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("remote", c.Request.RemoteAddr),
		}

		if route := c.Route(); route != "" {
			attrs = append(attrs, slog.String("route", route))
		}
		if id := GetRequestID(c); id != "" {
			attrs = append(attrs, slog.String("request_id", id))
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}

		logger.LogAttrs(c.Context(), slog.LevelInfo, "request", attrs...)
		return err
	}
}
