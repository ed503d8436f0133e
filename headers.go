package lemons

import (
	"maps"
	"net/http"
)

// Headers returns middleware that replaces the whole response header set
// with headers, discarding anything earlier steps set, then continues.
func Headers(headers map[string]string) Middleware {
	headers = maps.Clone(headers)
	return func(c *Context, next Next) error {
		h := make(http.Header, len(headers))
		for key, value := range headers {
			h.Set(key, value)
		}
		c.Response.Header = h
		return next()
	}
}

// SetResponseHeaders installs Headers(headers) at the current position of
// the pipeline.
func (a *App) SetResponseHeaders(headers map[string]string) {
	a.Use(Headers(headers))
}
