package lemons

import "net/http"

// HandlerFunc handles a matched route. It sets c.Response and returns nil,
// or returns a fault for the pipeline's error handling.
type HandlerFunc func(c *Context) error

// HTTPHandler adapts a standard http.Handler into a HandlerFunc. The handler
// writes straight to the connection, so the buffered Response is skipped.
func HTTPHandler(h http.Handler) HandlerFunc {
	return func(c *Context) error {
		h.ServeHTTP(c.Writer(), c.Request)
		return nil
	}
}
