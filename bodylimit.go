package lemons

import "net/http"

// BodyLimit returns middleware that limits the maximum request body size.
// Bind answers 413 Payload Too Large once the body exceeds maxBytes.
func BodyLimit(maxBytes int64) Middleware {
	return func(c *Context, next Next) error {
		c.Request.Body = http.MaxBytesReader(c.w, c.Request.Body, maxBytes)
		return next()
	}
}
