package lemons

import "github.com/google/uuid"

// RequestIDConfig configures the RequestID middleware.
type RequestIDConfig struct {
	Header    string        // default: "X-Request-ID"
	Generator func() string // default: random UUID
}

// RequestID returns middleware that assigns a unique request ID to each request.
// The ID is read from the request header (if present) or generated.
// It is stored in the context and set on the response header. A later
// Headers step replaces the response header set, so install RequestID after it.
func RequestID(cfg ...RequestIDConfig) Middleware {
	c := RequestIDConfig{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}
	if len(cfg) > 0 {
		if cfg[0].Header != "" {
			c.Header = cfg[0].Header
		}
		if cfg[0].Generator != nil {
			c.Generator = cfg[0].Generator
		}
	}

	return func(ctx *Context, next Next) error {
		id := ctx.Request.Header.Get(c.Header)
		if id == "" {
			id = c.Generator()
		}

		SetValue(ctx, requestID(id))
		ctx.Response.Header.Set(c.Header, id)
		return next()
	}
}

type requestID string

// GetRequestID returns the request ID assigned by RequestID, or "".
func GetRequestID(c *Context) string {
	id, _ := GetValue[requestID](c.Context())
	return string(id)
}
