package lemons

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Timeout returns middleware that adds a deadline to the request context.
// If the rest of the pipeline fails with the deadline exceeded, the fault
// becomes a 503 Service Unavailable.
func Timeout(d time.Duration) Middleware {
	return func(c *Context, next Next) error {
		ctx, cancel := context.WithTimeout(c.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		err := next()
		if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
			return Error(http.StatusServiceUnavailable, "request timed out")
		}
		return err
	}
}
