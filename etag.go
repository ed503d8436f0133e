package lemons

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
)

// ETagConfig configures the ETag middleware.
type ETagConfig struct {
	Weak bool // use weak ETags
}

// ETag returns middleware that tags successful GET and HEAD responses with a
// content hash and answers a matching If-None-Match with 304 Not Modified.
func ETag(cfg ...ETagConfig) Middleware {
	c := ETagConfig{}
	if len(cfg) > 0 {
		c = cfg[0]
	}

	return func(ctx *Context, next Next) error {
		r := ctx.Request
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			return next()
		}
		if err := next(); err != nil {
			return err
		}

		res := ctx.Response
		status := res.status()
		if ctx.Written() || res.Body == nil || status < 200 || status >= 300 {
			return nil
		}
		if _, ok := res.Body.(io.Reader); ok {
			return nil
		}

		contentType, b, err := ctx.render(res.Body)
		if err != nil {
			return err
		}

		hash := sha256.Sum256(b)
		etag := `"` + hex.EncodeToString(hash[:8]) + `"`
		if c.Weak {
			etag = "W/" + etag
		}
		res.Header.Set("ETag", etag)

		if match := r.Header.Get("If-None-Match"); match != "" && (match == "*" || strings.Contains(match, etag)) {
			res.Status = http.StatusNotModified
			return nil
		}

		// Keep the rendered bytes so the body is not encoded twice.
		setDefault(res.Header, "Content-Type", contentType)
		res.Body = b
		return nil
	}
}
