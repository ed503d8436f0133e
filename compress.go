package lemons

import (
	"bytes"
	"compress/gzip"
	"io"
	"strings"
	"sync"
)

// CompressConfig configures the Compress middleware.
type CompressConfig struct {
	Level   int      // gzip level (1-9, default: 5)
	MinSize int      // minimum response size to compress (default: 1024)
	Types   []string // content types to compress (default: application/json, text/*)
}

// Compress returns middleware that gzip-compresses buffered responses once
// the rest of the pipeline has produced them. Streamed bodies and responses
// written through Context.Writer are left alone.
func Compress(cfg ...CompressConfig) Middleware {
	c := CompressConfig{
		Level:   5,
		MinSize: 1024,
		Types:   []string{"application/json", "text/"},
	}
	if len(cfg) > 0 {
		if cfg[0].Level > 0 {
			c.Level = cfg[0].Level
		}
		if cfg[0].MinSize > 0 {
			c.MinSize = cfg[0].MinSize
		}
		if len(cfg[0].Types) > 0 {
			c.Types = cfg[0].Types
		}
	}

	pool := &sync.Pool{
		New: func() any {
			gz, _ := gzip.NewWriterLevel(io.Discard, c.Level) //nolint:errcheck // level is pre-validated
			return gz
		},
	}

	return func(ctx *Context, next Next) error {
		if err := next(); err != nil {
			return err
		}
		if ctx.Written() || !strings.Contains(ctx.Request.Header.Get("Accept-Encoding"), "gzip") {
			return nil
		}

		res := ctx.Response
		res.Header.Add("Vary", "Accept-Encoding")

		if res.Body == nil || !bodyAllowed(res.status()) || res.Header.Get("Content-Encoding") != "" {
			return nil
		}
		if _, ok := res.Body.(io.Reader); ok {
			return nil
		}

		contentType, b, err := ctx.render(res.Body)
		if err != nil {
			return err
		}
		if ct := res.Header.Get("Content-Type"); ct != "" {
			contentType = ct
		}
		if len(b) < c.MinSize || !compressible(contentType, c.Types) {
			return nil
		}

		var buf bytes.Buffer
		gz := pool.Get().(*gzip.Writer) //nolint:errcheck,forcetypeassert // pool.New always returns *gzip.Writer
		gz.Reset(&buf)
		_, err = gz.Write(b)
		if closeErr := gz.Close(); err == nil {
			err = closeErr
		}
		pool.Put(gz)
		if err != nil {
			return err
		}

		res.Header.Set("Content-Type", contentType)
		res.Header.Set("Content-Encoding", "gzip")
		res.Header.Del("Content-Length")
		res.Body = buf.Bytes()
		return nil
	}
}

func compressible(contentType string, types []string) bool {
	// Skip SSE.
	if strings.Contains(contentType, "event-stream") {
		return false
	}
	for _, t := range types {
		if strings.Contains(contentType, t) {
			return true
		}
	}
	return false
}
