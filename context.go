package lemons

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// Context is one in-flight request/response exchange. It is owned by the app
// for the duration of a single request and must not be retained afterwards.
type Context struct {
	Request  *http.Request
	Response *Response

	w     *responseRecorder
	app   *App
	route *mux.Route
}

// Response is the buffered response written once the pipeline completes.
type Response struct {
	// Status is the HTTP status code. Zero means unset: 200 when Body is
	// set, 404 otherwise.
	Status int

	// Body is encoded by type: nil writes no body, string as text/plain,
	// []byte and io.Reader as application/octet-stream, anything else by
	// content negotiation (JSON unless Accept asks for another encoder).
	Body any

	// Header is copied to the wire before the status line. Replacing it
	// replaces the whole header set.
	Header http.Header
}

func (r *Response) status() int {
	switch {
	case r.Status != 0:
		return r.Status
	case r.Body != nil:
		return http.StatusOK
	default:
		return http.StatusNotFound
	}
}

func newContext(a *App, w http.ResponseWriter, r *http.Request) *Context {
	return &Context{
		Request: r,
		Response: &Response{
			Header: make(http.Header),
		},
		w:   &responseRecorder{ResponseWriter: w, status: http.StatusOK},
		app: a,
	}
}

// Context returns the request's context.Context.
func (c *Context) Context() context.Context {
	return c.Request.Context()
}

// Logger returns the app logger.
func (c *Context) Logger() *slog.Logger {
	return c.app.logger
}

// Param returns a path variable of the matched route, or "".
func (c *Context) Param(name string) string {
	return mux.Vars(c.Request)[name]
}

// Route returns the path template of the matched route, or "" before
// dispatch and for unmatched requests.
func (c *Context) Route() string {
	if c.route == nil {
		return ""
	}
	tpl, err := c.route.GetPathTemplate()
	if err != nil {
		return ""
	}
	return tpl
}

// Query returns the first value of a query parameter and whether it was
// present at all. "?name=" is present with an empty value.
func (c *Context) Query(key string) (string, bool) {
	values, ok := c.Request.URL.Query()[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// QueryParams returns every query parameter. A repeated key keeps its last
// value.
func (c *Context) QueryParams() map[string]string {
	query := c.Request.URL.Query()
	params := make(map[string]string, len(query))
	for key, values := range query {
		if len(values) > 0 {
			params[key] = values[len(values)-1]
		}
	}
	return params
}

// Send sets the response status and body.
func (c *Context) Send(status int, body any) {
	c.Response.Status = status
	c.Response.Body = body
}

// Bind decodes the request body into v using the decoder registered for
// the request Content-Type (JSON when absent).
func (c *Context) Bind(v any) error {
	dec, ok := c.app.codecs.decoderFor(c.Request.Header.Get("Content-Type"))
	if !ok {
		return fmt.Errorf("%w: %w", ErrBind, Errorf(http.StatusUnsupportedMediaType,
			"unsupported content type %q", c.Request.Header.Get("Content-Type")))
	}
	if err := dec.Decode(c.Request.Body, v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: %w", ErrBind, Errorf(http.StatusRequestEntityTooLarge,
				"request body exceeds %d bytes", tooLarge.Limit))
		}
		return fmt.Errorf("%w: %w", ErrBind, Error(http.StatusBadRequest, err.Error()))
	}
	return nil
}

// Writer returns the underlying http.ResponseWriter. Once anything is
// written through it the buffered Response is ignored.
func (c *Context) Writer() http.ResponseWriter {
	return c.w
}

// Written reports whether the response went out through Writer.
func (c *Context) Written() bool {
	return c.w.written
}

type contextKey[T any] struct{}

// SetValue stores a typed value in the request context. For use in middleware.
func SetValue[T any](c *Context, val T) {
	ctx := context.WithValue(c.Request.Context(), contextKey[T]{}, val)
	c.Request = c.Request.WithContext(ctx)
}

// GetValue retrieves a typed value stored with SetValue.
func GetValue[T any](ctx context.Context) (T, bool) {
	val, ok := ctx.Value(contextKey[T]{}).(T)
	return val, ok
}

// respond writes the buffered Response unless a handler already wrote.
func (c *Context) respond() {
	if c.w.written {
		return
	}

	h := c.w.Header()
	for key, values := range c.Response.Header {
		h[key] = values
	}

	status := c.Response.status()
	body := c.Response.Body
	if body == nil || !bodyAllowed(status) {
		c.w.WriteHeader(status)
		return
	}

	if rd, ok := body.(io.Reader); ok {
		if closer, ok := rd.(io.Closer); ok {
			defer closer.Close() //nolint:errcheck
		}
		setDefault(h, "Content-Type", "application/octet-stream")
		c.w.WriteHeader(status)
		//nolint:errcheck // best-effort after WriteHeader
		io.Copy(c.w, rd)
		return
	}

	contentType, b, err := c.render(body)
	if err != nil {
		c.app.logger.Error("encode response", "error", err, "path", c.Request.URL.Path)
		http.Error(c.w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	c.write(status, contentType, b)
}

// render encodes a buffered body and reports its default content type. An
// explicit Content-Type naming a registered encoder pins the encoder;
// otherwise Accept decides. Readers are streamed by respond and never
// rendered.
func (c *Context) render(body any) (string, []byte, error) {
	switch b := body.(type) {
	case string:
		return "text/plain; charset=utf-8", []byte(b), nil
	case []byte:
		return "application/octet-stream", b, nil
	}

	enc, ok := c.app.codecs.encoderFor(c.Response.Header.Get("Content-Type"))
	if !ok {
		enc, ok = c.app.codecs.negotiate(c.Request.Header.Get("Accept"))
	}
	if !ok {
		enc = c.app.codecs.encoders[0]
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, body); err != nil {
		return "", nil, err
	}
	contentType := enc.ContentType()
	if _, ok := body.(*ProblemDetail); ok && contentType == "application/json" {
		contentType = "application/problem+json"
	}
	return contentType, buf.Bytes(), nil
}

func (c *Context) write(status int, contentType string, b []byte) {
	setDefault(c.w.Header(), "Content-Type", contentType)
	c.w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort after WriteHeader
	c.w.Write(b)
}

func setDefault(h http.Header, key, value string) {
	if h.Get(key) == "" {
		h.Set(key, value)
	}
}

func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status <= 199:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}

// responseRecorder wraps http.ResponseWriter to capture the status code,
// size and whether anything was written.
type responseRecorder struct {
	http.ResponseWriter
	status  int
	size    int
	written bool
}

func (r *responseRecorder) WriteHeader(code int) {
	if r.written {
		return
	}
	r.status = code
	r.written = true
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// Unwrap returns the underlying ResponseWriter (supports http.ResponseController).
func (r *responseRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
