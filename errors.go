package lemons

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
)

// Sentinel errors.
var (
	ErrNextCalled = errors.New("lemons: next called more than once")
	ErrBind       = errors.New("lemons: bind body")
)

// StatusCoder is implemented by errors that carry an HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// ProblemDetail is an RFC 9457 problem details response. It is the body the
// app writes for faults that no ErrorHandler caught.
//
//nolint:errname // RFC 9457 standard name
type ProblemDetail struct {
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Status   int    `json:"status" yaml:"status"`
	Detail   string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Instance string `json:"instance,omitempty" yaml:"instance,omitempty"`
}

// Error returns the detail message (or title if detail is empty).
func (p *ProblemDetail) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// StatusCode returns the HTTP status code.
func (p *ProblemDetail) StatusCode() int { return p.Status }

// HTTPError is an error with an HTTP status code.
type HTTPError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error returns the error message.
func (e *HTTPError) Error() string { return e.Message }

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int { return e.Status }

// Error returns an error with the given HTTP status code and message.
func Error(status int, message string) error {
	return &HTTPError{Status: status, Message: message}
}

// Errorf returns a formatted error with the given HTTP status code.
func Errorf(status int, format string, args ...any) error {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// ErrorStatus extracts the HTTP status code from an error. Returns
// http.StatusInternalServerError if the error does not implement StatusCoder.
func ErrorStatus(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// PanicError is the fault produced when a handler or middleware panics.
type PanicError struct {
	Value any
	Stack []byte
}

func newPanicError(rec any) *PanicError {
	if pe, ok := rec.(*PanicError); ok {
		return pe
	}
	return &PanicError{Value: rec, Stack: debug.Stack()}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// ErrorHandler receives a fault raised later in the pipeline. It owns the
// response from that point on.
type ErrorHandler func(c *Context, err error)

// Catch returns middleware that runs the rest of the pipeline and hands any
// fault (returned error or panic) to h instead of propagating it. A panic in
// h itself is not caught.
func Catch(h ErrorHandler) Middleware {
	return func(c *Context, next Next) error {
		if err := protect(next); err != nil {
			h(c, err)
		}
		return nil
	}
}

// HandleError installs Catch(h) at the current position of the pipeline.
func (a *App) HandleError(h ErrorHandler) {
	a.Use(Catch(h))
}

func protect(next Next) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = newPanicError(rec)
		}
	}()
	return next()
}

// fault is the app's last line of error handling: log it and replace the
// response with a problem detail. 5xx details stay in the log.
func (a *App) fault(c *Context, err error) {
	status := ErrorStatus(err)

	var pe *PanicError
	if errors.As(err, &pe) {
		a.logger.Error("panic recovered",
			"panic", pe.Value,
			"stack", string(pe.Stack),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
	} else if status >= http.StatusInternalServerError {
		a.logger.Error("unhandled error",
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
	}

	if c.Written() {
		return
	}

	problem := &ProblemDetail{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
	}
	var pd *ProblemDetail
	if errors.As(err, &pd) {
		problem = pd
	} else if status < http.StatusInternalServerError {
		problem.Detail = err.Error()
	}

	c.Response.Header.Del("Content-Type")
	c.Response.Status = problem.Status
	c.Response.Body = problem
}
