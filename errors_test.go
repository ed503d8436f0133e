package lemons_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/lemons"
)

func TestError(t *testing.T) {
	t.Parallel()

	err := lemons.Error(http.StatusNotFound, "not found")
	assert.EqualError(t, err, "not found")

	var sc lemons.StatusCoder
	require.ErrorAs(t, err, &sc)
	assert.Equal(t, http.StatusNotFound, sc.StatusCode())
}

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := lemons.Errorf(http.StatusBadRequest, "invalid %s", "email")
	assert.EqualError(t, err, "invalid email")
}

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err    error
		expect int
	}{
		"with StatusCoder": {
			err:    lemons.Error(http.StatusForbidden, "forbidden"),
			expect: http.StatusForbidden,
		},
		"wrapped StatusCoder": {
			err:    errors.Join(errors.New("outer"), lemons.Error(http.StatusConflict, "conflict")),
			expect: http.StatusConflict,
		},
		"problem detail": {
			err:    &lemons.ProblemDetail{Status: http.StatusTeapot},
			expect: http.StatusTeapot,
		},
		"without StatusCoder": {
			err:    errors.New("plain error"),
			expect: http.StatusInternalServerError,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expect, lemons.ErrorStatus(tc.err))
		})
	}
}

func TestHTTPError_fields(t *testing.T) {
	t.Parallel()

	err := lemons.Error(http.StatusConflict, "conflict")

	var apiErr *lemons.HTTPError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "conflict", apiErr.Message)
}

func TestPanicError_unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := &lemons.PanicError{Value: cause}

	assert.EqualError(t, err, "panic: boom")
	assert.ErrorIs(t, err, cause)
	assert.NoError(t, (&lemons.PanicError{Value: "text"}).Unwrap())
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("database unavailable")

	tests := map[string]struct {
		handler    lemons.HandlerFunc
		wantPanic  bool
		wantErrMsg string
	}{
		"returned error": {
			handler: func(*lemons.Context) error {
				return sentinel
			},
			wantErrMsg: "database unavailable",
		},
		"panic": {
			handler: func(*lemons.Context) error {
				panic("kaboom")
			},
			wantPanic:  true,
			wantErrMsg: "panic: kaboom",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var caught error
			app, _ := quietApp()
			app.HandleError(func(c *lemons.Context, err error) {
				caught = err
				c.Send(http.StatusInternalServerError, "Internal Server Error")
			})
			app.Get("/fail", tc.handler)

			rec := serve(t, app, http.MethodGet, "/fail", nil)

			require.Error(t, caught)
			assert.EqualError(t, caught, tc.wantErrMsg)
			var pe *lemons.PanicError
			assert.Equal(t, tc.wantPanic, errors.As(caught, &pe))
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, "Internal Server Error", rec.Body.String())
		})
	}
}

func TestHandleError_no_fault_leaves_response(t *testing.T) {
	t.Parallel()

	called := false
	app, _ := quietApp()
	app.HandleError(func(*lemons.Context, error) { called = true })
	app.Get("/ok", text("fine"))

	rec := serve(t, app, http.MethodGet, "/ok", nil)

	assert.False(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fine", rec.Body.String())
}

func TestHandleError_only_covers_later_steps(t *testing.T) {
	t.Parallel()

	called := false
	app, logs := quietApp()
	app.Use(func(*lemons.Context, lemons.Next) error {
		return errors.New("before the handler")
	})
	app.HandleError(func(*lemons.Context, error) { called = true })
	app.Get("/", text("unreachable"))

	rec := serve(t, app, http.MethodGet, "/", nil)

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "unhandled error")
}

func TestHandleError_handler_can_pass_through(t *testing.T) {
	t.Parallel()

	app, _ := quietApp()
	app.HandleError(func(*lemons.Context, error) {})
	app.Get("/partial", func(c *lemons.Context) error {
		c.Send(http.StatusAccepted, "partial")
		return errors.New("late failure")
	})

	rec := serve(t, app, http.MethodGet, "/partial", nil)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
}

func TestHandleError_panicking_handler_reaches_top_level(t *testing.T) {
	t.Parallel()

	app, logs := quietApp()
	app.HandleError(func(*lemons.Context, error) {
		panic("handler broke")
	})
	app.Get("/fail", func(*lemons.Context) error {
		return errors.New("original")
	})

	rec := serve(t, app, http.MethodGet, "/fail", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Contains(t, logs.String(), "panic recovered")
	assert.Contains(t, logs.String(), "handler broke")
}

func TestFault_problem_detail(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err        error
		wantStatus int
		wantDetail string
		wantLogged string
	}{
		"client error keeps its message": {
			err:        lemons.Error(http.StatusNotFound, "no such lemon"),
			wantStatus: http.StatusNotFound,
			wantDetail: "no such lemon",
		},
		"server error hides its message": {
			err:        errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantLogged: "connection refused",
		},
		"problem detail passes through": {
			err: &lemons.ProblemDetail{
				Type:   "https://example.com/probs/out-of-stock",
				Title:  "Out of stock",
				Status: http.StatusConflict,
				Detail: "no lemons left",
			},
			wantStatus: http.StatusConflict,
			wantDetail: "no lemons left",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			app, logs := quietApp()
			app.Use(lemons.RequestID())
			app.Get("/fail", func(c *lemons.Context) error {
				c.Response.Header.Set("Content-Type", "text/csv")
				return tc.err
			})

			rec := serve(t, app, http.MethodGet, "/fail", nil)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

			var problem lemons.ProblemDetail
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, tc.wantStatus, problem.Status)
			assert.Equal(t, tc.wantDetail, problem.Detail)
			assert.NotEmpty(t, problem.Title)

			if tc.wantLogged != "" {
				assert.Contains(t, logs.String(), tc.wantLogged)
				assert.NotContains(t, rec.Body.String(), tc.wantLogged)
			}
		})
	}
}

func TestFault_after_direct_write(t *testing.T) {
	t.Parallel()

	app, logs := quietApp()
	app.Get("/stream", func(c *lemons.Context) error {
		c.Writer().WriteHeader(http.StatusOK)
		_, _ = c.Writer().Write([]byte("partial"))
		return errors.New("stream broke")
	})

	rec := serve(t, app, http.MethodGet, "/stream", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
	assert.Contains(t, logs.String(), "stream broke")
}

func TestFault_yaml_problem(t *testing.T) {
	t.Parallel()

	app, _ := quietApp()
	app.Get("/fail", func(*lemons.Context) error {
		return lemons.Error(http.StatusBadRequest, "bad lemon")
	})

	rec := serve(t, app, http.MethodGet, "/fail", nil, "Accept", "application/yaml")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "detail: bad lemon")
}
