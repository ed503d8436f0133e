package lemons_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjaus/lemons"
)

func TestPprof(t *testing.T) {
	t.Parallel()

	app, _ := quietApp()
	app.Pprof("")

	tests := map[string]struct {
		target     string
		wantStatus int
		wantBody   string
	}{
		"index": {
			target:     "/debug/pprof/",
			wantStatus: http.StatusOK,
			wantBody:   "goroutine",
		},
		"named profile": {
			target:     "/debug/pprof/goroutine?debug=1",
			wantStatus: http.StatusOK,
			wantBody:   "goroutine profile",
		},
		"cmdline": {
			target:     "/debug/pprof/cmdline",
			wantStatus: http.StatusOK,
		},
		"unknown profile": {
			target:     "/debug/pprof/lemons",
			wantStatus: http.StatusNotFound,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rec := serve(t, app, http.MethodGet, tc.target, nil)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantBody)
		})
	}
}

func TestPprof_guarded(t *testing.T) {
	t.Parallel()

	deny := func(c *lemons.Context, _ lemons.Next) error {
		c.Send(http.StatusForbidden, "forbidden")
		return nil
	}

	app, _ := quietApp()
	app.Pprof("/internal/pprof", lemons.WithMiddleware(deny))

	rec := serve(t, app, http.MethodGet, "/internal/pprof/heap", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
