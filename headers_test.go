package lemons_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjaus/lemons"
)

func TestSetResponseHeaders(t *testing.T) {
	t.Parallel()

	app, _ := quietApp()
	app.SetResponseHeaders(map[string]string{"X-Powered-By": "Lemons", "Cache-Control": "no-store"})
	app.Get("/", text("ok"))

	rec := serve(t, app, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Lemons", rec.Header().Get("X-Powered-By"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "ok", rec.Body.String())
}

func TestSetResponseHeaders_replaces_earlier_headers(t *testing.T) {
	t.Parallel()

	app, _ := quietApp()
	app.Use(func(c *lemons.Context, next lemons.Next) error {
		c.Response.Header.Set("X", "1")
		return next()
	})
	app.SetResponseHeaders(map[string]string{"Y": "2"})
	app.Get("/", text("ok"))

	rec := serve(t, app, http.MethodGet, "/", nil)

	assert.Equal(t, "2", rec.Header().Get("Y"))
	assert.Empty(t, rec.Header().Values("X"))
}

func TestSetResponseHeaders_later_steps_add(t *testing.T) {
	t.Parallel()

	app, _ := quietApp()
	app.SetResponseHeaders(map[string]string{"Y": "2"})
	app.Use(func(c *lemons.Context, next lemons.Next) error {
		c.Response.Header.Set("Z", "3")
		return next()
	})
	app.Get("/", text("ok"))

	rec := serve(t, app, http.MethodGet, "/", nil)

	assert.Equal(t, "2", rec.Header().Get("Y"))
	assert.Equal(t, "3", rec.Header().Get("Z"))
}

func TestHeaders_map_is_copied(t *testing.T) {
	t.Parallel()

	headers := map[string]string{"X-Version": "1"}
	app, _ := quietApp()
	app.Use(lemons.Headers(headers))
	app.Get("/", text("ok"))

	headers["X-Version"] = "2"
	headers["X-Extra"] = "yes"

	rec := serve(t, app, http.MethodGet, "/", nil)

	assert.Equal(t, "1", rec.Header().Get("X-Version"))
	assert.Empty(t, rec.Header().Get("X-Extra"))
}

func TestHeaders_fresh_per_request(t *testing.T) {
	t.Parallel()

	app, _ := quietApp()
	app.Use(lemons.Headers(map[string]string{"X-Count": "0"}))
	app.Get("/", func(c *lemons.Context) error {
		c.Response.Header.Add("X-Count", "1")
		c.Response.Body = "ok"
		return nil
	})

	first := serve(t, app, http.MethodGet, "/", nil)
	second := serve(t, app, http.MethodGet, "/", nil)

	assert.Equal(t, []string{"0", "1"}, first.Header().Values("X-Count"))
	assert.Equal(t, []string{"0", "1"}, second.Header().Values("X-Count"))
}

func TestHeaders_propagates_faults(t *testing.T) {
	t.Parallel()

	app, _ := quietApp()
	app.SetResponseHeaders(map[string]string{"X-App": "lemons"})
	app.Get("/", func(*lemons.Context) error {
		return lemons.Error(http.StatusForbidden, "no")
	})

	rec := serve(t, app, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "lemons", rec.Header().Get("X-App"))
}
