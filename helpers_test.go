package lemons_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bjaus/lemons"
)

// serve runs one request through app and returns the recorded response.
func serve(t *testing.T, app *lemons.App, method, target string, body io.Reader, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	require.Zero(t, len(headers)%2, "headers must be key/value pairs")

	req, err := http.NewRequestWithContext(context.Background(), method, target, body)
	require.NoError(t, err)
	for i := 0; i < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

// quietApp builds an app whose logger writes into the returned buffer.
func quietApp(opts ...lemons.Option) (*lemons.App, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return lemons.New(append([]lemons.Option{lemons.WithLogger(logger)}, opts...)...), &buf
}

func text(body string) lemons.HandlerFunc {
	return func(c *lemons.Context) error {
		c.Response.Body = body
		return nil
	}
}
