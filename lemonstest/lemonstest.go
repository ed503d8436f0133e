// Package lemonstest provides typed test helpers for lemons apps.
package lemonstest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"

	"github.com/bjaus/lemons"
)

// Client wraps an httptest.Server and a resty client pointed at it.
type Client struct {
	Server *httptest.Server
	HTTP   *resty.Client
}

// NewClient seals app and serves it from an httptest.Server for the life of t.
func NewClient(t testing.TB, app *lemons.App) *Client {
	t.Helper()
	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)
	return &Client{
		Server: srv,
		HTTP:   resty.New().SetBaseURL(srv.URL),
	}
}

// Response holds a decoded response.
type Response[T any] struct {
	Status  int
	Headers http.Header
	Body    *T
	Raw     []byte
}

// Get sends a typed GET request.
func Get[Resp any](t testing.TB, c *Client, path string) *Response[Resp] {
	t.Helper()
	return Do[Resp](t, c, http.MethodGet, path, nil)
}

// Post sends a typed POST request with a JSON body.
func Post[Req, Resp any](t testing.TB, c *Client, path string, body *Req) *Response[Resp] {
	t.Helper()
	return Do[Resp](t, c, http.MethodPost, path, body)
}

// Put sends a typed PUT request with a JSON body.
func Put[Req, Resp any](t testing.TB, c *Client, path string, body *Req) *Response[Resp] {
	t.Helper()
	return Do[Resp](t, c, http.MethodPut, path, body)
}

// Patch sends a typed PATCH request with a JSON body.
func Patch[Req, Resp any](t testing.TB, c *Client, path string, body *Req) *Response[Resp] {
	t.Helper()
	return Do[Resp](t, c, http.MethodPatch, path, body)
}

// Delete sends a typed DELETE request.
func Delete[Resp any](t testing.TB, c *Client, path string) *Response[Resp] {
	t.Helper()
	return Do[Resp](t, c, http.MethodDelete, path, nil)
}

// Do sends a request with any method. A non-nil body is sent as JSON. The
// response body is decoded as JSON into Resp when possible; Raw always
// holds the bytes.
func Do[Resp any](t testing.TB, c *Client, method, path string, body any) *Response[Resp] {
	t.Helper()

	req := c.HTTP.R().SetContext(context.Background())
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		t.Fatalf("lemonstest: execute request: %v", err)
	}

	result := &Response[Resp]{
		Status:  resp.StatusCode(),
		Headers: resp.Header(),
		Raw:     resp.Body(),
	}

	if len(result.Raw) > 0 {
		var decoded Resp
		if err := json.Unmarshal(result.Raw, &decoded); err == nil {
			result.Body = &decoded
		}
	}

	return result
}
