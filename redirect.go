package lemons

import (
	"net/http"
	"strings"
)

// Redirect answers with status and a Location header pointing at target.
func (c *Context) Redirect(status int, target string) {
	c.Response.Header.Set("Location", target)
	c.Response.Status = status
	c.Response.Body = nil
}

// HTTPSRedirect returns middleware that redirects HTTP requests to HTTPS.
func HTTPSRedirect() Middleware {
	return func(c *Context, next Next) error {
		r := c.Request
		if r.TLS == nil && r.Header.Get("X-Forwarded-Proto") != "https" {
			c.Redirect(http.StatusMovedPermanently, "https://"+r.Host+r.URL.RequestURI())
			return nil
		}
		return next()
	}
}

// TrailingSlash returns middleware that strips trailing slashes and redirects.
func TrailingSlash() Middleware {
	return func(c *Context, next Next) error {
		r := c.Request
		if r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/") {
			target := strings.TrimRight(r.URL.Path, "/")
			if target == "" {
				target = "/"
			}
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			c.Redirect(http.StatusMovedPermanently, target)
			return nil
		}
		return next()
	}
}

// NonWWWRedirect returns middleware that redirects www subdomain to non-www.
func NonWWWRedirect() Middleware {
	return func(c *Context, next Next) error {
		r := c.Request
		if strings.HasPrefix(r.Host, "www.") {
			scheme := "http"
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				scheme = "https"
			}
			c.Redirect(http.StatusMovedPermanently, scheme+"://"+strings.TrimPrefix(r.Host, "www.")+r.URL.RequestURI())
			return nil
		}
		return next()
	}
}
