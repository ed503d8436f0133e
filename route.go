package lemons

import (
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/gorilla/mux"
)

// route holds a registration until it is handed to the router.
type route struct {
	method     Method
	verbs      []string
	pattern    string
	name       string
	middleware []Middleware
	handler    HandlerFunc
}

// RouteOption configures a route at registration time.
type RouteOption func(*route)

// WithMiddleware runs mw, in order, between route matching and the handler.
func WithMiddleware(mw ...Middleware) RouteOption {
	return func(rt *route) {
		rt.middleware = append(rt.middleware, mw...)
	}
}

// WithName names the route for reverse lookup with App.URL.
func WithName(name string) RouteOption {
	return func(rt *route) {
		rt.name = name
	}
}

// chain folds route middleware and the handler into one HandlerFunc.
func (rt route) chain() HandlerFunc {
	if len(rt.middleware) == 0 {
		return rt.handler
	}
	run := compose(rt.middleware)
	h := rt.handler
	return func(c *Context) error {
		return run(c, func() error { return h(c) })
	}
}

// routeHandler is what the router stores for each route. Dispatch unwraps
// it; ServeHTTP only runs when the router is used on its own.
type routeHandler struct {
	app *App
	run HandlerFunc
}

func (h routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := newContext(h.app, w, r)
	if err := h.run(c); err != nil {
		h.app.fault(c, err)
	}
	c.respond()
}

func (a *App) addRoute(rt route) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.mustBeOpen(string(rt.method) + " " + rt.pattern)

	r := a.router.NewRoute().
		Path(rt.pattern).
		Handler(routeHandler{app: a, run: rt.chain()})
	if rt.verbs != nil {
		r.Methods(rt.verbs...)
	}
	if rt.name != "" {
		r.Name(rt.name)
	}
	if err := r.GetError(); err != nil {
		panic("lemons: " + err.Error())
	}
}

// URL builds the URL of the route registered under name, filling path
// variables from key/value pairs.
func (a *App) URL(name string, pairs ...string) (*url.URL, error) {
	r := a.router.Get(name)
	if r == nil {
		return nil, fmt.Errorf("lemons: no route named %q", name)
	}
	return r.URL(pairs...)
}

// routes is the dispatch step appended at seal time. A matched route ends
// the pipeline; anything else falls through to next.
func (a *App) routes() Middleware {
	return func(c *Context, next Next) error {
		var match mux.RouteMatch
		if !a.router.Match(c.Request, &match) || match.MatchErr != nil {
			return next()
		}

		c.Request = mux.SetURLVars(c.Request, match.Vars)
		c.route = match.Route

		if rh, ok := match.Handler.(routeHandler); ok {
			return rh.run(c)
		}
		// Strict slash redirects come back as plain handlers.
		return HTTPHandler(match.Handler)(c)
	}
}

// allowedMethods runs after dispatch. When nothing handled the request but
// the path is registered for other verbs, OPTIONS gets 200 and everything
// else 405, both with an Allow header.
func (a *App) allowedMethods() Middleware {
	return func(c *Context, next Next) error {
		if err := next(); err != nil {
			return err
		}
		if c.Written() || c.Response.status() != http.StatusNotFound {
			return nil
		}

		allowed := a.allowedFor(c.Request)
		if len(allowed) == 0 || slices.Contains(allowed, c.Request.Method) {
			return nil
		}

		c.Response.Header.Set("Allow", strings.Join(allowed, ", "))
		if c.Request.Method == http.MethodOptions {
			c.Response.Status = http.StatusOK
			return nil
		}
		c.Response.Status = http.StatusMethodNotAllowed
		return nil
	}
}

func (a *App) allowedFor(r *http.Request) []string {
	var allowed []string
	for _, method := range probeMethods {
		probe := r.WithContext(r.Context())
		probe.Method = method

		var match mux.RouteMatch
		if a.router.Match(probe, &match) && match.MatchErr == nil {
			allowed = append(allowed, method)
		}
	}
	return allowed
}
