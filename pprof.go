package lemons

import (
	"net/http"
	"net/http/pprof"
)

// Pprof registers pprof profiling endpoints under prefix (default
// "/debug/pprof"). opts apply to every endpoint, so guard them with
// WithMiddleware when the app is exposed.
func (a *App) Pprof(prefix string, opts ...RouteOption) {
	if prefix == "" {
		prefix = "/debug/pprof"
	}

	a.Get(prefix+"/", HTTPHandler(http.HandlerFunc(pprof.Index)), opts...)
	a.Get(prefix+"/cmdline", HTTPHandler(http.HandlerFunc(pprof.Cmdline)), opts...)
	a.Get(prefix+"/profile", HTTPHandler(http.HandlerFunc(pprof.Profile)), opts...)
	a.Get(prefix+"/symbol", HTTPHandler(http.HandlerFunc(pprof.Symbol)), opts...)
	a.Get(prefix+"/trace", HTTPHandler(http.HandlerFunc(pprof.Trace)), opts...)
	a.Get(prefix+"/{profile}", func(c *Context) error {
		return HTTPHandler(pprof.Handler(c.Param("profile")))(c)
	}, opts...)
}
