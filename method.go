package lemons

import "net/http"

// Method names a registration verb. MethodAll matches every HTTP method.
type Method string

const (
	MethodGet     Method = http.MethodGet
	MethodHead    Method = http.MethodHead
	MethodPost    Method = http.MethodPost
	MethodPut     Method = http.MethodPut
	MethodPatch   Method = http.MethodPatch
	MethodDelete  Method = http.MethodDelete
	MethodOptions Method = http.MethodOptions
	MethodAll     Method = "ALL"
)

// methodTable maps each Method to the verbs handed to the router. A nil
// entry leaves the route unrestricted.
var methodTable = map[Method][]string{
	MethodGet:     {http.MethodGet},
	MethodHead:    {http.MethodHead},
	MethodPost:    {http.MethodPost},
	MethodPut:     {http.MethodPut},
	MethodPatch:   {http.MethodPatch},
	MethodDelete:  {http.MethodDelete},
	MethodOptions: {http.MethodOptions},
	MethodAll:     nil,
}

// probeMethods are tried, in order, when computing the Allow header.
var probeMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// Verbs returns the HTTP methods a registration under m is restricted to,
// and false if m is not a known Method.
func (m Method) Verbs() ([]string, bool) {
	verbs, ok := methodTable[m]
	return verbs, ok
}

// Handle registers h for method on path. Path syntax is gorilla/mux's
// ("/users/{id}"). Duplicate registrations are allowed; the first match wins.
// Handle panics on an unknown Method or after the app is sealed.
func (a *App) Handle(method Method, path string, h HandlerFunc, opts ...RouteOption) {
	verbs, ok := method.Verbs()
	if !ok {
		panic("lemons: unsupported method " + string(method))
	}

	rt := route{
		method:  method,
		verbs:   verbs,
		pattern: path,
		handler: h,
	}
	for _, opt := range opts {
		opt(&rt)
	}

	a.addRoute(rt)
}

// Get registers a GET handler.
func (a *App) Get(path string, h HandlerFunc, opts ...RouteOption) {
	a.Handle(MethodGet, path, h, opts...)
}

// Head registers a HEAD handler.
func (a *App) Head(path string, h HandlerFunc, opts ...RouteOption) {
	a.Handle(MethodHead, path, h, opts...)
}

// Post registers a POST handler.
func (a *App) Post(path string, h HandlerFunc, opts ...RouteOption) {
	a.Handle(MethodPost, path, h, opts...)
}

// Put registers a PUT handler.
func (a *App) Put(path string, h HandlerFunc, opts ...RouteOption) {
	a.Handle(MethodPut, path, h, opts...)
}

// Patch registers a PATCH handler.
func (a *App) Patch(path string, h HandlerFunc, opts ...RouteOption) {
	a.Handle(MethodPatch, path, h, opts...)
}

// Delete registers a DELETE handler.
func (a *App) Delete(path string, h HandlerFunc, opts ...RouteOption) {
	a.Handle(MethodDelete, path, h, opts...)
}

// Options registers an OPTIONS handler.
func (a *App) Options(path string, h HandlerFunc, opts ...RouteOption) {
	a.Handle(MethodOptions, path, h, opts...)
}

// All registers h for every HTTP method on path.
func (a *App) All(path string, h HandlerFunc, opts ...RouteOption) {
	a.Handle(MethodAll, path, h, opts...)
}
