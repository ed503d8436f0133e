package lemons

// Group registers routes under a shared prefix with shared route middleware.
type Group struct {
	app        *App
	prefix     string
	middleware []Middleware
}

// GroupOption configures a Group.
type GroupOption func(*Group)

// WithGroupMiddleware adds middleware to every route registered on the group.
// It runs before any per-route middleware.
func WithGroupMiddleware(mw ...Middleware) GroupOption {
	return func(g *Group) {
		g.middleware = append(g.middleware, mw...)
	}
}

// Group creates a route group with the given prefix and options.
func (a *App) Group(prefix string, opts ...GroupOption) *Group {
	g := &Group{
		app:    a,
		prefix: prefix,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Group creates a nested group. The child inherits the parent's prefix and
// middleware.
func (g *Group) Group(prefix string, opts ...GroupOption) *Group {
	child := &Group{
		app:        g.app,
		prefix:     g.prefix + prefix,
		middleware: append([]Middleware(nil), g.middleware...),
	}
	for _, opt := range opts {
		opt(child)
	}
	return child
}

// Handle registers h for method on the group prefix + path.
func (g *Group) Handle(method Method, path string, h HandlerFunc, opts ...RouteOption) {
	all := make([]RouteOption, 0, len(opts)+1)
	if len(g.middleware) > 0 {
		all = append(all, WithMiddleware(g.middleware...))
	}
	all = append(all, opts...)
	g.app.Handle(method, g.prefix+path, h, all...)
}

// Get registers a GET handler.
func (g *Group) Get(path string, h HandlerFunc, opts ...RouteOption) {
	g.Handle(MethodGet, path, h, opts...)
}

// Post registers a POST handler.
func (g *Group) Post(path string, h HandlerFunc, opts ...RouteOption) {
	g.Handle(MethodPost, path, h, opts...)
}

// Put registers a PUT handler.
func (g *Group) Put(path string, h HandlerFunc, opts ...RouteOption) {
	g.Handle(MethodPut, path, h, opts...)
}

// Patch registers a PATCH handler.
func (g *Group) Patch(path string, h HandlerFunc, opts ...RouteOption) {
	g.Handle(MethodPatch, path, h, opts...)
}

// Delete registers a DELETE handler.
func (g *Group) Delete(path string, h HandlerFunc, opts ...RouteOption) {
	g.Handle(MethodDelete, path, h, opts...)
}

// All registers h for every HTTP method.
func (g *Group) All(path string, h HandlerFunc, opts ...RouteOption) {
	g.Handle(MethodAll, path, h, opts...)
}
