// Package lemons is a small convenience layer over gorilla/mux and net/http.
// It adds method-named route registration, an ordered middleware pipeline,
// a query-parameter validation middleware, a header-setting middleware, an
// error-handling middleware and server startup. Route matching, path syntax
// and connection handling all belong to the underlying framework.
//
// Handlers and middleware work on a per-request *Context whose Response is
// buffered and written once the pipeline completes:
//
//	app := lemons.New()
//
//	app.Use(func(c *lemons.Context, next lemons.Next) error {
//	    c.Logger().Info("received", "method", c.Request.Method, "url", c.Request.URL)
//	    return next()
//	})
//
//	app.Use(app.Validate(lemons.Schema{
//	    {Key: "name", Validator: lemons.Required()},
//	}))
//
//	app.Get("/greet", func(c *lemons.Context) error {
//	    c.Response.Body = "Welcome to Lemons!"
//	    return nil
//	})
//
//	app.Listen(ctx, 4000)
//
// Middleware runs in registration order before route dispatch. Listen (or
// Handler) appends the route-dispatch and allowed-methods steps, after
// which the app is sealed and further registration panics.
package lemons
