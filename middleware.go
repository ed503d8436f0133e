package lemons

// Next runs the remainder of the pipeline and returns its fault, if any.
type Next func() error

// Middleware is a pipeline step. Work before next() runs in registration
// order, work after it in reverse. Returning without calling next skips the
// rest of the pipeline, including the route handler.
type Middleware func(c *Context, next Next) error

// Chain composes middleware into a single step that runs them in order.
func Chain(mw ...Middleware) Middleware {
	run := compose(mw)
	return func(c *Context, next Next) error {
		return run(c, next)
	}
}

// compose builds the dispatcher for an ordered middleware list. The returned
// function runs the list and then final (which may be nil).
func compose(mw []Middleware) func(c *Context, final ...Next) error {
	return func(c *Context, final ...Next) error {
		index := -1

		var dispatch func(i int) error
		dispatch = func(i int) error {
			if i <= index {
				return ErrNextCalled
			}
			index = i

			if i == len(mw) {
				if len(final) > 0 && final[0] != nil {
					return final[0]()
				}
				return nil
			}
			return mw[i](c, func() error { return dispatch(i + 1) })
		}
		return dispatch(0)
	}
}
