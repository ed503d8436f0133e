package lemons

import "context"

// ServeWith runs the app's serve loop on an unbound server with a custom
// start function.
func (a *App) ServeWith(ctx context.Context, start func() error) error {
	a.seal()
	return a.serve(ctx, a.newServer(""), start)
}
