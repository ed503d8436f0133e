package lemons

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

// App holds the route table, the middleware pipeline and server configuration.
// It implements http.Handler.
type App struct {
	router     *mux.Router
	middleware []Middleware
	pipeline   func(c *Context, final ...Next) error

	logger *slog.Logger
	codecs *codecRegistry

	encoders []Encoder
	decoders []Decoder

	host              string
	readHeaderTimeout time.Duration
	shutdownTimeout   time.Duration

	sealed bool
	once   sync.Once
	mu     sync.Mutex
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger used for startup messages, fault reports and
// Context.Logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithEncoder registers an additional response encoder.
func WithEncoder(enc Encoder) Option {
	return func(a *App) {
		a.encoders = append(a.encoders, enc)
	}
}

// WithDecoder registers an additional request body decoder.
func WithDecoder(dec Decoder) Option {
	return func(a *App) {
		a.decoders = append(a.decoders, dec)
	}
}

// WithHost sets the interface Listen binds to. Empty means all interfaces.
func WithHost(host string) Option {
	return func(a *App) {
		a.host = host
	}
}

// WithReadHeaderTimeout sets http.Server.ReadHeaderTimeout (default 10s).
func WithReadHeaderTimeout(d time.Duration) Option {
	return func(a *App) {
		a.readHeaderTimeout = d
	}
}

// WithShutdownTimeout bounds graceful shutdown once the Listen context is
// cancelled (default 30s).
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) {
		a.shutdownTimeout = d
	}
}

// WithStrictSlash enables gorilla/mux's trailing slash redirect behavior.
func WithStrictSlash(strict bool) Option {
	return func(a *App) {
		a.router.StrictSlash(strict)
	}
}

// New creates an App with the given options.
func New(opts ...Option) *App {
	a := &App{
		router:            mux.NewRouter(),
		logger:            slog.Default(),
		readHeaderTimeout: 10 * time.Second,
		shutdownTimeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.codecs = newCodecRegistry(a.encoders, a.decoders)
	return a
}

// Use appends middleware to the pipeline. Middleware runs in the order added,
// ahead of route dispatch.
func (a *App) Use(mw ...Middleware) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.mustBeOpen("Use")
	a.middleware = append(a.middleware, mw...)
}

// Handler seals the app and returns it as an http.Handler without binding
// a port. Useful for tests and for mounting under another server.
func (a *App) Handler() http.Handler {
	a.seal()
	return a
}

// ServeHTTP implements http.Handler. The first call seals the app.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.seal()

	c := newContext(a, w, r)
	if err := a.run(c); err != nil {
		a.fault(c, err)
	}
	c.respond()
}

// Listen seals the app and serves HTTP on the given port until ctx is
// cancelled, then shuts down gracefully. Bind errors come straight from
// net/http.
func (a *App) Listen(ctx context.Context, port int) error {
	a.seal()

	srv := a.newServer(net.JoinHostPort(a.host, strconv.Itoa(port)))
	a.logger.Info(fmt.Sprintf("Server running at http://localhost:%d", port), "port", port)

	return a.serve(ctx, srv, srv.ListenAndServe)
}

// Serve is Listen for an existing listener.
func (a *App) Serve(ctx context.Context, l net.Listener) error {
	a.seal()

	srv := a.newServer(l.Addr().String())
	a.logger.Info("Server running at http://"+l.Addr().String(), "addr", l.Addr().String())

	return a.serve(ctx, srv, func() error { return srv.Serve(l) })
}

func (a *App) newServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           a,
		ReadHeaderTimeout: a.readHeaderTimeout,
	}
}

func (a *App) serve(ctx context.Context, srv *http.Server, start func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if startErr := <-errCh; startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
			return startErr
		}
		return err
	}
}

// seal appends the router-generated middleware and freezes registration.
// The router steps always run last.
func (a *App) seal() {
	a.once.Do(func() {
		a.mu.Lock()
		defer a.mu.Unlock()

		steps := make([]Middleware, 0, len(a.middleware)+2)
		steps = append(steps, a.middleware...)
		steps = append(steps, a.routes(), a.allowedMethods())
		a.pipeline = compose(steps)
		a.sealed = true
	})
}

// mustBeOpen panics when called after seal. Callers hold a.mu.
func (a *App) mustBeOpen(op string) {
	if a.sealed {
		panic("lemons: " + op + " after the app was sealed")
	}
}

// run executes the pipeline, turning a panic into a *PanicError.
func (a *App) run(c *Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = newPanicError(rec)
		}
	}()
	return a.pipeline(c)
}
