package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/bjaus/lemons"
)

func newApp(cfg *Config, logger *slog.Logger) *lemons.App {
	app := lemons.New(
		lemons.WithLogger(logger),
		lemons.WithHost(cfg.Host),
		lemons.WithShutdownTimeout(cfg.ShutdownTimeout),
	)

	app.HandleError(func(c *lemons.Context, err error) {
		status := lemons.ErrorStatus(err)
		msg := err.Error()
		if status >= http.StatusInternalServerError {
			c.Logger().Error("request failed", "error", err, "path", c.Request.URL.Path)
			msg = http.StatusText(status)
		}
		c.Send(status, map[string]string{"error": msg})
	})

	if len(cfg.Headers) > 0 {
		app.SetResponseHeaders(cfg.Headers)
	}

	app.Use(lemons.RequestID())
	app.Use(lemons.Logger(logger))
	if cfg.Secure {
		app.Use(lemons.Secure())
	}
	if cfg.Compress {
		app.Use(lemons.Compress())
	}
	app.Use(lemons.ETag(), lemons.BodyLimit(cfg.BodyLimit))
	app.Use(func(c *lemons.Context, next lemons.Next) error {
		c.Logger().Info("Received " + c.Request.Method + " request for " + c.Request.URL.String())
		return next()
	})

	if cfg.RateLimit.Rate > 0 {
		app.Use(lemons.RateLimit(lemons.RateLimitConfig{
			Rate:  cfg.RateLimit.Rate,
			Burst: cfg.RateLimit.Burst,
		}))
	}

	app.Get("/greet", handleGreet,
		lemons.WithName("greet"),
		lemons.WithMiddleware(app.Validate(lemons.Schema{
			{Key: "name", Validator: lemons.Required()},
		})),
	)
	app.Get("/status", handleStatus, lemons.WithName("status"))
	app.Post("/echo", handleEcho, lemons.WithName("echo"))

	if cfg.StaticDir != "" {
		app.Static("/static", os.DirFS(cfg.StaticDir))
	}
	if cfg.Pprof {
		app.Pprof("")
	}

	return app
}

func handleGreet(c *lemons.Context) error {
	c.Response.Body = "Welcome to Lemons!"
	return nil
}

func handleStatus(c *lemons.Context) error {
	c.Response.Body = map[string]string{"status": "OK"}
	return nil
}

func handleEcho(c *lemons.Context) error {
	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return err
	}
	c.Send(http.StatusOK, body)
	return nil
}
