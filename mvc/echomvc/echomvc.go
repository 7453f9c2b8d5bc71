// Package echomvc serves an mvc.Dispatcher from the Echo web framework.
//
// Example usage:
//
//	c, _ := stereo.New("applicationContext.xml")
//	d, _ := mvc.NewDispatcher(c)
//
//	e := echo.New()
//	echomvc.Mount(e, d)
//
// When routes live under a prefix, either through WithPrefix or an
// echo.Group, build the dispatcher with mvc.WithContextPath set to the full
// prefix.
package echomvc

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/junioryono/stereo/mvc"
)

// Router is satisfied by *echo.Echo and *echo.Group.
type Router interface {
	Match(methods []string, path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) []*echo.Route
}

// Config holds configuration for the handler.
type Config struct {
	// Prefix is prepended to every route path registered on the router.
	Prefix string

	// PanicRecovery enables panic recovery in the handler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	PanicHandler func(echo.Context, any) error

	Logger zerolog.Logger
}

// Option configures the handler.
type Option func(*Config)

// WithPrefix sets the path prefix routes are registered under.
func WithPrefix(prefix string) Option {
	return func(c *Config) {
		c.Prefix = prefix
	}
}

// WithPanicRecovery enables or disables panic recovery in the handler.
func WithPanicRecovery(enabled bool) Option {
	return func(c *Config) {
		c.PanicRecovery = enabled
	}
}

// WithPanicHandler sets the handler for panics.
func WithPanicHandler(h func(echo.Context, any) error) Option {
	return func(c *Config) {
		c.PanicHandler = h
	}
}

// WithLogger sets the logger used by the default panic handler.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

func defaultConfig() *Config {
	cfg := &Config{Logger: zerolog.Nop()}
	cfg.PanicHandler = func(c echo.Context, v any) error {
		cfg.Logger.Error().Interface("panic", v).Str("path", c.Request().URL.Path).Msg("panic in handler")
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error")
	}
	return cfg
}

// Mount registers every route of d on r for GET and POST and returns the echo
// routes created.
func Mount(r Router, d *mvc.Dispatcher, opts ...Option) []*echo.Route {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	h := handle(d, cfg)
	methods := []string{http.MethodGet, http.MethodPost}

	var routes []*echo.Route
	for _, route := range d.Routes() {
		routes = append(routes, r.Match(methods, mvc.JoinPath(cfg.Prefix, route.Path), h)...)
	}
	return routes
}

// Handler wraps d as a single echo handler, for use with a wildcard route.
func Handler(d *mvc.Dispatcher, opts ...Option) echo.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return handle(d, cfg)
}

func handle(d *mvc.Dispatcher, cfg *Config) echo.HandlerFunc {
	wrapped := echo.WrapHandler(d)

	return func(c echo.Context) (err error) {
		if cfg.PanicRecovery {
			defer func() {
				if v := recover(); v != nil {
					err = cfg.PanicHandler(c, v)
				}
			}()
		}

		return wrapped(c)
	}
}
