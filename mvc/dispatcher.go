package mvc

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/junioryono/stereo"
)

// Route is one entry of the dispatch table.
type Route struct {
	Path       string
	Controller string // alias of the controller bean
	Type       reflect.Type
	Method     string
	Params     []string
}

// Config holds the configuration for a Dispatcher.
type Config struct {
	// ContextPath is stripped from request paths before routing.
	ContextPath string

	Logger zerolog.Logger

	// ErrorHandler writes the response when a handler method returns an
	// error. If nil, a 500 Internal Server Error is written.
	ErrorHandler func(http.ResponseWriter, *http.Request, error)
}

// Option configures a Dispatcher.
type Option func(*Config)

// WithContextPath mounts every route below prefix.
func WithContextPath(prefix string) Option {
	return func(c *Config) {
		c.ContextPath = prefix
	}
}

// WithLogger sets the logger for dispatch failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithErrorHandler sets the handler for errors returned by controller methods.
func WithErrorHandler(h func(http.ResponseWriter, *http.Request, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

func defaultConfig() *Config {
	return &Config{
		Logger: zerolog.Nop(),
	}
}

// Dispatcher routes requests to controller methods. It is an http.Handler.
type Dispatcher struct {
	router chi.Router
	routes []Route
	config *Config
}

// NewDispatcher builds the dispatch table from every Controller bean in c that
// implements Mapper. Each route is the controller prefix joined with the
// mapping path.
func NewDispatcher(c *stereo.Container, opts ...Option) (*Dispatcher, error) {
	if c == nil {
		return nil, stereo.ErrNilContainer
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	d := &Dispatcher{config: cfg}

	routes := chi.NewRouter()
	routes.Use(middleware.Recoverer)
	routes.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "404 Not Found", http.StatusNotFound)
	})

	seen := make(map[string]Route)
	for _, bean := range c.Beans() {
		if !bean.OwnsAlias || !stereo.HasStereotype(bean.Type, stereo.ControllerStereotype) {
			continue
		}

		mapper, ok := bean.Instance.(Mapper)
		if !ok {
			cfg.Logger.Debug().Str("controller", bean.Alias).Msg("controller exposes no mappings")
			continue
		}

		prefix := ControllerPath(bean.Type)
		for _, m := range mapper.RequestMappings() {
			route := Route{
				Path:       JoinPath(prefix, m.Path),
				Controller: bean.Alias,
				Type:       bean.Type,
				Method:     m.Method,
				Params:     append([]string(nil), m.Params...),
			}

			if prev, dup := seen[route.Path]; dup {
				return nil, fmt.Errorf("%w: %s is mapped by %s.%s and %s.%s",
					ErrDuplicateRoute, route.Path, prev.Controller, prev.Method, route.Controller, route.Method)
			}

			h, err := newHandler(bean.Instance, m)
			if err != nil {
				return nil, err
			}

			seen[route.Path] = route
			d.routes = append(d.routes, route)

			handle := d.serve(route, h)
			routes.Get(route.Path, handle)
			routes.Post(route.Path, handle)

			cfg.Logger.Debug().
				Str("path", route.Path).
				Str("controller", route.Controller).
				Str("method", route.Method).
				Msg("route mapped")
		}
	}

	if cfg.ContextPath == "" || cfg.ContextPath == "/" {
		d.router = routes
	} else {
		root := chi.NewRouter()
		root.Mount(cfg.ContextPath, routes)
		root.NotFound(routes.NotFoundHandler())
		d.router = root
	}

	return d, nil
}

func (d *Dispatcher) serve(route Route, h *handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		args, err := h.bind(w, r)
		if err != nil {
			var perr ParamError
			if errors.As(err, &perr) {
				d.config.Logger.Debug().Err(err).Str("path", route.Path).Msg("bad request parameter")
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := h.call(args); err != nil {
			d.config.Logger.Error().Err(err).
				Str("path", route.Path).
				Str("controller", route.Controller).
				Str("method", route.Method).
				Msg("handler failed")

			if d.config.ErrorHandler != nil {
				d.config.ErrorHandler(w, r, err)
				return
			}
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}

// ServeHTTP dispatches r. GET and POST reach the same method.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.router.ServeHTTP(w, r)
}

// Routes returns the dispatch table in mapping order.
func (d *Dispatcher) Routes() []Route {
	return append([]Route(nil), d.routes...)
}

// Handler returns the dispatcher's router.
func (d *Dispatcher) Handler() http.Handler {
	return d.router
}
