package stereo

import (
	"fmt"
	"io"
	"reflect"

	"github.com/elliotchance/pie/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/junioryono/stereo/config"
	"github.com/junioryono/stereo/internal/container"
	"github.com/junioryono/stereo/internal/graph"
	"github.com/junioryono/stereo/internal/reflection"
	"github.com/junioryono/stereo/internal/registry"
	"github.com/junioryono/stereo/internal/scanner"
	"github.com/junioryono/stereo/internal/store"
)

// Container discovers managed types under a root namespace, creates one
// instance of each and wires their autowired fields. All of it happens inside
// New / NewWithRoot; once a Container is returned it is read-only and safe for
// concurrent lookups.
type Container struct {
	id      string
	root    string
	catalog *Catalog
	options *containerOptions
	logger  zerolog.Logger

	registry *registry.Registry
	store    *store.Store
	factory  *container.Factory
	beans    []*container.Bean

	diagnostics Diagnostics
}

// BeanInfo describes one instance held by a container.
type BeanInfo struct {
	Alias       string
	OwnsAlias   bool // false when another type registered the alias first
	Type        reflect.Type
	Instance    any
	Stereotypes []Stereotype
	Contracts   []reflect.Type
	Keys        []string // every store key currently resolving to Instance
}

// GraphFormat selects the output of WriteGraph.
type GraphFormat int

const (
	GraphText GraphFormat = iota
	GraphDOT
)

// New reads the descriptor at locator for the namespace to scan and builds a
// container from it. A descriptor with strict enabled implies WithStrict(true)
// unless opts say otherwise.
func New(locator string, opts ...Option) (*Container, error) {
	desc, err := config.Load(locator)
	if err != nil {
		return nil, err
	}

	if desc.Strict {
		opts = append([]Option{WithStrict(true)}, opts...)
	}

	return NewWithRoot(desc.ComponentScan, opts...)
}

// NewWithRoot builds a container scanning root. The phases run in strict
// order: scan, register, instantiate every bean, then wire every bean.
//
// In the default lenient mode per-entry failures (an unknown namespace, a name
// that fails to load, a type that fails to construct, a field with nothing to
// inject) are logged and recorded in Diagnostics, and construction succeeds. In
// strict mode they are returned together as a *WiringError.
func NewWithRoot(root string, opts ...Option) (*Container, error) {
	options := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt.apply(options)
		}
	}

	cat := options.catalog
	if cat == nil {
		cat = DefaultCatalog()
	}

	id := uuid.NewString()
	logger := options.logger.With().Str("container", id).Logger()

	c := &Container{
		id:       id,
		root:     scanner.Normalize(root),
		catalog:  cat,
		options:  options,
		logger:   logger,
		registry: registry.New(reflection.New()),
		store:    store.New(),
	}
	c.factory = container.NewFactory(c.store, graph.New(), logger)

	if err := c.build(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) build() error {
	c.logger.Debug().Str("root", c.root).Msg("scanning")
	names := c.scan()

	c.logger.Debug().Int("types", len(names)).Msg("registering")
	_, loadErrs := c.registry.Register(names, c.catalog)
	c.registry.Seal()
	for _, err := range loadErrs {
		c.logger.Warn().Err(err).Msg("type skipped")
	}
	c.diagnostics.Load = loadErrs

	defs := c.registry.Definitions()

	c.logger.Debug().Int("definitions", len(defs)).Msg("instantiating")
	c.beans = c.factory.CreateAll(defs)

	c.logger.Debug().Int("beans", len(c.beans)).Msg("wiring")
	c.factory.WireAll(defs)

	if c.options.initializers {
		c.factory.InitializeAll(c.beans)
	}

	report := c.factory.Report()
	c.diagnostics.Construction = report.Construction
	c.diagnostics.Resolution = report.Resolution
	c.diagnostics.Initialization = report.Initialization
	c.diagnostics.Collisions = report.Collisions
	c.diagnostics.Overrides = report.Overrides

	c.logger.Info().
		Str("root", c.root).
		Int("beans", len(c.beans)).
		Int("keys", c.store.Len()).
		Int("failures", len(c.diagnostics.Errors())).
		Msg("container ready")

	if c.options.strict {
		if err := newWiringError(c.id, c.diagnostics.Errors()); err != nil {
			return err
		}
	}

	return nil
}

func (c *Container) scan() []string {
	result, err := scanner.New(c.catalog).Scan(c.root)
	if err != nil {
		c.logger.Warn().Err(err).Msg("nothing to scan")
		c.diagnostics.Discovery = append(c.diagnostics.Discovery, err)
		return nil
	}

	for _, missing := range result.Missing {
		c.logger.Warn().Err(missing).Msg("namespace skipped")
		c.diagnostics.Discovery = append(c.diagnostics.Discovery, missing)
	}

	return result.Types
}

// ID returns the container's unique identifier.
func (c *Container) ID() string {
	return c.id
}

// Root returns the namespace the container scanned.
func (c *Container) Root() string {
	return c.root
}

// Lookup returns the instance registered under name, which is either an alias
// or the fully-qualified name of a declared contract.
func (c *Container) Lookup(name string) (any, bool) {
	return c.store.Get(name)
}

// GetBean returns the instance registered under name, or nil.
func (c *Container) GetBean(name string) any {
	instance, _ := c.store.Get(name)
	return instance
}

// Names returns every lookup key in registration order.
func (c *Container) Names() []string {
	return c.store.Keys()
}

// Len returns the number of lookup keys.
func (c *Container) Len() int {
	return c.store.Len()
}

// Beans describes every created instance still reachable through at least
// one key, in creation order.
func (c *Container) Beans() []BeanInfo {
	keys := c.store.Keys()

	out := make([]BeanInfo, 0, len(c.beans))
	for _, bean := range c.beans {
		reachable := pie.Filter(keys, func(key string) bool {
			instance, _ := c.store.Get(key)
			return instance == bean.Instance
		})
		if len(reachable) == 0 {
			continue
		}

		def := bean.Definition
		contracts := make([]reflect.Type, 0, len(def.Contracts))
		for _, contract := range def.Contracts {
			contracts = append(contracts, contract.Type)
		}

		out = append(out, BeanInfo{
			Alias:       def.Alias,
			OwnsAlias:   bean.OwnsAlias,
			Type:        reflect.TypeOf(bean.Instance),
			Instance:    bean.Instance,
			Stereotypes: def.Info.Stereotypes(),
			Contracts:   contracts,
			Keys:        reachable,
		})
	}

	return out
}

// Diagnostics returns the per-entry failures recorded during construction.
func (c *Container) Diagnostics() Diagnostics {
	return c.diagnostics
}

// Dependencies returns the keys the bean registered under alias was wired
// against, in field order, including ones that did not resolve.
func (c *Container) Dependencies(alias string) []string {
	return c.factory.Graph().Dependencies(alias)
}

// Dependents returns the aliases of beans with a field wired to the bean
// registered under alias, directly or through one of its contracts.
func (c *Container) Dependents(alias string) []string {
	return c.factory.Graph().Dependents(alias)
}

// WriteGraph renders which bean was wired into which.
func (c *Container) WriteGraph(w io.Writer, format GraphFormat) error {
	v := graph.NewVisualizer(c.factory.Graph())

	switch format {
	case GraphText:
		return v.WriteText(w)
	case GraphDOT:
		return v.WriteDOT(w)
	default:
		return fmt.Errorf("unknown graph format %d", int(format))
	}
}

// String returns a short description of the container.
func (c *Container) String() string {
	return fmt.Sprintf("stereo.Container{id: %s, root: %q, beans: %d, keys: %d}",
		c.id, c.root, len(c.beans), c.store.Len())
}
