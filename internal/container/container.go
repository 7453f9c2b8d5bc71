package container

import (
	"fmt"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/junioryono/stereo/internal/graph"
	"github.com/junioryono/stereo/internal/reflection"
	"github.com/junioryono/stereo/internal/registry"
	"github.com/junioryono/stereo/internal/store"
)

// Constructor is implemented by beans that need to run code as part of their
// no-argument construction. A returned error or a panic discards the bean.
type Constructor interface {
	Construct() error
}

// Initializer is implemented by beans that need to run code once every bean has
// been wired.
type Initializer interface {
	Initialize() error
}

// Bean is one created instance.
type Bean struct {
	Definition *registry.Definition
	Instance   any
	OwnsAlias  bool
}

// Report collects everything that went wrong, per entry, while the passes ran.
type Report struct {
	Construction   []error
	Resolution     []error
	Initialization []error
	Collisions     []AliasCollision
	Overrides      []ContractOverride
}

// Factory runs the instantiation and injection passes against a store. The
// passes are separate so that every instance exists before any field is
// populated, which lets beans reference each other in cycles.
type Factory struct {
	store  *store.Store
	graph  *graph.WiringGraph
	logger zerolog.Logger
	report Report
	owners map[any]string // instance -> alias it owns
}

// NewFactory creates a Factory writing into s and recording wiring in g.
func NewFactory(s *store.Store, g *graph.WiringGraph, logger zerolog.Logger) *Factory {
	if g == nil {
		g = graph.New()
	}

	return &Factory{
		store:  s,
		graph:  g,
		logger: logger,
		owners: make(map[any]string),
	}
}

// CreateAll constructs one instance per definition and indexes it under its
// alias (first write wins) and under each declared contract (last write wins).
// Definitions that fail to construct are skipped.
func (f *Factory) CreateAll(defs []*registry.Definition) []*Bean {
	beans := make([]*Bean, 0, len(defs))

	for _, def := range defs {
		value, err := f.construct(def)
		if err != nil {
			cerr := ConstructionError{Type: def.Info.Name, Alias: def.Alias, Cause: err}
			f.report.Construction = append(f.report.Construction, cerr)
			f.logger.Warn().Err(err).
				Str("type", def.Info.Name).
				Str("alias", def.Alias).
				Msg("construction failed, type skipped")
			continue
		}

		bean := &Bean{
			Definition: def,
			Instance:   value.Interface(),
		}

		bean.OwnsAlias = f.store.PutAlias(def.Alias, bean.Instance)
		if bean.OwnsAlias {
			f.owners[bean.Instance] = def.Alias
			f.graph.AddBean(def.Alias, def.Info.Name)
		} else {
			winner, _ := f.store.Get(def.Alias)
			collision := AliasCollision{
				Alias:  def.Alias,
				Winner: reflection.TypeName(reflect.TypeOf(winner)),
				Loser:  def.Info.Name,
			}
			f.report.Collisions = append(f.report.Collisions, collision)
			f.logger.Debug().
				Str("alias", def.Alias).
				Str("kept", collision.Winner).
				Str("dropped", collision.Loser).
				Msg("alias already registered")
		}

		for _, c := range def.Contracts {
			if previous := f.store.PutContract(c.Name, bean.Instance); previous != nil && previous != bean.Instance {
				f.report.Overrides = append(f.report.Overrides, ContractOverride{
					Contract: c.Name,
					Previous: reflection.TypeName(reflect.TypeOf(previous)),
					Current:  def.Info.Name,
				})
			}
		}

		f.logger.Debug().
			Str("type", def.Info.Name).
			Str("alias", def.Alias).
			Int("contracts", len(def.Contracts)).
			Msg("instance created")

		beans = append(beans, bean)
	}

	return beans
}

func (f *Factory) construct(def *registry.Definition) (value reflect.Value, err error) {
	value, err = reflection.Instantiate(def.Info.Type)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %v", ErrNotConstructible, err)
	}

	ctor, ok := value.Interface().(Constructor)
	if !ok {
		return value, nil
	}

	defer func() {
		if r := recover(); r != nil {
			value = reflect.Value{}
			err = fmt.Errorf("%w: %v", ErrConstructPanic, r)
		}
	}()

	if err := ctor.Construct(); err != nil {
		return reflect.Value{}, err
	}

	return value, nil
}

// WireAll populates the autowired fields of every definition's instance. Each
// definition finds its instance through its alias, exactly as lookups do, so
// a type that lost an alias collision is never wired. Missing dependencies
// leave the field at its zero value and are reported, not fatal.
func (f *Factory) WireAll(defs []*registry.Definition) {
	for _, def := range defs {
		instance, ok := f.store.Get(def.Alias)
		if !ok {
			continue
		}

		target := reflect.ValueOf(instance)
		if target.Kind() != reflect.Pointer || target.Elem().Type() != def.Info.Type {
			continue
		}

		for _, field := range def.Info.Fields {
			f.inject(def, target, field)
		}
	}
}

func (f *Factory) inject(def *registry.Definition, target reflect.Value, field reflection.InjectionPoint) {
	key := field.Key()
	edge := graph.Edge{From: def.Alias, To: key, Key: key, Field: field.Name}

	dep, ok := f.store.Get(key)
	if owner, owned := f.owners[dep]; ok && owned {
		edge.To = owner
	}
	if !ok {
		f.graph.AddEdge(edge)
		f.resolutionFailed(def, field, key, ErrUnresolved)
		return
	}

	if err := reflection.SetField(target, field.Index, dep); err != nil {
		f.graph.AddEdge(edge)
		f.resolutionFailed(def, field, key, err)
		return
	}

	edge.Resolved = true
	f.graph.AddEdge(edge)
}

func (f *Factory) resolutionFailed(def *registry.Definition, field reflection.InjectionPoint, key string, cause error) {
	f.report.Resolution = append(f.report.Resolution, ResolutionError{
		Alias: def.Alias,
		Type:  def.Info.Name,
		Field: field.Name,
		Key:   key,
		Cause: cause,
	})
	f.logger.Debug().Err(cause).
		Str("alias", def.Alias).
		Str("field", field.Name).
		Str("key", key).
		Msg("field left unset")
}

// InitializeAll calls Initialize on every alias-owning bean implementing
// Initializer, in creation order. Failures are reported and do not stop the
// loop.
func (f *Factory) InitializeAll(beans []*Bean) {
	for _, bean := range beans {
		if !bean.OwnsAlias {
			continue
		}

		initializer, ok := bean.Instance.(Initializer)
		if !ok {
			continue
		}

		if err := safeInitialize(initializer); err != nil {
			def := bean.Definition
			f.report.Initialization = append(f.report.Initialization, InitializationError{
				Alias: def.Alias,
				Type:  def.Info.Name,
				Cause: err,
			})
			f.logger.Warn().Err(err).
				Str("type", def.Info.Name).
				Str("alias", def.Alias).
				Msg("initialization failed")
		}
	}
}

func safeInitialize(initializer Initializer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("initialize panicked: %v", r)
		}
	}()
	return initializer.Initialize()
}

// Report returns what the passes recorded so far.
func (f *Factory) Report() Report {
	return f.report
}

// Graph returns the wiring graph.
func (f *Factory) Graph() *graph.WiringGraph {
	return f.graph
}
