package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/junioryono/stereo/internal/reflection"
)

var (
	ErrRegistrySealed = errors.New("registry is sealed")
	ErrTypeNotFound   = errors.New("type not found")
)

// Entry is what a Loader yields for one type name.
type Entry struct {
	Type      reflect.Type
	Contracts []reflect.Type // declared interfaces, in declaration order
}

// Loader resolves a fully-qualified type name to its Entry.
type Loader interface {
	Load(name string) (Entry, error)
}

// LoadError indicates a scanned name could not be loaded as a type.
type LoadError struct {
	Name  string
	Cause error
}

func (e LoadError) Error() string {
	return fmt.Sprintf("failed to load type %q: %v", e.Name, e.Cause)
}

func (e LoadError) Unwrap() error {
	return e.Cause
}

// Contract is a capability a managed type declares.
type Contract struct {
	Name string
	Type reflect.Type
}

// Definition is one managed type: a type carrying at least one stereotype.
type Definition struct {
	Info      *reflection.TypeInfo
	Contracts []Contract
	Alias     string
}

// Registry holds the ordered, append-only Managed Type Set.
type Registry struct {
	mu       sync.RWMutex
	analyzer *reflection.Analyzer
	defs     []*Definition
	index    map[reflect.Type]*Definition
	sealed   bool
}

// New creates an empty Registry.
func New(analyzer *reflection.Analyzer) *Registry {
	if analyzer == nil {
		analyzer = reflection.New()
	}

	return &Registry{
		analyzer: analyzer,
		index:    make(map[reflect.Type]*Definition),
	}
}

// Register loads every name through loader and keeps the ones carrying a
// stereotype marker. Failures are per entry: the returned errors are LoadErrors
// and never stop the loop. Unmarked types are skipped silently.
func (r *Registry) Register(names []string, loader Loader) ([]*Definition, []error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return nil, []error{ErrRegistrySealed}
	}

	var (
		added []*Definition
		errs  []error
	)

	for _, name := range names {
		entry, err := loader.Load(name)
		if err != nil {
			errs = append(errs, LoadError{Name: name, Cause: err})
			continue
		}

		info, err := r.analyzer.Analyze(entry.Type)
		if err != nil {
			errs = append(errs, LoadError{Name: name, Cause: err})
			continue
		}

		if !info.IsManaged() {
			continue
		}

		if _, ok := r.index[info.Type]; ok {
			continue
		}

		def := &Definition{
			Info:  info,
			Alias: ResolveAlias(info),
		}
		for _, c := range entry.Contracts {
			def.Contracts = append(def.Contracts, Contract{
				Name: reflection.TypeName(c),
				Type: c,
			})
		}

		r.defs = append(r.defs, def)
		r.index[info.Type] = def
		added = append(added, def)
	}

	return added, errs
}

// Seal closes the registry for further registration.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Definitions returns the managed types in registration order.
func (r *Registry) Definitions() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Len returns the number of managed types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// ResolveAlias computes the alias of a managed type: the first explicit name
// found walking reflection.ResolutionOrder, or the simple type name with its
// first character lower-cased.
func ResolveAlias(info *reflection.TypeInfo) string {
	for _, s := range reflection.ResolutionOrder {
		if m, ok := info.Marker(s); ok && m.Name != "" {
			return m.Name
		}
	}
	return reflection.LowerFirst(info.SimpleName)
}
