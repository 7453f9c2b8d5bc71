package stereo

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/junioryono/stereo/internal/reflection"
	"github.com/junioryono/stereo/internal/registry"
	"github.com/junioryono/stereo/internal/scanner"
)

// Loader produces the type behind a catalog name on demand. It may fail, in
// which case the container skips the name.
type Loader func() (reflect.Type, error)

// TypeOption configures a catalog registration.
type TypeOption interface {
	apply(*typeOptions)
}

type typeOptions struct {
	contracts []reflect.Type
}

type typeOptionFunc func(*typeOptions)

func (f typeOptionFunc) apply(opts *typeOptions) {
	f(opts)
}

// Implements declares that the registered type provides the interface I. The
// container indexes the instance under I's fully-qualified name in addition
// to its alias.
//
//	stereo.Register[BookDaoImpl](stereo.Implements[BookDao]())
func Implements[I any]() TypeOption {
	contract := reflect.TypeOf((*I)(nil)).Elem()
	return typeOptionFunc(func(opts *typeOptions) {
		opts.contracts = append(opts.contracts, contract)
	})
}

// ImplementsType is the reflect.Type form of Implements.
func ImplementsType(contract reflect.Type) TypeOption {
	return typeOptionFunc(func(opts *typeOptions) {
		opts.contracts = append(opts.contracts, contract)
	})
}

// Catalog is the set of types a container can discover. Types are filed under
// their package path; the package path segments form a namespace tree that a
// container scans from its root namespace.
//
// Go cannot enumerate the types of a package at run time, so packages publish
// their types, typically from init:
//
//	func init() {
//	    stereo.Register[BookServiceImpl](stereo.Implements[BookService]())
//	}
type Catalog struct {
	mu       sync.RWMutex
	children map[string]map[string]struct{}
	types    map[string][]string
	entries  map[string]catalogEntry
}

type catalogEntry struct {
	load      Loader
	contracts []reflect.Type
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		children: map[string]map[string]struct{}{"": {}},
		types:    make(map[string][]string),
		entries:  make(map[string]catalogEntry),
	}
}

// Add files t under its fully-qualified name. Pointer types are filed under the
// type they point to. Only named types can be added, and every declared
// contract must be an interface the type (or a pointer to it) implements.
func (c *Catalog) Add(t reflect.Type, opts ...TypeOption) error {
	if t == nil {
		return RegistrationError{Operation: "add", Cause: ErrNilType}
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	name := reflection.TypeName(t)
	if t.Name() == "" || t.PkgPath() == "" {
		return RegistrationError{Type: name, Operation: "add", Cause: ErrUnnamedType}
	}

	options := collectTypeOptions(opts)
	for _, contract := range options.contracts {
		if err := checkContract(t, contract); err != nil {
			return RegistrationError{Type: name, Operation: "add", Cause: err}
		}
	}

	return c.add(name, t.PkgPath(), catalogEntry{
		load:      func() (reflect.Type, error) { return t, nil },
		contracts: options.contracts,
	})
}

// AddLoader files a lazily loaded type under name, which must be a
// fully-qualified type name ("example.com/app/dao.BookDaoImpl"). Contracts are
// checked when the type is loaded.
func (c *Catalog) AddLoader(name string, load Loader, opts ...TypeOption) error {
	if load == nil {
		return RegistrationError{Type: name, Operation: "add-loader", Cause: ErrNilType}
	}

	ns, _, ok := splitTypeName(name)
	if !ok {
		return RegistrationError{Type: name, Operation: "add-loader", Cause: ErrUnnamedType}
	}

	options := collectTypeOptions(opts)
	return c.add(name, ns, catalogEntry{
		load:      load,
		contracts: options.contracts,
	})
}

func (c *Catalog) add(name, ns string, entry catalogEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[name]; ok {
		return RegistrationError{Type: name, Operation: "add", Cause: ErrAlreadyRegistered}
	}

	c.entries[name] = entry
	c.types[ns] = append(c.types[ns], name)
	c.link(ns)
	return nil
}

// link records ns and all of its ancestors in the namespace tree.
func (c *Catalog) link(ns string) {
	parent := ""
	for _, segment := range scanner.Split(ns) {
		child := scanner.Join(parent, segment)
		if c.children[parent] == nil {
			c.children[parent] = make(map[string]struct{})
		}
		c.children[parent][child] = struct{}{}
		if c.children[child] == nil {
			c.children[child] = make(map[string]struct{})
		}
		parent = child
	}
}

// List returns the sub-namespaces and type names directly under ns. The empty
// namespace is the root of the catalog.
func (c *Catalog) List(ns string) (namespaces []string, types []string, ok bool) {
	ns = scanner.Normalize(ns)

	c.mu.RLock()
	defer c.mu.RUnlock()

	kids, ok := c.children[ns]
	if !ok {
		return nil, nil, false
	}

	namespaces = make([]string, 0, len(kids))
	for kid := range kids {
		namespaces = append(namespaces, kid)
	}
	sort.Strings(namespaces)

	types = append([]string(nil), c.types[ns]...)
	return namespaces, types, true
}

// Load resolves a fully-qualified name to its type and declared contracts.
func (c *Catalog) Load(name string) (registry.Entry, error) {
	c.mu.RLock()
	entry, ok := c.entries[name]
	c.mu.RUnlock()

	if !ok {
		return registry.Entry{}, ErrTypeNotFound
	}

	t, err := entry.load()
	if err != nil {
		return registry.Entry{}, err
	}
	if t == nil {
		return registry.Entry{}, ErrNilType
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	for _, contract := range entry.contracts {
		if err := checkContract(t, contract); err != nil {
			return registry.Entry{}, err
		}
	}

	return registry.Entry{
		Type:      t,
		Contracts: append([]reflect.Type(nil), entry.contracts...),
	}, nil
}

// Names returns every registered type name, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered types.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RegisterIn adds T to cat.
func RegisterIn[T any](cat *Catalog, opts ...TypeOption) error {
	return cat.Add(reflect.TypeOf((*T)(nil)).Elem(), opts...)
}

// Register adds T to the default catalog. It panics if T cannot be added,
// since registration normally happens from init.
func Register[T any](opts ...TypeOption) {
	if err := RegisterIn[T](DefaultCatalog(), opts...); err != nil {
		panic(err)
	}
}

// TypeName returns the fully-qualified name the container uses for t: the
// package path and the type name joined by a dot. Pointer types are named
// after the type they point to.
func TypeName(t reflect.Type) string {
	return reflection.TypeName(t)
}

// ContractName returns the key an instance declaring Implements[I] is stored
// under.
func ContractName[I any]() string {
	return reflection.TypeName(reflect.TypeOf((*I)(nil)).Elem())
}

func collectTypeOptions(opts []TypeOption) *typeOptions {
	options := &typeOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(options)
		}
	}
	return options
}

func checkContract(t, contract reflect.Type) error {
	if contract == nil {
		return ErrNilType
	}

	if contract.Kind() != reflect.Interface {
		return fmt.Errorf("%w: %s", ErrNotInterface, reflection.TypeName(contract))
	}

	if !t.Implements(contract) && !reflect.PointerTo(t).Implements(contract) {
		return fmt.Errorf("%w: %s does not implement %s",
			ErrNotImplemented, reflection.TypeName(t), reflection.TypeName(contract))
	}

	return nil
}

// splitTypeName splits "example.com/app/dao.BookDao" into its namespace and
// simple name. Package paths may contain dots, type names never do. Type
// arguments ("dao.Box[example.com/app.Repo]") stay with the simple name.
func splitTypeName(name string) (ns, simple string, ok bool) {
	base := name
	if j := strings.IndexByte(name, '['); j >= 0 {
		if !strings.HasSuffix(name, "]") {
			return "", "", false
		}
		base = name[:j]
	}

	i := strings.LastIndex(base, ".")
	if i <= 0 || i == len(base)-1 || strings.LastIndex(base, "/") > i {
		return "", "", false
	}
	return name[:i], name[i+1:], true
}
