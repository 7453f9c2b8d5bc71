package reflection

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Stereotype markers. Each is embedded anonymously in a struct, by value or by
// pointer, to hand the type over to the container; the `name` tag on the
// embedded field is the explicit registration name.
type Component struct{}
type Service struct{}
type Repository struct{}
type Controller struct{}

const (
	// NameTag carries the explicit registration name on a stereotype marker.
	NameTag = "name"

	// AutowiredTag marks a field for injection. A non-empty value names the
	// dependency to look up; an empty value looks it up by the field's type.
	AutowiredTag = "autowired"
)

var (
	componentType  = reflect.TypeOf(Component{})
	serviceType    = reflect.TypeOf(Service{})
	repositoryType = reflect.TypeOf(Repository{})
	controllerType = reflect.TypeOf(Controller{})
)

// Analyzer reads stereotype markers and injection points from struct types.
// Results are cached per type.
type Analyzer struct {
	mu    sync.RWMutex
	cache map[reflect.Type]*TypeInfo
}

// TypeInfo is the analyzed, immutable description of one discoverable type.
type TypeInfo struct {
	Type       reflect.Type // always the struct (or named non-struct) type, never a pointer
	Name       string       // fully-qualified name
	SimpleName string
	Markers    []Marker
	Fields     []InjectionPoint
}

// Marker is one stereotype marker found on a type.
type Marker struct {
	Stereotype Stereotype
	Name       string
	Field      string
}

// InjectionPoint describes a field carrying the autowired tag.
type InjectionPoint struct {
	Name     string
	Type     reflect.Type
	Index    int
	Target   string // explicit dependency name, empty to resolve by type
	Exported bool
}

// Key returns the Instance Store key this field resolves against.
func (p InjectionPoint) Key() string {
	if p.Target != "" {
		return p.Target
	}
	return TypeName(p.Type)
}

// New creates a new Analyzer.
func New() *Analyzer {
	return &Analyzer{
		cache: make(map[reflect.Type]*TypeInfo),
	}
}

// Analyze inspects t (or the type t points to) for markers and injection points.
func (a *Analyzer) Analyze(t reflect.Type) (*TypeInfo, error) {
	if t == nil {
		return nil, fmt.Errorf("type cannot be nil")
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Name() == "" {
		return nil, fmt.Errorf("type %s is not a named type", t)
	}

	a.mu.RLock()
	if cached, ok := a.cache[t]; ok {
		a.mu.RUnlock()
		return cached, nil
	}
	a.mu.RUnlock()

	info := &TypeInfo{
		Type:       t,
		Name:       TypeName(t),
		SimpleName: simpleName(t),
	}

	if t.Kind() == reflect.Struct {
		a.analyzeStruct(info)
	}

	a.mu.Lock()
	if cached, ok := a.cache[t]; ok {
		a.mu.Unlock()
		return cached, nil
	}
	a.cache[t] = info
	a.mu.Unlock()

	return info, nil
}

func (a *Analyzer) analyzeStruct(info *TypeInfo) {
	t := info.Type
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Anonymous {
			if s, ok := stereotypeOf(markerType(field.Type)); ok {
				info.Markers = append(info.Markers, Marker{
					Stereotype: s,
					Name:       strings.TrimSpace(field.Tag.Get(NameTag)),
					Field:      field.Name,
				})
				continue
			}
		}

		target, ok := field.Tag.Lookup(AutowiredTag)
		if !ok {
			continue
		}

		info.Fields = append(info.Fields, InjectionPoint{
			Name:     field.Name,
			Type:     field.Type,
			Index:    i,
			Target:   strings.TrimSpace(target),
			Exported: field.IsExported(),
		})
	}
}

// IsManaged reports whether the type carries at least one stereotype marker.
func (ti *TypeInfo) IsManaged() bool {
	return len(ti.Markers) > 0
}

// Marker returns the marker of the given stereotype, if present.
func (ti *TypeInfo) Marker(s Stereotype) (Marker, bool) {
	for _, m := range ti.Markers {
		if m.Stereotype == s {
			return m, true
		}
	}
	return Marker{}, false
}

// HasStereotype reports whether the type carries the given stereotype.
func (ti *TypeInfo) HasStereotype(s Stereotype) bool {
	_, ok := ti.Marker(s)
	return ok
}

// Stereotypes lists the stereotypes present on the type in resolution order.
func (ti *TypeInfo) Stereotypes() []Stereotype {
	var out []Stereotype
	for _, s := range ResolutionOrder {
		if ti.HasStereotype(s) {
			out = append(out, s)
		}
	}
	return out
}

// TypeName returns the fully-qualified name of t: its package path and name
// joined by a dot. Pointer types are named after the type they point to and
// unnamed types fall back to their Go syntax.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	for t.Kind() == reflect.Pointer && t.Name() == "" {
		t = t.Elem()
	}

	if t.Name() == "" {
		return t.String()
	}

	if t.PkgPath() == "" {
		return t.Name()
	}

	return t.PkgPath() + "." + t.Name()
}

// simpleName is t's name without type arguments: "Box" for Box[app.Repo].
func simpleName(t reflect.Type) string {
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}

// LowerFirst lower-cases the first rune of s.
func LowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// markerType unwraps a marker embedded by pointer.
func markerType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}

func stereotypeOf(t reflect.Type) (Stereotype, bool) {
	switch t {
	case repositoryType:
		return StereotypeRepository, true
	case serviceType:
		return StereotypeService, true
	case controllerType:
		return StereotypeController, true
	case componentType:
		return StereotypeComponent, true
	}
	return 0, false
}
