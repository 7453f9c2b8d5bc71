package stereo

import (
	"reflect"

	"github.com/junioryono/stereo/internal/container"
	"github.com/junioryono/stereo/internal/reflection"
	"github.com/junioryono/stereo/internal/registry"
)

// Component marks a struct as a generic managed component. Embed it
// anonymously, by value or by pointer; the `name` tag on the embedded field
// sets the alias:
//
//	type Clock struct {
//	    stereo.Component `name:"clock"`
//	}
type Component = reflection.Component

// Service marks a struct as a managed service.
//
//	type BookServiceImpl struct {
//	    stereo.Service `name:"bookService"`
//
//	    bookDao BookDao `autowired:""`
//	}
type Service = reflection.Service

// Repository marks a struct as a managed data-access component.
type Repository = reflection.Repository

// Controller marks a struct as a managed request handler. Dispatchers pick
// up beans carrying this marker.
type Controller = reflection.Controller

// Stereotype identifies one of the stereotype markers.
type Stereotype = reflection.Stereotype

const (
	RepositoryStereotype = reflection.StereotypeRepository
	ServiceStereotype    = reflection.StereotypeService
	ControllerStereotype = reflection.StereotypeController
	ComponentStereotype  = reflection.StereotypeComponent
)

// Struct tags read by the container.
const (
	// NameTag sets the explicit alias on an embedded stereotype marker.
	NameTag = reflection.NameTag

	// AutowiredTag marks a field for injection. `autowired:""` looks the
	// dependency up by the fully-qualified name of the field's type;
	// `autowired:"bookDao"` looks it up by that name.
	AutowiredTag = reflection.AutowiredTag
)

// Constructor may be implemented (on the pointer receiver) by a managed type
// that needs to run code while it is being constructed. Returning an error or
// panicking discards the instance.
type Constructor = container.Constructor

// Initializer may be implemented by a managed type that needs to run code once
// every bean in the container has been wired.
type Initializer = container.Initializer

// StereotypeOrder returns the fixed order in which stereotype names are
// considered when resolving an alias: Repository, Service, Controller,
// Component. The first marker with a non-empty name wins.
func StereotypeOrder() []Stereotype {
	return append([]Stereotype(nil), reflection.ResolutionOrder...)
}

var markerAnalyzer = reflection.New()

// HasStereotype reports whether t (or the type t points to) embeds the given
// stereotype marker.
func HasStereotype(t reflect.Type, s Stereotype) bool {
	if t == nil {
		return false
	}

	info, err := markerAnalyzer.Analyze(t)
	if err != nil {
		return false
	}
	return info.HasStereotype(s)
}

// Stereotypes lists the stereotype markers t carries, in resolution order.
func Stereotypes(t reflect.Type) []Stereotype {
	if t == nil {
		return nil
	}

	info, err := markerAnalyzer.Analyze(t)
	if err != nil {
		return nil
	}
	return info.Stereotypes()
}

// AliasOf computes the alias a container would register t under.
func AliasOf(t reflect.Type) (string, bool) {
	if t == nil {
		return "", false
	}

	info, err := markerAnalyzer.Analyze(t)
	if err != nil || !info.IsManaged() {
		return "", false
	}
	return registry.ResolveAlias(info), true
}
