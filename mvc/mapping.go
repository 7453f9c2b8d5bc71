// Package mvc dispatches HTTP requests to methods of Controller beans held by
// a stereo container.
//
// A controller embeds stereo.Controller, embeds RequestMapping with a path
// prefix, and lists its handler methods through Mapper:
//
//	type UserController struct {
//	    stereo.Controller
//	    mvc.RequestMapping `path:"/user"`
//
//	    userService service.UserService `autowired:""`
//	}
//
//	func (c *UserController) RequestMappings() []mvc.Mapping {
//	    return []mvc.Mapping{
//	        {Path: "/query", Method: "Query", Params: []string{"name", "age"}},
//	    }
//	}
//
//	func (c *UserController) Query(w http.ResponseWriter, name string, age int) error
//
// GET and POST requests to the same path reach the same method.
package mvc

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// PathTag carries the path prefix on an embedded RequestMapping.
const PathTag = "path"

// RequestMapping is embedded in a controller to declare its path prefix.
type RequestMapping struct{}

// Mapping binds a path, relative to the controller prefix, to a method.
type Mapping struct {
	Path   string
	Method string

	// Params names the query parameters bound, in order, to the method's
	// parameters other than http.ResponseWriter and *http.Request.
	Params []string
}

// Mapper is implemented by controllers exposing handler methods.
type Mapper interface {
	RequestMappings() []Mapping
}

var (
	ErrNoSuchMethod     = errors.New("controller has no such method")
	ErrBadSignature     = errors.New("handler method has an unsupported signature")
	ErrDuplicateRoute   = errors.New("route already mapped")
	ErrParamCount       = errors.New("mapping params do not match method parameters")
	ErrUnsupportedParam = errors.New("unsupported parameter kind")
)

var requestMappingType = reflect.TypeOf(RequestMapping{})

// ControllerPath returns the prefix declared by an embedded RequestMapping on
// t, or "" when there is none.
func ControllerPath(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return ""
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && (field.Type == requestMappingType || field.Type == reflect.PointerTo(requestMappingType)) {
			return field.Tag.Get(PathTag)
		}
	}
	return ""
}

// JoinPath concatenates a controller prefix and a method path the way the
// routes are registered: "/user" + "/query" is "/user/query".
func JoinPath(prefix, suffix string) string {
	path := strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(suffix, "/")
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	return path
}

func (m Mapping) String() string {
	return fmt.Sprintf("%s -> %s(%s)", m.Path, m.Method, strings.Join(m.Params, ", "))
}
