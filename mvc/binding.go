package mvc

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
)

var (
	responseWriterType = reflect.TypeOf((*http.ResponseWriter)(nil)).Elem()
	requestType        = reflect.TypeOf((*http.Request)(nil))
	errorType          = reflect.TypeOf((*error)(nil)).Elem()
)

type argKind int

const (
	argWriter argKind = iota
	argRequest
	argQuery
)

type argBinding struct {
	kind  argKind
	name  string
	param reflect.Type
}

// handler is a controller method with its arguments resolved up front.
type handler struct {
	method   reflect.Value
	name     string
	args     []argBinding
	hasError bool
}

func newHandler(instance any, m Mapping) (*handler, error) {
	method := reflect.ValueOf(instance).MethodByName(m.Method)
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: %T.%s", ErrNoSuchMethod, instance, m.Method)
	}

	mt := method.Type()

	h := &handler{method: method, name: m.Method}
	switch {
	case mt.NumOut() == 0:
	case mt.NumOut() == 1 && mt.Out(0) == errorType:
		h.hasError = true
	default:
		return nil, fmt.Errorf("%w: %T.%s must return nothing or error", ErrBadSignature, instance, m.Method)
	}

	params := m.Params
	for i := 0; i < mt.NumIn(); i++ {
		in := mt.In(i)
		switch {
		case in == responseWriterType:
			h.args = append(h.args, argBinding{kind: argWriter})
		case in == requestType:
			h.args = append(h.args, argBinding{kind: argRequest})
		default:
			if !bindable(in) {
				return nil, fmt.Errorf("%w: %T.%s parameter %d is %s", ErrUnsupportedParam, instance, m.Method, i, in)
			}
			if len(params) == 0 {
				return nil, fmt.Errorf("%w: %T.%s", ErrParamCount, instance, m.Method)
			}
			h.args = append(h.args, argBinding{kind: argQuery, name: params[0], param: in})
			params = params[1:]
		}
	}

	if len(params) > 0 {
		return nil, fmt.Errorf("%w: %T.%s", ErrParamCount, instance, m.Method)
	}

	return h, nil
}

func bindable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// ParamError reports a query parameter that could not be converted.
type ParamError struct {
	Name  string
	Value string
	Cause error
}

func (e ParamError) Error() string {
	return fmt.Sprintf("parameter %q: cannot use %q: %v", e.Name, e.Value, e.Cause)
}

func (e ParamError) Unwrap() error {
	return e.Cause
}

// bind builds the argument list for one request. Absent query parameters bind
// the zero value.
func (h *handler) bind(w http.ResponseWriter, r *http.Request) ([]reflect.Value, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	args := make([]reflect.Value, len(h.args))
	for i, arg := range h.args {
		switch arg.kind {
		case argWriter:
			args[i] = reflect.ValueOf(w)
		case argRequest:
			args[i] = reflect.ValueOf(r)
		default:
			v, err := convert(r.Form.Get(arg.name), arg.param)
			if err != nil {
				return nil, ParamError{Name: arg.name, Value: r.Form.Get(arg.name), Cause: err}
			}
			args[i] = v
		}
	}
	return args, nil
}

func convert(text string, t reflect.Type) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	if text == "" {
		return v, nil
	}

	switch t.Kind() {
	case reflect.String:
		v.SetString(text)
	case reflect.Bool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return v, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(text, 10, t.Bits())
		if err != nil {
			return v, err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(text, 10, t.Bits())
		if err != nil {
			return v, err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(text, t.Bits())
		if err != nil {
			return v, err
		}
		v.SetFloat(f)
	default:
		return v, ErrUnsupportedParam
	}
	return v, nil
}

func (h *handler) call(args []reflect.Value) error {
	out := h.method.Call(args)
	if h.hasError && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}
