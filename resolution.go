package stereo

import (
	"reflect"
)

// Bean is a generic helper that looks up name and asserts it as T.
//
//	svc, err := stereo.Bean[*service.BookServiceImpl](c, "bookService")
//	dao, err := stereo.Bean[dao.BookDao](c, stereo.ContractName[dao.BookDao]())
func Bean[T any](c *Container, name string) (T, error) {
	var zero T

	if c == nil {
		return zero, ErrNilContainer
	}

	instance, ok := c.Lookup(name)
	if !ok {
		return zero, NotFoundError{Name: name, Available: c.Names()}
	}

	result, ok := instance.(T)
	if !ok {
		return zero, TypeMismatchError{
			Name:     name,
			Expected: reflect.TypeOf((*T)(nil)).Elem(),
			Actual:   reflect.TypeOf(instance),
		}
	}

	return result, nil
}

// MustBean is like Bean but panics on error.
func MustBean[T any](c *Container, name string) T {
	result, err := Bean[T](c, name)
	if err != nil {
		panic(err)
	}
	return result
}

// Contract looks up the instance stored under the interface I, which is the
// last managed type that declared Implements[I].
func Contract[I any](c *Container) (I, error) {
	return Bean[I](c, ContractName[I]())
}
