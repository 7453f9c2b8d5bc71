// Package digbridge hands the beans of a stereo container to a go.uber.org/dig
// container, so dig constructors can depend on them.
package digbridge

import (
	"fmt"
	"reflect"

	"go.uber.org/dig"

	"github.com/junioryono/stereo"
)

// Provider is satisfied by *dig.Container and *dig.Scope.
type Provider interface {
	Provide(constructor any, opts ...dig.ProvideOption) error
}

// Export provides every bean of c to p:
//
//   - the bean's pointer type, unnamed and under dig.Name(alias);
//   - each declared contract interface, unnamed, bound to the instance c holds
//     under that contract's key.
//
// A bean that lost an alias collision is not provided by type or alias, but a
// contract it still holds is.
func Export(c *stereo.Container, p Provider) error {
	if c == nil {
		return stereo.ErrNilContainer
	}

	contracts := make(map[reflect.Type]struct{})
	for _, bean := range c.Beans() {
		if bean.OwnsAlias {
			if err := provide(p, bean.Type, bean.Instance); err != nil {
				return fmt.Errorf("export %s: %w", bean.Alias, err)
			}
			if err := provide(p, bean.Type, bean.Instance, dig.Name(bean.Alias)); err != nil {
				return fmt.Errorf("export %s: %w", bean.Alias, err)
			}
		}

		for _, contract := range bean.Contracts {
			if _, done := contracts[contract]; done {
				continue
			}
			contracts[contract] = struct{}{}

			holder, ok := c.Lookup(stereo.TypeName(contract))
			if !ok {
				continue
			}
			if err := provide(p, contract, holder); err != nil {
				return fmt.Errorf("export %s: %w", stereo.TypeName(contract), err)
			}
		}
	}

	return nil
}

// New creates a dig container holding every bean of c.
func New(c *stereo.Container, opts ...dig.Option) (*dig.Container, error) {
	dc := dig.New(opts...)
	if err := Export(c, dc); err != nil {
		return nil, err
	}
	return dc, nil
}

// provide registers a constructor of type func() t returning instance.
func provide(p Provider, t reflect.Type, instance any, opts ...dig.ProvideOption) error {
	value := reflect.ValueOf(instance)
	if !value.Type().AssignableTo(t) {
		return fmt.Errorf("%T is not assignable to %s", instance, t)
	}

	out := reflect.New(t).Elem()
	out.Set(value)

	ctor := reflect.MakeFunc(
		reflect.FuncOf(nil, []reflect.Type{t}, false),
		func([]reflect.Value) []reflect.Value { return []reflect.Value{out} },
	)
	return p.Provide(ctor.Interface(), opts...)
}
