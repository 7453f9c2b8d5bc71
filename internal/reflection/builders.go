package reflection

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Instantiate allocates a zero value of t and returns a pointer to it. Only
// struct types have a no-argument construction path.
func Instantiate(t reflect.Type) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, fmt.Errorf("type cannot be nil")
	}

	if t.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%s is a %s, only struct types can be instantiated", TypeName(t), t.Kind())
	}

	return reflect.New(t), nil
}

// SetField assigns value to the field at index of the struct target points to.
// Unexported fields are written through an unsafe alias of the field's address.
func SetField(target reflect.Value, index int, value any) error {
	if target.Kind() != reflect.Pointer || target.IsNil() || target.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target must be a non-nil pointer to struct, got %s", target.Type())
	}

	structValue := target.Elem()
	if index < 0 || index >= structValue.NumField() {
		return fmt.Errorf("field index %d out of range for %s", index, structValue.Type())
	}

	field := structValue.Field(index)
	fieldType := field.Type()

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to field %s", structValue.Type().Field(index).Name)
	}

	if !val.Type().AssignableTo(fieldType) {
		return fmt.Errorf("%s is not assignable to field %s of type %s",
			val.Type(), structValue.Type().Field(index).Name, fieldType)
	}

	if !field.CanSet() {
		field = reflect.NewAt(fieldType, unsafe.Pointer(field.UnsafeAddr())).Elem()
	}

	field.Set(val)
	return nil
}
