package mirror

import "reflect"

// Fresh returns a pointer to a new zeroed value of the type T points to.
// T must be a pointer type; for any other T a pointer to a zero T is returned.
func Fresh[T any]() any {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return reflect.New(typ).Interface()
}
