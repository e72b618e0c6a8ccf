// Package access reads and writes struct fields by name, including
// unexported ones, through several lookup strategies that trade setup cost
// for per-call cost.
//
// Objects are always passed as a pointer to a struct. Only fields declared
// directly on the struct are reachable; promoted fields of embedded structs
// are not.
package access

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

var (
	// ErrNotStructPointer is returned when the object is not a non-nil pointer to a struct.
	ErrNotStructPointer = errors.New("object must be a non-nil pointer to a struct")

	// ErrFieldNotFound is returned when the struct has no such direct field.
	ErrFieldNotFound = errors.New("field not found")

	// ErrFieldType is returned when the field's type differs from the requested type.
	ErrFieldType = errors.New("field type mismatch")
)

type fieldKey struct {
	typ  reflect.Type
	name string
}

type fieldInfo struct {
	offset uintptr
	typ    reflect.Type
}

// fields caches lookups for FieldValue and SetFieldValue.
var fields sync.Map // fieldKey -> fieldInfo

// resolve finds a direct field of the struct type t.
func resolve(t reflect.Type, name string) (fieldInfo, error) {
	sf, ok := t.FieldByName(name)
	if !ok || len(sf.Index) != 1 {
		return fieldInfo{}, fmt.Errorf("%w: %s.%s", ErrFieldNotFound, t, name)
	}
	return fieldInfo{offset: sf.Offset, typ: sf.Type}, nil
}

// base returns the struct type and address behind obj.
func base(obj any) (reflect.Type, unsafe.Pointer, error) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("%w, got %T", ErrNotStructPointer, obj)
	}
	return v.Type().Elem(), v.UnsafePointer(), nil
}

func checkType[T any](info fieldInfo, name string) error {
	if want := reflect.TypeOf((*T)(nil)).Elem(); info.typ != want {
		return fmt.Errorf("%w: field %s is %s, not %s", ErrFieldType, name, info.typ, want)
	}
	return nil
}

// cached looks the field up in the shared cache, resolving and storing it on
// a miss.
func cached(t reflect.Type, name string) (fieldInfo, error) {
	key := fieldKey{typ: t, name: name}
	if info, ok := fields.Load(key); ok {
		return info.(fieldInfo), nil
	}

	info, err := resolve(t, name)
	if err != nil {
		return fieldInfo{}, err
	}
	actual, _ := fields.LoadOrStore(key, info)
	return actual.(fieldInfo), nil
}

// FieldValue returns the value of the named field of obj.
func FieldValue[T any](obj any, name string) (T, error) {
	var zero T

	t, p, err := base(obj)
	if err != nil {
		return zero, err
	}
	info, err := cached(t, name)
	if err != nil {
		return zero, err
	}
	if err := checkType[T](info, name); err != nil {
		return zero, err
	}
	return *(*T)(unsafe.Add(p, info.offset)), nil
}

// SetFieldValue sets the named field of obj to value.
func SetFieldValue[T any](obj any, name string, value T) error {
	t, p, err := base(obj)
	if err != nil {
		return err
	}
	info, err := cached(t, name)
	if err != nil {
		return err
	}
	if err := checkType[T](info, name); err != nil {
		return err
	}
	*(*T)(unsafe.Add(p, info.offset)) = value
	return nil
}

// Writable returns an addressable, settable reflect.Value for the named
// field of obj, even when the field is unexported.
func Writable(obj any, name string) (reflect.Value, error) {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w, got %T", ErrNotStructPointer, obj)
	}
	f := v.Elem().FieldByName(name)
	if !f.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: %s.%s", ErrFieldNotFound, v.Type().Elem(), name)
	}
	return reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem(), nil
}
