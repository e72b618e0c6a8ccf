package access

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// lazyField resolves a field at most once.
type lazyField struct {
	once sync.Once
	t    reflect.Type
	name string
	info fieldInfo
	err  error
}

func (l *lazyField) get() (fieldInfo, error) {
	l.once.Do(func() {
		l.info, l.err = resolve(l.t, l.name)
	})
	return l.info, l.err
}

var getOrAddFields sync.Map // fieldKey -> *lazyField

// SetFieldValueGetOrAdd sets a field through a cache that is always queried
// with a get-or-add call. Every call allocates a candidate entry, even on a
// hit, which is the cost SetFieldValue avoids by loading first.
func SetFieldValueGetOrAdd[T any](obj any, name string, value T) error {
	t, p, err := base(obj)
	if err != nil {
		return err
	}

	entry, _ := getOrAddFields.LoadOrStore(
		fieldKey{typ: t, name: name},
		&lazyField{t: t, name: name},
	)
	info, err := entry.(*lazyField).get()
	if err != nil {
		return err
	}
	if err := checkType[T](info, name); err != nil {
		return err
	}
	*(*T)(unsafe.Add(p, info.offset)) = value
	return nil
}

var (
	lockedMu     sync.RWMutex
	lockedFields = make(map[fieldKey]fieldInfo)
)

// SetFieldValueLocked sets a field through a plain map guarded by a
// read-write mutex.
func SetFieldValueLocked[T any](obj any, name string, value T) error {
	t, p, err := base(obj)
	if err != nil {
		return err
	}

	key := fieldKey{typ: t, name: name}
	lockedMu.RLock()
	info, ok := lockedFields[key]
	lockedMu.RUnlock()

	if !ok {
		info, err = resolve(t, name)
		if err != nil {
			return err
		}
		lockedMu.Lock()
		lockedFields[key] = info
		lockedMu.Unlock()
	}

	if err := checkType[T](info, name); err != nil {
		return err
	}
	*(*T)(unsafe.Add(p, info.offset)) = value
	return nil
}

// SetFieldValueUncached looks the field up through reflection on every call.
func SetFieldValueUncached[T any](obj any, name string, value T) error {
	f, err := Writable(obj, name)
	if err != nil {
		return err
	}
	v := reflect.ValueOf(&value).Elem()
	if f.Type() != v.Type() {
		return fmt.Errorf("%w: field %s is %s, not %s", ErrFieldType, name, f.Type(), v.Type())
	}
	f.Set(v)
	return nil
}

// Getter resolves the named field of struct type O once and returns a
// function reading it directly.
func Getter[O, T any](name string) (func(*O) T, error) {
	info, err := typed[O, T](name)
	if err != nil {
		return nil, err
	}
	offset := info.offset
	return func(obj *O) T {
		return *(*T)(unsafe.Add(unsafe.Pointer(obj), offset))
	}, nil
}

// Setter resolves the named field of struct type O once and returns a
// function writing it directly.
func Setter[O, T any](name string) (func(*O, T), error) {
	info, err := typed[O, T](name)
	if err != nil {
		return nil, err
	}
	offset := info.offset
	return func(obj *O, value T) {
		*(*T)(unsafe.Add(unsafe.Pointer(obj), offset)) = value
	}, nil
}

func typed[O, T any](name string) (fieldInfo, error) {
	t := reflect.TypeOf((*O)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return fieldInfo{}, fmt.Errorf("%w, got %s", ErrNotStructPointer, t)
	}
	info, err := resolve(t, name)
	if err != nil {
		return fieldInfo{}, err
	}
	if err := checkType[T](info, name); err != nil {
		return fieldInfo{}, err
	}
	return info, nil
}
