// Package bench provides the timing core of fieldbench: an ordered registry
// of named operations, a timing engine that runs each operation a fixed
// number of times under its own timer, and a session that drives groups of
// registries across an iteration plan.
//
// # Example
//
//	candidates := bench.NewRegistry()
//	candidates.MustRegister("Direct set", func() { p.name = "John" })
//
//	measurements, err := bench.Measure(candidates, 20000)
//	if err != nil {
//	    return err
//	}
//
// All measurement is strictly sequential. Nothing in this package starts a
// goroutine.
package bench

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateName is returned when a name is registered twice in the same registry.
	ErrDuplicateName = errors.New("duplicate operation name")

	// ErrInvalidOperation is returned for an empty name or a nil operation.
	ErrInvalidOperation = errors.New("invalid operation")
)

// Operation is a zero-argument unit of work. Its return value, if any, is
// never observed by the harness.
type Operation func()

type entry struct {
	name string
	op   Operation
}

// Registry is an ordered mapping from name to Operation.
//
// Iteration yields entries in insertion order, which becomes the row order of
// the report. Names are unique within one registry and entries are never
// removed.
type Registry struct {
	entries []entry
	index   map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]int),
	}
}

// Register appends op under name.
//
// It fails with ErrDuplicateName if name is already registered, leaving the
// existing entry in place.
func (r *Registry) Register(name string, op Operation) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidOperation)
	}
	if op == nil {
		return fmt.Errorf("%w: operation %q is nil", ErrInvalidOperation, name)
	}
	if _, exists := r.index[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	r.index[name] = len(r.entries)
	r.entries = append(r.entries, entry{name: name, op: op})
	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// statically defined benchmark groups.
func (r *Registry) MustRegister(name string, op Operation) {
	if err := r.Register(name, op); err != nil {
		panic(err)
	}
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Names returns the registered names in insertion order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

// Lookup returns the operation registered under name.
func (r *Registry) Lookup(name string) (Operation, bool) {
	if r == nil {
		return nil, false
	}
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.entries[i].op, true
}

// Each calls fn for every entry in insertion order and stops at the first
// error, which it returns.
func (r *Registry) Each(fn func(name string, op Operation) error) error {
	if r == nil {
		return nil
	}
	for _, e := range r.entries {
		if err := fn(e.name, e.op); err != nil {
			return err
		}
	}
	return nil
}
