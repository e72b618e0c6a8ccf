package subjects

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/wesleyorama2/fieldbench/internal/access"
	"github.com/wesleyorama2/fieldbench/internal/bench"
)

// ErrUnknownGroup is returned by Build for a name not in the catalogue.
var ErrUnknownGroup = errors.New("unknown benchmark group")

// Definition describes a group that can be built.
type Definition struct {
	// Key selects the group on the command line and in config files.
	Key string
	// Title is the heading printed in the report.
	Title string

	build func(target *person) bench.Group
}

// Build returns a fresh group with its own target object.
func (d Definition) Build() bench.Group {
	g := d.build(&person{age: 30})
	g.Name = d.Title
	return g
}

var catalogue = []Definition{
	{Key: "field-access", Title: "Benchmark for Field Access", build: fieldAccess},
	{Key: "field-set", Title: "Benchmark for Field Set Strategies", build: fieldSet},
}

// Catalogue returns every known group in report order.
func Catalogue() []Definition {
	out := make([]Definition, len(catalogue))
	copy(out, catalogue)
	return out
}

// Keys returns the key of every known group in report order.
func Keys() []string {
	keys := make([]string, len(catalogue))
	for i, d := range catalogue {
		keys[i] = d.Key
	}
	return keys
}

// Build builds the named groups in the order given. With no names, every
// group in the catalogue is built.
func Build(names ...string) ([]bench.Group, error) {
	if len(names) == 0 {
		names = Keys()
	}

	groups := make([]bench.Group, 0, len(names))
	for _, name := range names {
		d, ok := lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
		}
		groups = append(groups, d.Build())
	}
	return groups, nil
}

func lookup(key string) (Definition, bool) {
	for _, d := range catalogue {
		if d.Key == key {
			return d, true
		}
	}
	return Definition{}, false
}

// must turns an accessor error into a fault of the running operation.
func must(err error) {
	if err != nil {
		panic(err)
	}
}

func fieldAccess(target *person) bench.Group {
	var dynamic any = target

	var (
		field  reflect.Value
		getter func(*person) string
		setter func(*person, string)
	)

	setup := bench.NewRegistry()
	setup.MustRegister("Init info", func() {
		var err error
		field, err = access.Writable(target, "name")
		must(err)
		getter, err = access.Getter[person, string]("name")
		must(err)
		setter, err = access.Setter[person, string]("name")
		must(err)
	})

	candidates := bench.NewRegistry()
	candidates.MustRegister("Direct set", func() {
		target.name = newName
	})
	candidates.MustRegister("Direct get", func() {
		sinkString = target.name
	})
	candidates.MustRegister("dynamic set", func() {
		dynamic.(named).setName(newName)
	})
	candidates.MustRegister("dynamic get", func() {
		sinkString = dynamic.(named).getName()
	})
	candidates.MustRegister("Delegate get", func() {
		v, err := access.FieldValue[string](target, "name")
		must(err)
		sinkString = v
	})
	candidates.MustRegister("Delegate set", func() {
		must(access.SetFieldValue(target, "name", newName))
	})
	candidates.MustRegister("Cached Delegate get", func() {
		sinkString = getter(target)
	})
	candidates.MustRegister("Cached Delegate set", func() {
		setter(target, newName)
	})
	candidates.MustRegister("Reflection set", func() {
		f, err := access.Writable(target, "name")
		must(err)
		f.SetString(newName)
	})
	candidates.MustRegister("Reflection get", func() {
		sinkAny = reflect.ValueOf(target).Elem().FieldByName("name").String()
	})
	candidates.MustRegister("Cached Reflection set", func() {
		field.SetString(newName)
	})
	candidates.MustRegister("Cached Reflection get", func() {
		sinkAny = field.String()
	})

	return bench.Group{Init: setup, Candidates: candidates}
}

func fieldSet(target *person) bench.Group {
	var (
		field  reflect.Value
		setter func(*person, string)
	)

	// Init resolves the cached handles and warms every by-name cache, so the
	// measured calls only see hits.
	setup := bench.NewRegistry()
	setup.MustRegister("Init info", func() {
		var err error
		field, err = access.Writable(target, "name")
		must(err)
		setter, err = access.Setter[person, string]("name")
		must(err)
		must(access.SetFieldValue(target, "name", newName))
		must(access.SetFieldValueGetOrAdd(target, "name", newName))
		must(access.SetFieldValueLocked(target, "name", newName))
	})

	candidates := bench.NewRegistry()
	candidates.MustRegister("Direct set", func() {
		target.name = newName
	})
	candidates.MustRegister("Reflection lookup then set", func() {
		must(access.SetFieldValueUncached(target, "name", newName))
	})
	candidates.MustRegister("Cached reflection set", func() {
		field.SetString(newName)
	})
	candidates.MustRegister("SetFieldValue", func() {
		must(access.SetFieldValue(target, "name", newName))
	})
	candidates.MustRegister("SetFieldValue (GetOrAdd)", func() {
		must(access.SetFieldValueGetOrAdd(target, "name", newName))
	})
	candidates.MustRegister("SetFieldValue (locked cache)", func() {
		must(access.SetFieldValueLocked(target, "name", newName))
	})
	candidates.MustRegister("Cached setter", func() {
		setter(target, newName)
	})

	return bench.Group{Init: setup, Candidates: candidates}
}
