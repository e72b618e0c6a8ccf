// Package subjects defines the benchmark groups fieldbench ships with. Every
// group measures one logical operation, reading or writing the unexported
// name field of a person, implemented in several interchangeable ways.
package subjects

type person struct {
	age  int
	name string
}

func (p *person) setName(name string) { p.name = name }

func (p *person) getName() string { return p.name }

// named is the method set used by the dynamic candidates. Those candidates
// hold the person as an any and assert it to named on every call.
type named interface {
	setName(string)
	getName() string
}

// Reads are stored here so the compiler cannot discard them.
var (
	sinkString string
	sinkAny    any
)

const newName = "John"
