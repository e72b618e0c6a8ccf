package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/wesleyorama2/fieldbench/internal/bench"
)

// Document is the JSON form of a run.
type Document struct {
	Name   string         `json:"name,omitempty"`
	Groups []*GroupResult `json:"groups"`
}

// GroupResult holds every section of one group.
type GroupResult struct {
	Name           string         `json:"name"`
	Initialization []Row          `json:"initialization"`
	Runs           []IterationRun `json:"runs"`
}

// IterationRun holds the rows measured at one iteration count.
type IterationRun struct {
	Iterations int   `json:"iterations"`
	Results    []Row `json:"results"`
}

// Row is one measurement.
type Row struct {
	Name      string `json:"name"`
	ElapsedMs int64  `json:"elapsedMs"`
	ElapsedNs int64  `json:"elapsedNs"`
}

// JSONEmitter collects results and writes a single indented document on
// Flush. Groups cut short by a fault are included up to the last section
// that completed.
type JSONEmitter struct {
	w       io.Writer
	doc     Document
	current *GroupResult
	flushed bool
}

// NewJSONEmitter creates a JSON emitter for a run called name.
func NewJSONEmitter(w io.Writer, name string) *JSONEmitter {
	return &JSONEmitter{
		w:   w,
		doc: Document{Name: name, Groups: make([]*GroupResult, 0)},
	}
}

// BeginGroup starts collecting a new group.
func (e *JSONEmitter) BeginGroup(name string) error {
	e.current = &GroupResult{
		Name:           name,
		Initialization: make([]Row, 0),
		Runs:           make([]IterationRun, 0),
	}
	e.doc.Groups = append(e.doc.Groups, e.current)
	return nil
}

// Initialization records the initialization rows of the current group.
func (e *JSONEmitter) Initialization(measurements []bench.Measurement) error {
	if e.current == nil {
		return fmt.Errorf("initialization emitted outside of a group")
	}
	e.current.Initialization = append(e.current.Initialization, rows(measurements)...)
	return nil
}

// Iterations records one section of the current group.
func (e *JSONEmitter) Iterations(count int, measurements []bench.Measurement) error {
	if e.current == nil {
		return fmt.Errorf("iterations emitted outside of a group")
	}
	e.current.Runs = append(e.current.Runs, IterationRun{
		Iterations: count,
		Results:    rows(measurements),
	})
	return nil
}

// EndGroup closes the current group.
func (e *JSONEmitter) EndGroup() error {
	e.current = nil
	return nil
}

// Flush writes the document. Only the first call writes.
func (e *JSONEmitter) Flush() error {
	if e.flushed {
		return nil
	}
	e.flushed = true

	enc := json.NewEncoder(e.w)
	enc.SetIndent("", "  ")
	return enc.Encode(e.doc)
}

func rows(measurements []bench.Measurement) []Row {
	out := make([]Row, len(measurements))
	for i, m := range measurements {
		out[i] = Row{
			Name:      m.Name,
			ElapsedMs: m.Milliseconds(),
			ElapsedNs: m.Elapsed.Nanoseconds(),
		}
	}
	return out
}
