// Package report renders benchmark measurements.
//
// The text layout is fixed so that reports from different runs line up:
//
//	!!!! Benchmark for Field Access
//	||Initialization|| ||
//	|Init info:                           |      0 ms|
//
//	||Executing for 20000 iterations|| ||
//	|Direct set:                          |      0 ms|
//	|Direct get:                          |      0 ms|
//
// Each section is followed by a blank line and each group by one more.
// No aggregation is performed; every row is a raw elapsed time.
package report

import (
	"fmt"
	"io"

	"github.com/wesleyorama2/fieldbench/internal/bench"
)

// nameWidth is the padded width of the name column, including the colon.
const nameWidth = 35

// Section is one iteration count and the measurements taken at it.
type Section struct {
	Iterations   int
	Measurements []bench.Measurement
}

// TextEmitter writes the fixed text layout to w.
type TextEmitter struct {
	w      io.Writer
	colors *ColorScheme
}

// NewTextEmitter creates a text emitter. A nil scheme disables colors.
func NewTextEmitter(w io.Writer, colors *ColorScheme) *TextEmitter {
	if colors == nil {
		colors = NoColorScheme()
	}
	return &TextEmitter{w: w, colors: colors}
}

// BeginGroup writes the group header line.
func (e *TextEmitter) BeginGroup(name string) error {
	_, err := fmt.Fprintln(e.w, e.colors.Group.Sprintf("!!!! %s", name))
	return err
}

// Initialization writes the initialization section.
func (e *TextEmitter) Initialization(measurements []bench.Measurement) error {
	return e.section("||Initialization|| ||", measurements)
}

// Iterations writes the section for one iteration count.
func (e *TextEmitter) Iterations(count int, measurements []bench.Measurement) error {
	return e.section(fmt.Sprintf("||Executing for %d iterations|| ||", count), measurements)
}

// EndGroup writes the blank line that separates groups.
func (e *TextEmitter) EndGroup() error {
	_, err := fmt.Fprintln(e.w)
	return err
}

func (e *TextEmitter) section(heading string, measurements []bench.Measurement) error {
	if _, err := fmt.Fprintln(e.w, e.colors.Section.Sprint(heading)); err != nil {
		return err
	}
	for _, m := range measurements {
		if _, err := fmt.Fprintln(e.w, FormatRow(m)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(e.w)
	return err
}

// FormatRow renders one measurement as a table row.
func FormatRow(m bench.Measurement) string {
	return fmt.Sprintf("|%-*s | %6d ms|", nameWidth, m.Name+":", m.Milliseconds())
}

// Emit writes one complete group through emitter in a single call.
func Emit(emitter bench.Emitter, group string, init []bench.Measurement, sections []Section) error {
	if err := emitter.BeginGroup(group); err != nil {
		return err
	}
	if err := emitter.Initialization(init); err != nil {
		return err
	}
	for _, s := range sections {
		if err := emitter.Iterations(s.Iterations, s.Measurements); err != nil {
			return err
		}
	}
	return emitter.EndGroup()
}
