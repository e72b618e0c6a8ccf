package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/wesleyorama2/fieldbench/internal/bench"
)

func TestJSONEmitter_Document(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewJSONEmitter(&buf, "nightly")

	init := []bench.Measurement{measurement("Init info", 1, 2*time.Millisecond)}
	sections := []Section{
		{Iterations: 1, Measurements: []bench.Measurement{
			measurement("A", 1, 500*time.Nanosecond),
			measurement("B", 1, 0),
		}},
		{Iterations: 10, Measurements: []bench.Measurement{
			measurement("A", 10, 3*time.Millisecond),
			measurement("B", 10, 4*time.Millisecond),
		}},
	}
	require.NoError(t, Emit(emitter, "G", init, sections))
	require.NoError(t, emitter.Flush())

	doc := buf.String()
	require.True(t, gjson.Valid(doc), "output is not valid JSON: %s", doc)

	assert.Equal(t, "nightly", gjson.Get(doc, "name").String())
	assert.Equal(t, int64(1), gjson.Get(doc, "groups.#").Int())
	assert.Equal(t, "G", gjson.Get(doc, "groups.0.name").String())
	assert.Equal(t, "Init info", gjson.Get(doc, "groups.0.initialization.0.name").String())
	assert.Equal(t, int64(2), gjson.Get(doc, "groups.0.initialization.0.elapsedMs").Int())

	assert.Equal(t, []int64{1, 10}, intsOf(gjson.Get(doc, "groups.0.runs.#.iterations")))
	assert.Equal(t, "A", gjson.Get(doc, "groups.0.runs.0.results.0.name").String())
	assert.Equal(t, "B", gjson.Get(doc, "groups.0.runs.0.results.1.name").String())
	assert.Equal(t, int64(500), gjson.Get(doc, "groups.0.runs.0.results.0.elapsedNs").Int())
	assert.Equal(t, int64(4), gjson.Get(doc, "groups.0.runs.1.results.1.elapsedMs").Int())
}

func TestJSONEmitter_PartialGroup(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewJSONEmitter(&buf, "")

	require.NoError(t, emitter.BeginGroup("G"))
	require.NoError(t, emitter.Initialization(nil))
	require.NoError(t, emitter.Iterations(1, []bench.Measurement{measurement("A", 1, 0)}))
	// A fault here means EndGroup is never called.
	require.NoError(t, emitter.Flush())

	doc := buf.String()
	assert.False(t, gjson.Get(doc, "name").Exists())
	assert.Equal(t, int64(1), gjson.Get(doc, "groups.0.runs.#").Int())
	assert.Equal(t, int64(0), gjson.Get(doc, "groups.0.initialization.#").Int())
}

func TestJSONEmitter_FlushOnce(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewJSONEmitter(&buf, "x")

	require.NoError(t, emitter.Flush())
	first := buf.Len()
	require.NoError(t, emitter.Flush())
	assert.Equal(t, first, buf.Len())
}

func TestJSONEmitter_OutsideGroup(t *testing.T) {
	emitter := NewJSONEmitter(&bytes.Buffer{}, "")
	assert.Error(t, emitter.Initialization(nil))
	assert.Error(t, emitter.Iterations(1, nil))
}

func intsOf(r gjson.Result) []int64 {
	var out []int64
	for _, v := range r.Array() {
		out = append(out, v.Int())
	}
	return out
}
