// Package stabilize settles the Go runtime and raises scheduling priority
// before timing starts.
//
// Every step is best effort. A step that is unsupported on the host, or that
// the process lacks the privilege for, is logged as a warning and recorded
// in Steps; the run continues with more measurement noise.
package stabilize

import (
	"errors"
	"io"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"time"
)

// ErrUnsupported is recorded for steps the host OS cannot perform.
var ErrUnsupported = errors.New("not supported on this platform")

// finalizerWait bounds how long the GC settle waits for pending finalizers.
const finalizerWait = 2 * time.Second

// Options selects which stabilization steps run.
type Options struct {
	// CollectGarbage forces two full collections around a finalizer drain
	CollectGarbage bool

	// ElevatePriority raises the nice value and requests real-time scheduling
	ElevatePriority bool

	// PinCPU pins the measuring thread to one CPU and sets GOMAXPROCS to 1
	PinCPU bool
}

// DefaultOptions enables every step.
func DefaultOptions() Options {
	return Options{
		CollectGarbage:  true,
		ElevatePriority: true,
		PinCPU:          true,
	}
}

// Step is the outcome of one stabilization step. Err is nil on success.
type Step struct {
	Name string
	Err  error
}

// Stabilizer applies Options to the calling goroutine and process.
//
// Stabilize must be called from the goroutine that will run the
// measurements, since the OS thread is locked to it.
type Stabilizer struct {
	opts   Options
	logger *slog.Logger

	once          sync.Once
	steps         []Step
	locked        bool
	prevMaxProcs  int
	maxProcsFixed bool
}

// New creates a Stabilizer. A nil logger discards output.
func New(opts Options, logger *slog.Logger) *Stabilizer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Stabilizer{opts: opts, logger: logger}
}

// Stabilize runs the configured steps. Only the first call has an effect.
func (s *Stabilizer) Stabilize() {
	s.once.Do(s.stabilize)
}

func (s *Stabilizer) stabilize() {
	if s.opts.CollectGarbage {
		s.record("collect garbage", collectGarbage())
	}

	if s.opts.ElevatePriority || s.opts.PinCPU {
		runtime.LockOSThread()
		s.locked = true
	}

	if s.opts.ElevatePriority {
		s.record("thread priority", elevateThread())
		s.record("process priority", elevateProcess())
		s.record("real-time scheduling", realtimeThread())
	}

	if s.opts.PinCPU {
		s.prevMaxProcs = runtime.GOMAXPROCS(1)
		s.maxProcsFixed = true
		s.record("cpu affinity", pinThread())
	}
}

func (s *Stabilizer) record(name string, err error) {
	s.steps = append(s.steps, Step{Name: name, Err: err})
	if err != nil {
		s.logger.Warn("stabilization step degraded",
			slog.String("step", name),
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.Debug("stabilization step applied", slog.String("step", name))
}

// Steps returns the outcome of each step that ran, in order.
func (s *Stabilizer) Steps() []Step {
	return append([]Step(nil), s.steps...)
}

// Degraded reports whether any step failed.
func (s *Stabilizer) Degraded() bool {
	for _, step := range s.steps {
		if step.Err != nil {
			return true
		}
	}
	return false
}

// Restore undoes the goroutine-local effects: it unlocks the OS thread and
// restores GOMAXPROCS. Priority changes stay in effect until the process
// exits.
func (s *Stabilizer) Restore() {
	if s.maxProcsFixed {
		runtime.GOMAXPROCS(s.prevMaxProcs)
		s.maxProcsFixed = false
	}
	if s.locked {
		runtime.UnlockOSThread()
		s.locked = false
	}
}

// collectGarbage runs a full collection, waits for the finalizers it queued,
// then collects again so nothing they released is swept during timing.
func collectGarbage() error {
	runtime.GC()

	// Finalizers run in queue order on a single goroutine, so once the
	// sentinel's finalizer has run the ones queued before it have too.
	done := make(chan struct{})
	sentinel := new([64]byte)
	runtime.SetFinalizer(sentinel, func(*[64]byte) { close(done) })
	sentinel = nil
	runtime.GC()

	var err error
	select {
	case <-done:
	case <-time.After(finalizerWait):
		err = errors.New("timed out waiting for pending finalizers")
	}

	runtime.GC()
	debug.FreeOSMemory()
	return err
}
