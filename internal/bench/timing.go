package bench

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidIterations is returned when Measure is asked for a negative count.
var ErrInvalidIterations = errors.New("invalid iteration count")

// Measurement is a single (name, iteration count, elapsed time) observation.
type Measurement struct {
	Name       string
	Iterations int
	Elapsed    time.Duration
}

// Milliseconds returns the elapsed time truncated to whole milliseconds.
func (m Measurement) Milliseconds() int64 {
	return m.Elapsed.Milliseconds()
}

// FaultError reports an operation that panicked while being measured.
type FaultError struct {
	// Operation is the registry name of the faulting operation
	Operation string

	// Iterations is the count the operation was being measured at
	Iterations int

	// Value is the recovered panic value
	Value any
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("operation %q faulted at %d iterations: %v", e.Operation, e.Iterations, e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *FaultError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Timer is a stopwatch over the monotonic clock. A Timer is owned by one
// Measure call and is not safe for concurrent use.
type Timer struct {
	start   time.Time
	elapsed time.Duration
	running bool
}

// Start begins timing. Starting a running timer has no effect.
func (t *Timer) Start() {
	if t.running {
		return
	}
	t.running = true
	t.start = time.Now()
}

// Stop ends timing and accumulates the elapsed time.
func (t *Timer) Stop() {
	if !t.running {
		return
	}
	t.elapsed += time.Since(t.start)
	t.running = false
}

// Reset stops the timer and clears the accumulated time.
func (t *Timer) Reset() {
	t.elapsed = 0
	t.running = false
}

// Elapsed returns the accumulated time of all completed Start/Stop pairs.
func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

// Measure runs every operation in reg exactly iterations times, in registry
// order, each under a freshly reset timer.
//
// An iteration count of zero is legal and records a near-zero elapsed time
// without invoking anything. If an operation panics, Measure stops and
// returns a *FaultError along with the measurements completed before it.
func Measure(reg *Registry, iterations int) ([]Measurement, error) {
	if iterations < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIterations, iterations)
	}

	var timer Timer
	measurements := make([]Measurement, 0, reg.Len())

	err := reg.Each(func(name string, op Operation) error {
		timer.Reset()
		if err := run(&timer, name, op, iterations); err != nil {
			return err
		}
		measurements = append(measurements, Measurement{
			Name:       name,
			Iterations: iterations,
			Elapsed:    timer.Elapsed(),
		})
		timer.Reset()
		return nil
	})

	return measurements, err
}

// run times one operation. The loop is kept free of anything but the call.
func run(timer *Timer, name string, op Operation, iterations int) (err error) {
	defer func() {
		if v := recover(); v != nil {
			timer.Stop()
			err = &FaultError{Operation: name, Iterations: iterations, Value: v}
		}
	}()

	timer.Start()
	for i := 0; i < iterations; i++ {
		op()
	}
	timer.Stop()
	return nil
}
