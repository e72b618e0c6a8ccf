package bench

import (
	"errors"
	"testing"
	"time"
)

func counting(n *int) Operation {
	return func() { *n++ }
}

func TestMeasure_InvocationCounts(t *testing.T) {
	tests := []struct {
		name       string
		iterations int
	}{
		{name: "zero", iterations: 0},
		{name: "one", iterations: 1},
		{name: "ten", iterations: 10},
		{name: "many", iterations: 20000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a, b int
			reg := NewRegistry()
			reg.MustRegister("A", counting(&a))
			reg.MustRegister("B", counting(&b))

			measurements, err := Measure(reg, tt.iterations)
			if err != nil {
				t.Fatalf("Measure() error = %v", err)
			}

			if a != tt.iterations || b != tt.iterations {
				t.Errorf("invocations = (%d, %d), want %d each", a, b, tt.iterations)
			}
			if len(measurements) != 2 {
				t.Fatalf("len(measurements) = %d, want 2", len(measurements))
			}
			for _, m := range measurements {
				if m.Iterations != tt.iterations {
					t.Errorf("%s.Iterations = %d, want %d", m.Name, m.Iterations, tt.iterations)
				}
				if m.Elapsed < 0 {
					t.Errorf("%s.Elapsed = %v, want >= 0", m.Name, m.Elapsed)
				}
			}
		})
	}
}

func TestMeasure_RegistryOrder(t *testing.T) {
	reg := NewRegistry()
	var order []string
	for _, name := range []string{"C", "A", "B"} {
		name := name
		reg.MustRegister(name, func() { order = append(order, name) })
	}

	measurements, err := Measure(reg, 1)
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}

	want := []string{"C", "A", "B"}
	for i, m := range measurements {
		if m.Name != want[i] {
			t.Errorf("measurements[%d].Name = %q, want %q", i, m.Name, want[i])
		}
		if order[i] != want[i] {
			t.Errorf("invocation %d = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestMeasure_IsolatesCandidates(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("slow", func() { time.Sleep(20 * time.Millisecond) })
	reg.MustRegister("fast", func() {})

	measurements, err := Measure(reg, 1)
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}

	if measurements[0].Elapsed < 20*time.Millisecond {
		t.Errorf("slow.Elapsed = %v, want >= 20ms", measurements[0].Elapsed)
	}
	if measurements[1].Elapsed >= measurements[0].Elapsed {
		t.Errorf("fast.Elapsed = %v should not include slow's %v", measurements[1].Elapsed, measurements[0].Elapsed)
	}
}

func TestMeasure_NegativeIterations(t *testing.T) {
	calls := 0
	reg := NewRegistry()
	reg.MustRegister("A", counting(&calls))

	_, err := Measure(reg, -1)
	if !errors.Is(err, ErrInvalidIterations) {
		t.Errorf("Measure() error = %v, want ErrInvalidIterations", err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestMeasure_FaultStopsMeasurement(t *testing.T) {
	var before, after int
	boom := errors.New("boom")

	reg := NewRegistry()
	reg.MustRegister("before", counting(&before))
	reg.MustRegister("faulty", func() { panic(boom) })
	reg.MustRegister("after", counting(&after))

	measurements, err := Measure(reg, 5)

	var fault *FaultError
	if !errors.As(err, &fault) {
		t.Fatalf("Measure() error = %v, want *FaultError", err)
	}
	if fault.Operation != "faulty" {
		t.Errorf("fault.Operation = %q, want faulty", fault.Operation)
	}
	if fault.Iterations != 5 {
		t.Errorf("fault.Iterations = %d, want 5", fault.Iterations)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error should unwrap to the panic value, got %v", err)
	}

	if len(measurements) != 1 || measurements[0].Name != "before" {
		t.Errorf("measurements = %+v, want only 'before'", measurements)
	}
	if after != 0 {
		t.Errorf("after invoked %d times, want 0", after)
	}
}

func TestFaultError_NonErrorValue(t *testing.T) {
	err := &FaultError{Operation: "A", Iterations: 1, Value: "plain string"}
	if err.Unwrap() != nil {
		t.Errorf("Unwrap() = %v, want nil", err.Unwrap())
	}
	if err.Error() == "" {
		t.Error("Error() should not be empty")
	}
}

func TestTimer(t *testing.T) {
	var timer Timer

	if timer.Elapsed() != 0 {
		t.Errorf("new timer Elapsed() = %v, want 0", timer.Elapsed())
	}

	timer.Start()
	time.Sleep(5 * time.Millisecond)
	timer.Stop()

	first := timer.Elapsed()
	if first < 5*time.Millisecond {
		t.Errorf("Elapsed() = %v, want >= 5ms", first)
	}

	// Stop on a stopped timer is a no-op.
	timer.Stop()
	if timer.Elapsed() != first {
		t.Errorf("Elapsed() changed after second Stop: %v -> %v", first, timer.Elapsed())
	}

	timer.Reset()
	if timer.Elapsed() != 0 {
		t.Errorf("Elapsed() after Reset = %v, want 0", timer.Elapsed())
	}
}

func TestMeasurement_Milliseconds(t *testing.T) {
	m := Measurement{Elapsed: 1999 * time.Microsecond}
	if m.Milliseconds() != 1 {
		t.Errorf("Milliseconds() = %d, want 1", m.Milliseconds())
	}
}
