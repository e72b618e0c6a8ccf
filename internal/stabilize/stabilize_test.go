package stabilize

import (
	"bytes"
	"log/slog"
	"runtime"
	"strings"
	"testing"
)

func TestStabilize_Disabled(t *testing.T) {
	s := New(Options{}, nil)
	s.Stabilize()

	if len(s.Steps()) != 0 {
		t.Errorf("Steps() = %v, want none", s.Steps())
	}
	if s.Degraded() {
		t.Error("Degraded() should be false with no steps")
	}
	s.Restore()
}

func TestStabilize_CollectGarbage(t *testing.T) {
	s := New(Options{CollectGarbage: true}, nil)
	s.Stabilize()

	steps := s.Steps()
	if len(steps) != 1 {
		t.Fatalf("len(Steps()) = %d, want 1", len(steps))
	}
	if steps[0].Name != "collect garbage" {
		t.Errorf("step name = %q, want 'collect garbage'", steps[0].Name)
	}
	if steps[0].Err != nil {
		t.Errorf("collect garbage error = %v", steps[0].Err)
	}
}

func TestStabilize_RunsOnce(t *testing.T) {
	s := New(Options{CollectGarbage: true}, nil)
	s.Stabilize()
	s.Stabilize()

	if len(s.Steps()) != 1 {
		t.Errorf("len(Steps()) = %d after two calls, want 1", len(s.Steps()))
	}
}

func TestStabilize_PinCPUBestEffort(t *testing.T) {
	before := runtime.GOMAXPROCS(0)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// Priority elevation is left out: when the tests run as root it would
	// leave a SCHED_FIFO thread behind in the test binary.
	s := New(Options{CollectGarbage: true, PinCPU: true}, logger)
	s.Stabilize()

	// Affinity may be refused in containers; every step must still be recorded.
	names := make([]string, 0, len(s.Steps()))
	for _, step := range s.Steps() {
		names = append(names, step.Name)
		if step.Err != nil && !strings.Contains(logs.String(), step.Name) {
			t.Errorf("degraded step %q was not logged", step.Name)
		}
	}

	want := []string{"collect garbage", "cpu affinity"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("steps = %v, want %v", names, want)
	}

	if got := runtime.GOMAXPROCS(0); got != 1 {
		t.Errorf("GOMAXPROCS during run = %d, want 1", got)
	}

	s.Restore()
	if got := runtime.GOMAXPROCS(0); got != before {
		t.Errorf("GOMAXPROCS after Restore = %d, want %d", got, before)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if !opts.CollectGarbage || !opts.ElevatePriority || !opts.PinCPU {
		t.Errorf("DefaultOptions() = %+v, want all steps enabled", opts)
	}
}
