package report

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenSink_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "benchmark.txt")

	sink, err := OpenSink(path)
	if err != nil {
		t.Fatalf("OpenSink() error = %v", err)
	}
	if sink.IsTerminal() {
		t.Error("file sink should not be a terminal")
	}
	if sink.Path() != path {
		t.Errorf("Path() = %q, want %q", sink.Path(), path)
	}

	fmt.Fprintln(sink, "!!!! G")

	// Nothing reaches the file until the sink is flushed.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(data) != 0 {
		t.Errorf("file has %d bytes before Flush, want 0", len(data))
	}

	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "!!!! G\n" {
		t.Errorf("file content = %q", string(data))
	}
}

func TestOpenSink_Stdout(t *testing.T) {
	for _, path := range []string{"", "-"} {
		sink, err := OpenSink(path)
		if err != nil {
			t.Fatalf("OpenSink(%q) error = %v", path, err)
		}
		if sink.file != os.Stdout {
			t.Errorf("OpenSink(%q) should wrap stdout", path)
		}
		if err := sink.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}
}

func TestColorsFor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	sink, err := OpenSink(path)
	if err != nil {
		t.Fatalf("OpenSink() error = %v", err)
	}
	defer sink.Close()

	scheme := ColorsFor(sink, true)
	if got := scheme.Group.Sprint("x"); got != "x" {
		t.Errorf("file sink should not be colored, got %q", got)
	}

	sink.tty = true
	t.Setenv("NO_COLOR", "")
	if got := ColorsFor(sink, true).Group.Sprint("x"); got == "x" {
		t.Error("terminal sink should be colored")
	}
	if got := ColorsFor(sink, false).Group.Sprint("x"); got != "x" {
		t.Errorf("colors disabled by config, got %q", got)
	}

	t.Setenv("NO_COLOR", "1")
	if got := ColorsFor(sink, true).Group.Sprint("x"); got != "x" {
		t.Errorf("NO_COLOR should disable colors, got %q", got)
	}
}
