//go:build linux

package stabilize

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// highestNice is the most favourable nice value on Linux.
const highestNice = -20

// elevateThread raises the nice value of the calling OS thread.
func elevateThread() error {
	if err := unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), highestNice); err != nil {
		return fmt.Errorf("setpriority thread %d: %w", unix.Gettid(), err)
	}
	return nil
}

// elevateProcess raises the nice value of the process' main thread.
func elevateProcess() error {
	if err := unix.Setpriority(unix.PRIO_PROCESS, unix.Getpid(), highestNice); err != nil {
		return fmt.Errorf("setpriority process %d: %w", unix.Getpid(), err)
	}
	return nil
}

// realtimeThread moves the calling thread to SCHED_FIFO at its highest
// static priority. This normally needs CAP_SYS_NICE.
func realtimeThread() error {
	attr := &unix.SchedAttr{
		Policy:   unix.SCHED_FIFO,
		Priority: 99,
	}
	if err := unix.SchedSetAttr(0, attr, 0); err != nil {
		return fmt.Errorf("sched_setattr SCHED_FIFO: %w", err)
	}
	return nil
}

// pinThread restricts the calling thread to the first CPU it is currently
// allowed to run on.
func pinThread() error {
	var allowed unix.CPUSet
	if err := unix.SchedGetaffinity(0, &allowed); err != nil {
		return fmt.Errorf("sched_getaffinity: %w", err)
	}

	cpu := -1
	for i := 0; i < len(allowed)*64; i++ {
		if allowed.IsSet(i) {
			cpu = i
			break
		}
	}
	if cpu < 0 {
		return fmt.Errorf("no CPU in current affinity mask")
	}

	var pinned unix.CPUSet
	pinned.Set(cpu)
	if err := unix.SchedSetaffinity(0, &pinned); err != nil {
		return fmt.Errorf("sched_setaffinity cpu %d: %w", cpu, err)
	}
	return nil
}
