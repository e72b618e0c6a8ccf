//go:build !linux

package stabilize

func elevateThread() error { return ErrUnsupported }

func elevateProcess() error { return ErrUnsupported }

func realtimeThread() error { return ErrUnsupported }

func pinThread() error { return ErrUnsupported }
