// Package clock measures the cost of reading the monotonic clock, which is
// the floor below which an elapsed time cannot be trusted.
package clock

import (
	"fmt"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram range in nanoseconds: 1ns to 1s, 3 significant figures.
const (
	histogramMin     = 1
	histogramMax     = int64(time.Second)
	histogramSigFigs = 3
)

// DefaultSamples is the number of clock reads Calibrate takes by default.
const DefaultSamples = 10000

// Profile summarizes the cost of one clock read.
type Profile struct {
	Samples int64
	Min     time.Duration
	P50     time.Duration
	P99     time.Duration
	Max     time.Duration
}

// String renders the profile on one line.
func (p Profile) String() string {
	return fmt.Sprintf("samples=%d min=%s p50=%s p99=%s max=%s", p.Samples, p.Min, p.P50, p.P99, p.Max)
}

// Calibrate times samples back-to-back clock reads and returns their
// distribution. Readings that fall outside the histogram range are clamped.
func Calibrate(samples int) (Profile, error) {
	if samples <= 0 {
		return Profile{}, fmt.Errorf("samples must be greater than 0, got %d", samples)
	}

	hist := hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs)

	for i := 0; i < samples; i++ {
		start := time.Now()
		ns := time.Since(start).Nanoseconds()

		if ns < histogramMin {
			ns = histogramMin
		}
		if ns > histogramMax {
			ns = histogramMax
		}
		if err := hist.RecordValue(ns); err != nil {
			return Profile{}, fmt.Errorf("record clock sample: %w", err)
		}
	}

	return Profile{
		Samples: hist.TotalCount(),
		Min:     time.Duration(hist.Min()),
		P50:     time.Duration(hist.ValueAtQuantile(50)),
		P99:     time.Duration(hist.ValueAtQuantile(99)),
		Max:     time.Duration(hist.Max()),
	}, nil
}
