package bench

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// DefaultPlan is the iteration plan used when none is configured.
var DefaultPlan = Plan{20000, 200000, 2000000}

// ErrInvalidPlan is returned by Plan.Validate.
var ErrInvalidPlan = errors.New("invalid iteration plan")

// Plan is the ordered list of iteration counts every candidate is measured at.
// Counts are reported in the order given; ascending order is conventional but
// not required.
type Plan []int

// Validate checks that the plan is non-empty and strictly positive.
func (p Plan) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("%w: at least one iteration count is required", ErrInvalidPlan)
	}
	for i, n := range p {
		if n <= 0 {
			return fmt.Errorf("%w: iterations[%d] must be greater than 0, got %d", ErrInvalidPlan, i, n)
		}
	}
	return nil
}

// Group pairs one-shot initialization operations with the candidates that
// are measured under the plan. A Group must not be modified once it has
// been passed to a Session.
type Group struct {
	Name       string
	Init       *Registry
	Candidates *Registry
}

// Stabilizer prepares the runtime before any measurement is taken.
// Implementations are best effort and never fail the run.
type Stabilizer interface {
	Stabilize()
}

// Emitter receives results as soon as they are measured, so that output
// written before a fault remains in the sink.
type Emitter interface {
	BeginGroup(name string) error
	Initialization(measurements []Measurement) error
	Iterations(count int, measurements []Measurement) error
	EndGroup() error
}

// SessionConfig configures a Session.
type SessionConfig struct {
	// Plan is the iteration plan (default: DefaultPlan)
	Plan Plan

	// Stabilizer runs once before the first group; nil disables stabilization
	Stabilizer Stabilizer

	// Emitter receives all results (required)
	Emitter Emitter

	// Logger receives progress messages (default: discard)
	Logger *slog.Logger
}

// Session drives groups through the timing engine and the emitter.
// It is single-threaded; Run must not be called concurrently.
type Session struct {
	plan       Plan
	stabilizer Stabilizer
	emitter    Emitter
	logger     *slog.Logger
	stabilized bool
}

// NewSession creates a session from cfg.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Emitter == nil {
		return nil, fmt.Errorf("session requires an emitter")
	}

	plan := cfg.Plan
	if len(plan) == 0 {
		plan = DefaultPlan
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Session{
		plan:       append(Plan(nil), plan...),
		stabilizer: cfg.Stabilizer,
		emitter:    cfg.Emitter,
		logger:     logger,
	}, nil
}

// Plan returns a copy of the session's iteration plan.
func (s *Session) Plan() Plan {
	return append(Plan(nil), s.plan...)
}

// Run stabilizes the environment once and then measures each group in the
// order given. The first fault or emitter error aborts the whole run.
func (s *Session) Run(groups []Group) error {
	if !s.stabilized {
		if s.stabilizer != nil {
			s.logger.Debug("stabilizing environment")
			s.stabilizer.Stabilize()
		}
		s.stabilized = true
	}

	for _, g := range groups {
		if err := s.runGroup(g); err != nil {
			return fmt.Errorf("group %q: %w", g.Name, err)
		}
	}

	return nil
}

func (s *Session) runGroup(g Group) error {
	started := time.Now()
	s.logger.Info("running group",
		slog.String("group", g.Name),
		slog.Int("candidates", g.Candidates.Len()),
	)

	if err := s.emitter.BeginGroup(g.Name); err != nil {
		return err
	}

	init, err := Measure(g.Init, 1)
	if err != nil {
		return err
	}
	if err := s.emitter.Initialization(init); err != nil {
		return err
	}

	for _, count := range s.plan {
		s.logger.Debug("measuring candidates",
			slog.String("group", g.Name),
			slog.Int("iterations", count),
		)

		measurements, err := Measure(g.Candidates, count)
		if err != nil {
			return err
		}
		if err := s.emitter.Iterations(count, measurements); err != nil {
			return err
		}
	}

	if err := s.emitter.EndGroup(); err != nil {
		return err
	}

	s.logger.Info("group finished",
		slog.String("group", g.Name),
		slog.Duration("wall_time", time.Since(started)),
	)
	return nil
}
