package agent

import (
	"time"

	// Packages
	jack "github.com/mutablelogic/go-jack"
	logrus "github.com/sirupsen/logrus"
	metric "go.opentelemetry.io/otel/metric"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for configuring an agent
type Opt func(*Agent) error

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithMaxRounds sets the number of completion rounds before giving up
func WithMaxRounds(n int) Opt {
	return func(a *Agent) error {
		if n < 1 {
			return jack.ErrBadParameter.Withf("max rounds must be at least 1, got %d", n)
		}
		a.rounds = n
		return nil
	}
}

// WithMaxRepeat sets how many times an identical tool call may be
// requested before the run is abandoned
func WithMaxRepeat(n int) Opt {
	return func(a *Agent) error {
		if n < 1 {
			return jack.ErrBadParameter.Withf("max repeat must be at least 1, got %d", n)
		}
		a.repeat = n
		return nil
	}
}

// WithBudget sets the total time allowed for a run. A zero or negative
// budget ends every run before the first round.
func WithBudget(d time.Duration) Opt {
	return func(a *Agent) error {
		a.budget = d
		return nil
	}
}

// WithClock replaces the wall clock used for the time budget
func WithClock(now func() time.Time) Opt {
	return func(a *Agent) error {
		if now == nil {
			return jack.ErrBadParameter.With("clock is required")
		}
		a.now = now
		return nil
	}
}

// WithParallelTools runs the tool calls of a round concurrently when none
// of them change the knowledge base
func WithParallelTools() Opt {
	return func(a *Agent) error {
		a.parallel = true
		return nil
	}
}

// WithTracer sets the tracer for run and tool spans
func WithTracer(tracer trace.Tracer) Opt {
	return func(a *Agent) error {
		if tracer != nil {
			a.tracer = tracer
		}
		return nil
	}
}

// WithMeter records run and tool counters with the meter
func WithMeter(meter metric.Meter) Opt {
	return func(a *Agent) error {
		m, err := newMetrics(meter)
		if err != nil {
			return err
		}
		a.metrics = m
		return nil
	}
}

// WithLogger sets the log entry used for runs
func WithLogger(log *logrus.Entry) Opt {
	return func(a *Agent) error {
		if log == nil {
			return jack.ErrBadParameter.With("logger is required")
		}
		a.log = log
		return nil
	}
}
