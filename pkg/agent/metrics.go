package agent

import (
	"context"

	// Packages
	attribute "go.opentelemetry.io/otel/attribute"
	metric "go.opentelemetry.io/otel/metric"
	noop "go.opentelemetry.io/otel/metric/noop"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type metrics struct {
	runs   metric.Int64Counter
	rounds metric.Int64Histogram
	tools  metric.Int64Counter
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func newMetrics(meter metric.Meter) (*metrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("")
	}

	runs, err := meter.Int64Counter("jack.agent.runs",
		metric.WithDescription("Agent runs by outcome"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}
	rounds, err := meter.Int64Histogram("jack.agent.rounds",
		metric.WithDescription("Completion rounds per agent run"),
		metric.WithUnit("{round}"),
	)
	if err != nil {
		return nil, err
	}
	tools, err := meter.Int64Counter("jack.tool.calls",
		metric.WithDescription("Tool calls by tool and status"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	return &metrics{runs: runs, rounds: rounds, tools: tools}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (m *metrics) run(ctx context.Context, result *Result, err error) {
	outcome := "error"
	if err == nil && result != nil {
		outcome = result.Outcome.String()
		m.rounds.Record(ctx, int64(result.Rounds))
	}
	m.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *metrics) tool(ctx context.Context, name string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.tools.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", name),
		attribute.String("status", status),
	))
}
