// Package cli runs external command-line tools as subprocesses with a
// timeout, returning their standard output.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	jack "github.com/mutablelogic/go-jack"
	logger "github.com/mutablelogic/go-jack/pkg/logger"
	attribute "go.opentelemetry.io/otel/attribute"
	trace "go.opentelemetry.io/otel/trace"
	noop "go.opentelemetry.io/otel/trace/noop"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Runner executes a single binary
type Runner struct {
	bin     string
	timeout time.Duration
	tracer  trace.Tracer
}

// Opt configures a runner
type Opt func(*Runner) error

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultTimeout = 30 * time.Second
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns a runner for the named binary, which is looked up on PATH
// when it is run
func New(bin string, opts ...Opt) (*Runner, error) {
	if strings.TrimSpace(bin) == "" {
		return nil, jack.ErrBadParameter.With("binary is required")
	}
	r := &Runner{
		bin:     bin,
		timeout: DefaultTimeout,
		tracer:  noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// WithTimeout sets the time allowed for each invocation
func WithTimeout(d time.Duration) Opt {
	return func(r *Runner) error {
		if d <= 0 {
			return jack.ErrBadParameter.Withf("timeout must be positive, got %v", d)
		}
		r.timeout = d
		return nil
	}
}

// WithTracer opens a span for each invocation
func WithTracer(tracer trace.Tracer) Opt {
	return func(r *Runner) error {
		if tracer != nil {
			r.tracer = tracer
		}
		return nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Bin returns the binary the runner executes
func (r *Runner) Bin() string {
	return r.bin
}

// Run executes the binary with the arguments and returns standard output
// with surrounding whitespace removed. When stdin is empty the process
// reads from the null device.
func (r *Runner) Run(ctx context.Context, stdin string, args ...string) (_ string, err error) {
	ctx, endSpan := otel.StartSpan(r.tracer, ctx, "cli."+r.bin,
		attribute.StringSlice("args", args),
	)
	defer func() { endSpan(err) }()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	logger.FromContext(ctx, "cli").WithField("bin", r.bin).WithField("args", args).Debug("run")
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", jack.ErrUnavailable.Withf("%s timed out after %v", r.bin, r.timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail := strings.TrimSpace(stderr.String())
			if detail == "" {
				detail = strings.TrimSpace(stdout.String())
			}
			return "", fmt.Errorf("%s exited %d: %s", r.bin, exitErr.ExitCode(), detail)
		}
		return "", jack.ErrUnavailable.Wrap(err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
