package correlator

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/vuln-correlator/advisory"
	"github.com/aquasecurity/vuln-correlator/component"
)

// Report holds the match results of one advisory
type Report struct {
	ID       string          `json:"id"`
	Advisory advisory.Record `json:"advisory"`
	Results  []Result        `json:"results"`
	// TimedOut is set when the advisory deadline passed before matching finished
	TimedOut bool `json:"timed_out,omitempty"`
}

// Runner correlates a batch of advisories with one component list
type Runner struct {
	*runnerOptions
	match   func([]component.Component, advisory.Record) []Result
	metrics *metrics
}

type runnerOptions struct {
	workers    int
	timeout    time.Duration
	registerer prometheus.Registerer
}

type runnerOption func(*runnerOptions)

// WithWorkers bounds the number of advisories correlated at once
func WithWorkers(n int) runnerOption {
	return func(o *runnerOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithTimeout sets a deadline for every single advisory. Zero disables it.
func WithTimeout(d time.Duration) runnerOption {
	return func(o *runnerOptions) {
		o.timeout = d
	}
}

func WithRegisterer(reg prometheus.Registerer) runnerOption {
	return func(o *runnerOptions) {
		o.registerer = reg
	}
}

// NewRunner returns a runner matching through engine
func NewRunner(engine *Engine, opts ...runnerOption) *Runner {
	o := &runnerOptions{
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(o)
	}
	return &Runner{
		runnerOptions: o,
		match:         engine.Match,
		metrics:       newMetrics(o.registerer),
	}
}

// Run correlates every record with components. Reports keep the order of
// records. Cancelling ctx stops the run and returns the context error.
func (r *Runner) Run(ctx context.Context, components []component.Component, records []advisory.Record) ([]Report, error) {
	log := zerolog.Ctx(ctx).With().Str("component", "correlator").Logger()
	log.Info().Int("advisories", len(records)).Int("components", len(components)).Msg("Correlating advisories")

	reports := make([]Report, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := r.correlate(gctx, components, rec)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, xerrors.Errorf("correlation aborted: %w", err)
	}

	var timedOut int
	for _, rep := range reports {
		if rep.TimedOut {
			timedOut++
		}
	}
	log.Info().Int("advisories", len(reports)).Int("timed_out", timedOut).Msg("Correlation finished")
	return reports, nil
}

func (r *Runner) correlate(ctx context.Context, components []component.Component, rec advisory.Record) (Report, error) {
	log := zerolog.Ctx(ctx).With().Str("advisory", rec.ID).Logger()
	report := Report{
		ID:       uuid.NewString(),
		Advisory: rec,
		Results:  []Result{},
	}
	deadline := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		deadline, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan []Result, 1)
	go func() {
		done <- r.match(components, rec)
	}()

	select {
	case results := <-done:
		r.metrics.duration.Observe(time.Since(start).Seconds())
		r.metrics.observe(results)
		report.Results = results
		log.Debug().Int("results", len(results)).Dur("elapsed", time.Since(start)).Msg("Advisory correlated")
		return report, nil
	case <-deadline.Done():
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		r.metrics.timeouts.Inc()
		report.TimedOut = true
		log.Warn().Dur("timeout", r.timeout).Msg("Advisory deadline exceeded")
		return report, nil
	}
}
