package experiment

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/algostep/internal/control"
	"github.com/san-kum/algostep/internal/engine"
	"github.com/san-kum/algostep/internal/metrics"
)

type Job struct {
	Kind  string
	Input Input
}

type Outcome struct {
	Kind    string
	Run     string
	Reason  engine.Reason
	Steps   int
	Payload any
	Err     error
	Elapsed time.Duration
	Metrics map[string]float64
}

// RunBatch runs jobs concurrently at full speed, at most limit at a time
// (limit <= 0 means unbounded). Each job gets its own driver and metrics.
// Driver faults are reported per outcome; an unknown kind aborts the batch.
func RunBatch(ctx context.Context, s *engine.Scheduler, r *Registry, jobs []Job, limit int) ([]Outcome, error) {
	if r == nil {
		r = NewRegistry()
	}
	families := make([]Family, len(jobs))
	for i, job := range jobs {
		fam, err := r.Family(job.Kind)
		if err != nil {
			return nil, err
		}
		families[i] = fam
	}

	out := make([]Outcome, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, job := range jobs {
		g.Go(func() error {
			d, err := r.Build(job.Kind, job.Input)
			if err != nil {
				out[i] = Outcome{Kind: job.Kind, Reason: engine.ReasonInvalid, Err: err}
				return nil
			}
			set := metrics.NewSet(metrics.ForAlgorithm(string(families[i]))...)
			var payload any
			start := time.Now()
			h := s.Start(gctx, d, set, control.NewFixed(control.MaxSpeed), func(p any) { payload = p })
			h.Wait()

			out[i] = Outcome{
				Kind:    job.Kind,
				Run:     h.ID(),
				Reason:  h.Reason(),
				Steps:   h.Steps(),
				Payload: payload,
				Err:     h.Err(),
				Elapsed: time.Since(start),
				Metrics: set.Values(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, ctx.Err()
}
