package experiment

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/algostep/internal/control"
	"github.com/san-kum/algostep/internal/engine"
)

// Options wires a run to its host. Controller wins over the two providers
// when set.
type Options struct {
	Sink          engine.Sink
	Controller    engine.Controller
	SpeedProvider func() int
	PauseProvider func() bool
	OnComplete    engine.CompleteFunc
}

func (o Options) controller() engine.Controller {
	if o.Controller != nil {
		return o.Controller
	}
	return control.Funcs{PausedFn: o.PauseProvider, SpeedFn: o.SpeedProvider}
}

// Visualizer owns at most one active run.
type Visualizer struct {
	sched    *engine.Scheduler
	registry *Registry
	log      *logrus.Entry

	mu      sync.Mutex
	current *engine.Handle
}

func NewVisualizer(s *engine.Scheduler, r *Registry, log *logrus.Entry) *Visualizer {
	if r == nil {
		r = NewRegistry()
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Visualizer{sched: s, registry: r, log: log}
}

// Start cancels the active run, waits for its in-flight step to settle, and
// then starts kind on in. Input the factory rejects completes at once with a
// nil payload. Start must not be called from a sink or completion callback
// of a run it owns.
func (v *Visualizer) Start(ctx context.Context, kind string, in Input, opts Options) (*engine.Handle, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.current != nil {
		v.current.Stop()
		v.current = nil
	}

	d, err := v.registry.Build(kind, in)
	if err != nil {
		if !errors.Is(err, engine.ErrInvalidInput) {
			return nil, err
		}
		v.log.WithError(err).WithField("algorithm", kind).Warn("input rejected, completing with empty result")
		h := engine.Finished(kind, engine.ReasonInvalid)
		if opts.OnComplete != nil {
			opts.OnComplete(nil)
		}
		v.current = h
		return h, nil
	}

	h := v.sched.Start(ctx, d, opts.Sink, opts.controller(), opts.OnComplete)
	v.current = h
	return h, nil
}

// Stop cancels the active run and waits for it to exit.
func (v *Visualizer) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current != nil {
		v.current.Stop()
	}
}

func (v *Visualizer) Current() *engine.Handle {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

func (v *Visualizer) Registry() *Registry { return v.registry }
