package engine

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/sirupsen/logrus"
)

// Scheduler drives drivers one step at a time. A single Scheduler may start
// any number of runs; each run gets its own goroutine and Handle.
type Scheduler struct {
	cfg Config
	log *logrus.Entry
}

type Option func(*Scheduler)

func WithLogger(l *logrus.Entry) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

func New(cfg Config, opts ...Option) (*Scheduler, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Scheduler{
		cfg: cfg,
		log: logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Scheduler) Config() Config { return s.cfg }

// Start launches d and returns immediately. The loop stops when d is done,
// when the handle is cancelled, or when ctx is cancelled. sink and
// onComplete may be nil; a nil ctrl never pauses and runs at MaxSpeed.
func (s *Scheduler) Start(ctx context.Context, d Driver, sink Sink, ctrl Controller, onComplete CompleteFunc) *Handle {
	h := newHandle(d.Name())
	if sink == nil {
		sink = SinkFunc(func(Frame) {})
	}
	if ctrl == nil {
		ctrl = fullSpeed(s.cfg.MaxSpeed)
	}
	go s.run(ctx, h, d, sink, ctrl, onComplete)
	return h
}

func (s *Scheduler) run(ctx context.Context, h *Handle, d Driver, sink Sink, ctrl Controller, onComplete CompleteFunc) {
	defer close(h.done)
	if ctx.Err() != nil {
		h.Cancel()
	}
	stop := context.AfterFunc(ctx, h.Cancel)
	defer stop()

	log := s.log.WithFields(logrus.Fields{"run": h.id, "algorithm": d.Name()})

	if v, ok := d.(Validator); ok {
		var err error
		if perr := guard(func() { err = v.Validate() }); perr != nil {
			s.fail(log, h, d, 0, perr)
			return
		}
		if err != nil {
			if h.Cancelled() {
				h.finish(ReasonCancelled, nil)
				return
			}
			log.WithError(err).Warn("input rejected, completing with empty result")
			h.finish(ReasonInvalid, err)
			s.complete(log, onComplete, nil)
			return
		}
	}

	log.Debug("run started")
	for {
		if h.Cancelled() {
			h.finish(ReasonCancelled, nil)
			log.WithField("steps", h.Steps()).Debug("run cancelled")
			return
		}
		var done, paused bool
		if err := guard(func() { done = d.Done() }); err != nil {
			s.fail(log, h, d, int(h.steps.Load())+1, err)
			return
		}
		if done {
			break
		}
		if err := guard(func() { paused = ctrl.Paused() }); err != nil {
			s.fail(log, h, d, int(h.steps.Load())+1, err)
			return
		}
		if paused {
			h.sleep(s.cfg.PollInterval)
			continue
		}

		step, err := s.advance(d)
		if err != nil {
			s.fail(log, h, d, int(h.steps.Load())+1, err)
			return
		}
		seq := int(h.steps.Add(1))

		if h.Cancelled() {
			continue
		}
		if err := s.publish(sink, Frame{
			Run:       h.id,
			Algorithm: d.Name(),
			Seq:       seq,
			Phase:     step.Phase,
			Snapshot:  step.Snapshot,
			Time:      time.Now(),
		}); err != nil {
			s.fail(log, h, d, seq, err)
			return
		}

		delay := step.Delay
		if delay <= 0 {
			var speed int
			if err := guard(func() { speed = ctrl.Speed() }); err != nil {
				s.fail(log, h, d, seq, err)
				return
			}
			delay = s.cfg.Delay(speed)
		}
		if err := s.throttle(h, ctrl, delay); err != nil {
			s.fail(log, h, d, seq, err)
			return
		}
	}

	var res Result
	if err := guard(func() { res = d.Result() }); err != nil {
		s.fail(log, h, d, h.Steps(), err)
		return
	}
	if h.Cancelled() {
		h.finish(ReasonCancelled, nil)
		return
	}
	reason := ReasonCompleted
	if res.Exhausted {
		reason = ReasonExhausted
	}
	h.finish(reason, nil)
	log.WithFields(logrus.Fields{"steps": h.Steps(), "reason": reason}).Debug("run finished")
	s.complete(log, onComplete, res.Payload)
}

// throttle waits for delay in poll-sized slices. Time spent paused does not
// count against the delay.
func (s *Scheduler) throttle(h *Handle, ctrl Controller, delay time.Duration) error {
	remaining := delay
	for remaining > 0 {
		var paused bool
		if err := guard(func() { paused = ctrl.Paused() }); err != nil {
			return err
		}
		if paused {
			if !h.sleep(s.cfg.PollInterval) {
				return nil
			}
			continue
		}
		slice := min(remaining, s.cfg.PollInterval)
		if !h.sleep(slice) {
			return nil
		}
		remaining -= slice
	}
	return nil
}

func (s *Scheduler) advance(d Driver) (step Step, err error) {
	if perr := guard(func() { step, err = d.Step() }); perr != nil {
		return Step{}, perr
	}
	return step, err
}

func (s *Scheduler) publish(sink Sink, f Frame) error {
	return guard(func() { sink.Publish(f) })
}

// guard runs fn and turns a panic into an error wrapping ErrDriverPanic.
func guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r, stack: debug.Stack()}
		}
	}()
	fn()
	return nil
}

func (s *Scheduler) fail(log *logrus.Entry, h *Handle, d Driver, step int, err error) {
	serr := &StepError{Run: h.id, Algorithm: d.Name(), Step: step, Wrapped: err}
	h.finish(ReasonFailed, serr)
	entry := log.WithField("step", step).WithError(err)
	if p, ok := err.(*panicError); ok {
		entry = entry.WithField("stack", string(p.stack))
	}
	entry.Error("run terminated by driver fault")
}

func (s *Scheduler) complete(log *logrus.Entry, onComplete CompleteFunc, payload any) {
	if onComplete == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("completion callback panicked")
		}
	}()
	onComplete(payload)
}

type fullSpeed int

func (f fullSpeed) Paused() bool { return false }
func (f fullSpeed) Speed() int   { return int(f) }

type panicError struct {
	value any
	stack []byte
}

func (p *panicError) Error() string { return fmt.Sprintf("%v: %v", ErrDriverPanic, p.value) }

func (p *panicError) Unwrap() error { return ErrDriverPanic }
