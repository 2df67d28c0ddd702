package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Handle is the cancellation and lifecycle token of one run.
type Handle struct {
	id        string
	algorithm string

	cancelled atomic.Bool
	cancelCh  chan struct{}
	done      chan struct{}

	steps  atomic.Int64
	reason atomic.Int32

	mu  sync.Mutex
	err error
}

func newHandle(algorithm string) *Handle {
	return &Handle{
		id:        uuid.New().String(),
		algorithm: algorithm,
		cancelCh:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Finished returns a handle that is already terminated with reason r.
func Finished(algorithm string, r Reason) *Handle {
	h := newHandle(algorithm)
	h.reason.Store(int32(r))
	close(h.done)
	return h
}

func (h *Handle) ID() string        { return h.id }
func (h *Handle) Algorithm() string { return h.algorithm }

// Cancel stops the run at its next step boundary. It never blocks and is
// safe to call any number of times, from any goroutine, before or after the
// run has ended.
func (h *Handle) Cancel() {
	if h.cancelled.CompareAndSwap(false, true) {
		close(h.cancelCh)
	}
}

func (h *Handle) Cancelled() bool { return h.cancelled.Load() }

// Done is closed once the run loop has exited and the completion callback,
// if any, has returned.
func (h *Handle) Done() <-chan struct{} { return h.done }

func (h *Handle) Wait() { <-h.done }

// Stop cancels the run and waits for an in-flight step to settle.
func (h *Handle) Stop() {
	h.Cancel()
	h.Wait()
}

// Active reports whether the run loop is still going.
func (h *Handle) Active() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (h *Handle) Steps() int { return int(h.steps.Load()) }

func (h *Handle) Reason() Reason { return Reason(h.reason.Load()) }

// Err returns the fault that ended a failed run, or the validation error of
// an invalid one.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *Handle) finish(r Reason, err error) {
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
	h.reason.Store(int32(r))
}

// sleep waits for d or until cancellation; it reports false when cancelled.
func (h *Handle) sleep(d time.Duration) bool {
	if h.cancelled.Load() {
		return false
	}
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return !h.cancelled.Load()
	case <-h.cancelCh:
		return false
	}
}
