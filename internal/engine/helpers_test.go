package engine_test

import (
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/algostep/internal/engine"
)

var errBoom = errors.New("boom")

// countDriver emits its step number as the snapshot.
type countDriver struct {
	n         int
	i         int
	exhausted bool
	failAt    int
	panicAt   int
	invalid   error
}

func (c *countDriver) Name() string { return "count" }

func (c *countDriver) Step() (engine.Step, error) {
	c.i++
	if c.i == c.failAt {
		return engine.Step{}, errBoom
	}
	if c.i == c.panicAt {
		panic("driver exploded")
	}
	return engine.Step{Snapshot: c.i, Phase: "count"}, nil
}

func (c *countDriver) Done() bool { return c.i >= c.n }

func (c *countDriver) Result() engine.Result {
	return engine.Result{Payload: c.i, Exhausted: c.exhausted}
}

func (c *countDriver) Validate() error { return c.invalid }

// panicky panics from the named method and otherwise counts like
// countDriver.
type panicky struct {
	countDriver
	in string
}

func (p *panicky) Validate() error {
	if p.in == "Validate" {
		panic("validate exploded")
	}
	return p.countDriver.Validate()
}

func (p *panicky) Done() bool {
	if p.in == "Done" {
		panic("done exploded")
	}
	return p.countDriver.Done()
}

func (p *panicky) Result() engine.Result {
	if p.in == "Result" {
		panic("result exploded")
	}
	return p.countDriver.Result()
}

type brokenControl struct{ in string }

func (b brokenControl) Paused() bool {
	if b.in == "Paused" {
		panic("paused exploded")
	}
	return false
}

func (b brokenControl) Speed() int {
	if b.in == "Speed" {
		panic("speed exploded")
	}
	return 10
}

type playback struct {
	paused atomic.Bool
	speed  atomic.Int32
}

func newPlayback(speed int) *playback {
	p := &playback{}
	p.speed.Store(int32(speed))
	return p
}

func (p *playback) Paused() bool { return p.paused.Load() }
func (p *playback) Speed() int   { return int(p.speed.Load()) }

type completion struct {
	calls   atomic.Int32
	payload atomic.Value
}

func (c *completion) fn(payload any) {
	c.calls.Add(1)
	if payload != nil {
		c.payload.Store(payload)
	}
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func fastConfig() engine.Config {
	return engine.Config{
		BaseDelay:    4 * time.Millisecond,
		SpeedStep:    0,
		PollInterval: 2 * time.Millisecond,
		MinSpeed:     1,
		MaxSpeed:     20,
	}
}

func snapshots(frames []engine.Frame) []any {
	out := make([]any, len(frames))
	for i, f := range frames {
		out[i] = f.Snapshot
	}
	return out
}
