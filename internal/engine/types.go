package engine

import (
	"fmt"
	"time"
)

// Step is the outcome of one Driver.Step call.
type Step struct {
	// Snapshot must not be mutated by the driver after it is returned.
	Snapshot any
	// Delay replaces the speed-derived wait after this step when positive.
	Delay time.Duration
	Phase string
}

type Result struct {
	Payload   any
	Exhausted bool
}

// Driver advances one algorithm. Implementations own their working state and
// are only ever called from the scheduler goroutine of a single run.
type Driver interface {
	Name() string
	Step() (Step, error)
	Done() bool
	Result() Result
}

// Validator is implemented by drivers that can reject their input before the
// first step.
type Validator interface {
	Validate() error
}

// Frame is what a Sink receives for every emitted step.
type Frame struct {
	Run       string
	Algorithm string
	Seq       int
	Phase     string
	Snapshot  any
	Time      time.Time
}

type Sink interface {
	Publish(f Frame)
}

type SinkFunc func(f Frame)

func (fn SinkFunc) Publish(f Frame) { fn(f) }

// Controller is read on every step boundary and every poll interval.
type Controller interface {
	Paused() bool
	Speed() int
}

// CompleteFunc is invoked at most once per run, never after cancellation.
type CompleteFunc func(payload any)

type Reason int

const (
	ReasonNone Reason = iota
	ReasonCompleted
	ReasonExhausted
	ReasonCancelled
	ReasonFailed
	ReasonInvalid
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonCompleted:
		return "completed"
	case ReasonExhausted:
		return "exhausted"
	case ReasonCancelled:
		return "cancelled"
	case ReasonFailed:
		return "failed"
	case ReasonInvalid:
		return "invalid"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Terminal reports whether r ends a run.
func (r Reason) Terminal() bool { return r != ReasonNone }

type Config struct {
	BaseDelay    time.Duration
	SpeedStep    time.Duration
	PollInterval time.Duration
	MinSpeed     int
	MaxSpeed     int
}

func DefaultConfig() Config {
	return Config{
		BaseDelay:    500 * time.Millisecond,
		SpeedStep:    20 * time.Millisecond,
		PollInterval: 100 * time.Millisecond,
		MinSpeed:     1,
		MaxSpeed:     20,
	}
}

// ClampSpeed bounds speed to [MinSpeed, MaxSpeed].
func (c Config) ClampSpeed(speed int) int {
	if speed < c.MinSpeed {
		return c.MinSpeed
	}
	if c.MaxSpeed > 0 && speed > c.MaxSpeed {
		return c.MaxSpeed
	}
	return speed
}

// Delay is the wait after a step at the given speed. It is never negative.
func (c Config) Delay(speed int) time.Duration {
	d := c.BaseDelay - time.Duration(c.ClampSpeed(speed))*c.SpeedStep
	if d < 0 {
		return 0
	}
	return d
}

func (c Config) validate() error {
	if c.BaseDelay < 0 || c.SpeedStep < 0 {
		return fmt.Errorf("delays must be non-negative, got base=%v step=%v", c.BaseDelay, c.SpeedStep)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.PollInterval)
	}
	if c.MaxSpeed > 0 && c.MinSpeed > c.MaxSpeed {
		return fmt.Errorf("speed range [%d, %d] is empty", c.MinSpeed, c.MaxSpeed)
	}
	return nil
}
