package control

import "sync/atomic"

const (
	MinSpeed = 1
	MaxSpeed = 20
)

// Manual holds a pause flag and a speed written by the UI and read by the
// scheduler without further locking.
type Manual struct {
	paused atomic.Bool
	speed  atomic.Int32
}

func NewManual(speed int) *Manual {
	m := &Manual{}
	m.SetSpeed(speed)
	return m
}

func (m *Manual) Paused() bool { return m.paused.Load() }

func (m *Manual) Speed() int { return int(m.speed.Load()) }

func (m *Manual) SetPaused(p bool) { m.paused.Store(p) }

// Toggle flips the pause flag and returns the new value.
func (m *Manual) Toggle() bool {
	for {
		old := m.paused.Load()
		if m.paused.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// SetSpeed stores speed clamped to [MinSpeed, MaxSpeed].
func (m *Manual) SetSpeed(speed int) {
	m.speed.Store(int32(clamp(speed)))
}

func (m *Manual) Faster() int { return m.adjust(1) }
func (m *Manual) Slower() int { return m.adjust(-1) }

func (m *Manual) adjust(delta int) int {
	for {
		old := m.speed.Load()
		next := int32(clamp(int(old) + delta))
		if m.speed.CompareAndSwap(old, next) {
			return int(next)
		}
	}
}

func clamp(speed int) int {
	if speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}
