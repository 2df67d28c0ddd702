package control

// Fixed plays at a constant speed and never pauses.
type Fixed struct {
	speed int
}

func NewFixed(speed int) *Fixed {
	return &Fixed{speed: clamp(speed)}
}

func (f *Fixed) Paused() bool { return false }
func (f *Fixed) Speed() int   { return f.speed }

// Funcs adapts separate providers. A nil PausedFn never pauses; a nil SpeedFn
// reports MaxSpeed.
type Funcs struct {
	PausedFn func() bool
	SpeedFn  func() int
}

func (f Funcs) Paused() bool {
	if f.PausedFn == nil {
		return false
	}
	return f.PausedFn()
}

func (f Funcs) Speed() int {
	if f.SpeedFn == nil {
		return MaxSpeed
	}
	return f.SpeedFn()
}
