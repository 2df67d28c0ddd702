package control

import (
	"sync"
	"testing"
)

func TestManualSpeedClamp(t *testing.T) {
	tests := []struct {
		name     string
		speed    int
		expected int
	}{
		{"below range", -5, MinSpeed},
		{"zero", 0, MinSpeed},
		{"in range", 10, 10},
		{"upper bound", MaxSpeed, MaxSpeed},
		{"above range", 99, MaxSpeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManual(tt.speed)
			if got := m.Speed(); got != tt.expected {
				t.Errorf("expected speed %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestManualFasterSlower(t *testing.T) {
	m := NewManual(MaxSpeed - 1)
	if got := m.Faster(); got != MaxSpeed {
		t.Errorf("expected %d, got %d", MaxSpeed, got)
	}
	if got := m.Faster(); got != MaxSpeed {
		t.Errorf("expected speed to stay at %d, got %d", MaxSpeed, got)
	}

	m.SetSpeed(MinSpeed)
	if got := m.Slower(); got != MinSpeed {
		t.Errorf("expected speed to stay at %d, got %d", MinSpeed, got)
	}
}

func TestManualToggle(t *testing.T) {
	m := NewManual(10)
	if m.Paused() {
		t.Fatal("new controller should not be paused")
	}
	if !m.Toggle() || !m.Paused() {
		t.Error("expected paused after first toggle")
	}
	if m.Toggle() || m.Paused() {
		t.Error("expected running after second toggle")
	}
}

func TestManualConcurrentToggle(t *testing.T) {
	m := NewManual(10)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Toggle()
			m.Faster()
			m.Slower()
		}()
	}
	wg.Wait()

	if m.Paused() {
		t.Error("even number of toggles should leave controller running")
	}
	if s := m.Speed(); s < MinSpeed || s > MaxSpeed {
		t.Errorf("speed %d escaped range", s)
	}
}

func TestFixedAndFuncs(t *testing.T) {
	f := NewFixed(50)
	if f.Paused() || f.Speed() != MaxSpeed {
		t.Errorf("unexpected fixed controller state: paused=%v speed=%d", f.Paused(), f.Speed())
	}

	var zero Funcs
	if zero.Paused() || zero.Speed() != MaxSpeed {
		t.Error("zero Funcs should run at max speed")
	}

	paused := true
	fn := Funcs{
		PausedFn: func() bool { return paused },
		SpeedFn:  func() int { return 7 },
	}
	if !fn.Paused() || fn.Speed() != 7 {
		t.Error("Funcs did not delegate to providers")
	}
}
