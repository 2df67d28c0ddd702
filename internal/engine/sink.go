package engine

import "sync"

// Recorder is a Sink that keeps every frame it receives.
type Recorder struct {
	mu     sync.Mutex
	frames []Frame
}

func NewRecorder() *Recorder {
	return &Recorder{frames: make([]Frame, 0, 64)}
}

func (r *Recorder) Publish(f Frame) {
	r.mu.Lock()
	r.frames = append(r.frames, f)
	r.mu.Unlock()
}

// Frames returns a copy of the recorded frames.
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// Last returns the most recent frame.
func (r *Recorder) Last() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return Frame{}, false
	}
	return r.frames[len(r.frames)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.frames = r.frames[:0]
	r.mu.Unlock()
}

type tee []Sink

// Tee publishes every frame to each sink in order. Nil sinks are skipped.
func Tee(sinks ...Sink) Sink {
	out := make(tee, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (t tee) Publish(f Frame) {
	for _, s := range t {
		s.Publish(f)
	}
}
