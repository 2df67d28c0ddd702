// Package control provides playback controllers for the step scheduler.
//
// Controllers implement [engine.Controller] and are polled by the scheduler
// at every step boundary:
//
//   - [Manual]: pause flag and speed set by a UI, safe for concurrent use
//   - [Fixed]: constant speed, never paused
//   - [Funcs]: adapts separate pause and speed providers
//
// # Usage
//
//	pb := control.NewManual(10)
//	h := sched.Start(ctx, drv, sink, pb, nil)
//	pb.Toggle() // pause
//	pb.Faster() // takes effect on the next inter-step delay
package control
