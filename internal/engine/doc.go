// Package engine provides the stepwise execution engine shared by every
// visualized algorithm.
//
// The package defines the contracts between an algorithm and its host:
//
//   - [Driver]: advances an algorithm by exactly one logical step
//   - [Sink]: receives an immutable [Frame] per emitted step
//   - [Controller]: supplies the current pause flag and speed
//   - [Scheduler]: runs the cooperative pause/throttle/cancel loop
//   - [Handle]: cancellation and lifecycle token for one run
//
// # Example
//
//	sched := engine.New(engine.DefaultConfig())
//	h := sched.Start(ctx, sorting.NewBubble(values), sink, control.NewManual(10), onDone)
//	defer h.Cancel()
//
// # Cancellation
//
// Cancellation is cooperative. [Handle.Cancel] never blocks; the loop observes
// it at the next step boundary, during the inter-step wait, or while paused.
// Once observed, no further frames are published and the completion callback
// is not invoked. Use [Handle.Wait] to wait for an in-flight step to settle.
package engine
