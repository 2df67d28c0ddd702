// Package sorting provides step drivers for comparison sorts.
//
// Every driver performs one comparison per step and at most one swap or
// write, reporting the compared and written indices for highlighting.
// Recursive algorithms keep their pending sub-problems on an explicit
// stack so the scheduler can suspend between any two comparisons.
//
//   - [Bubble], [Insertion]: nested loops with explicit counters
//   - [Quick]: Lomuto partition with a stack of pending spans
//   - [Merge]: top-down merge sort with a stack of pending frames
//
// All drivers complete with the index ordering 0..n-1 as payload.
package sorting
