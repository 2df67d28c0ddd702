// Package viz renders algorithm runs in the terminal.
//
// [Model] is a Bubble Tea program hosting one run at a time: frames from
// the scheduler arrive as messages and [Render] draws their snapshots as
// bar charts, coloured grids, or braille scatter plots on a [Canvas].
//
// # Key Bindings
//
//	Space - Pause/Resume
//	+/-   - Faster/Slower
//	R     - Restart on fresh input
//	Tab   - Next algorithm in the same family
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
