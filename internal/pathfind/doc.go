// Package pathfind implements grid search drivers.
//
// A [Search] explores a 4-connected grid (up, down, left, right) from a
// start cell toward a goal, one frontier pop per step. The frontier decides
// the algorithm: FIFO for BFS, LIFO for DFS, a min-heap on distance for
// Dijkstra and on distance plus Manhattan heuristic for A*. Every edge has
// weight 1.
//
// Once the goal is popped the predecessor chain is walked back to the start
// and the path is revealed one cell per step in a separate "path" phase,
// paced by [Options.PathDelay] instead of the playback speed.
package pathfind
