// Package ml provides step drivers for point-based learning algorithms on a
// 2D canvas: k-means and DBSCAN clustering, k-nearest-neighbour and
// decision-tree classification, and linear regression by gradient descent or
// by the normal equations.
//
// Each driver copies its input points. Snapshots never alias the driver's
// mutable state, so they remain valid after later steps.
package ml
