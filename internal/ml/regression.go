package ml

import (
	"encoding/json"
	"fmt"

	"github.com/san-kum/algostep/internal/engine"
)

type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

func (l Line) At(x float64) float64 { return l.Slope*x + l.Intercept }

// MSE is the mean squared residual of l over pts.
func MSE(pts []Point, l Line) float64 {
	if len(pts) == 0 {
		return 0
	}
	var sum float64
	for _, p := range pts {
		e := l.At(p.X) - p.Y
		sum += e * e
	}
	return sum / float64(len(pts))
}

// R2 is the coefficient of determination; 0 when y has no variance.
func R2(pts []Point, l Line) float64 {
	if len(pts) < 2 {
		return 0
	}
	_, meanY := means(pts)
	var total, residual float64
	for _, p := range pts {
		total += (p.Y - meanY) * (p.Y - meanY)
		e := p.Y - l.At(p.X)
		residual += e * e
	}
	if total == 0 {
		return 0
	}
	return 1 - residual/total
}

// Fit solves the least-squares line by covariance over variance.
func Fit(pts []Point) (Line, error) {
	if len(pts) < 2 {
		return Line{}, fmt.Errorf("%w: need at least 2 points, got %d", engine.ErrInvalidInput, len(pts))
	}
	meanX, meanY := means(pts)
	var num, den float64
	for _, p := range pts {
		num += (p.X - meanX) * (p.Y - meanY)
		den += (p.X - meanX) * (p.X - meanX)
	}
	if den == 0 {
		return Line{}, fmt.Errorf("%w: all points share x=%g", engine.ErrInvalidInput, meanX)
	}
	slope := num / den
	return Line{Slope: slope, Intercept: meanY - slope*meanX}, nil
}

func means(pts []Point) (x, y float64) {
	for _, p := range pts {
		x += p.X
		y += p.Y
	}
	n := float64(len(pts))
	return x / n, y / n
}

type RegressionOptions struct {
	LearningRate float64
	Iterations   int
}

func DefaultRegressionOptions() RegressionOptions {
	return RegressionOptions{LearningRate: 1e-4, Iterations: 100}
}

type RegressionSnapshot struct {
	Line      Line    `json:"line"`
	Iteration int     `json:"iteration"`
	MSE       float64 `json:"mse"`
}

type RegressionResult struct {
	Line       Line    `json:"line"`
	Iterations int     `json:"iterations"`
	MSE        float64 `json:"mse"`
	R2         float64 `json:"r2"`
}

// MarshalJSON encodes a non-finite MSE as null. MSE can overflow before the
// parameters do.
func (s RegressionSnapshot) MarshalJSON() ([]byte, error) {
	type plain RegressionSnapshot
	return json.Marshal(struct {
		plain
		MSE *float64 `json:"mse"`
	}{plain(s), finiteOrNil(s.MSE)})
}

func (r RegressionResult) MarshalJSON() ([]byte, error) {
	type plain RegressionResult
	return json.Marshal(struct {
		plain
		MSE *float64 `json:"mse"`
		R2  *float64 `json:"r2"`
	}{plain(r), finiteOrNil(r.MSE), finiteOrNil(r.R2)})
}

func finiteOrNil(v float64) *float64 {
	if !finite(v) {
		return nil
	}
	return &v
}

// Regression fits a line by batch gradient descent on the mean squared
// error, one update per step. Slope starts at 0 and intercept at mean(y).
type Regression struct {
	points []Point
	opts   RegressionOptions
	line   Line
	iter   int
}

func NewRegression(points []Point, opts RegressionOptions) *Regression {
	def := DefaultRegressionOptions()
	if opts.LearningRate <= 0 {
		opts.LearningRate = def.LearningRate
	}
	if opts.Iterations <= 0 {
		opts.Iterations = def.Iterations
	}
	r := &Regression{points: clonePoints(points), opts: opts}
	if len(r.points) > 0 {
		_, r.line.Intercept = means(r.points)
	}
	return r
}

func (r *Regression) Name() string { return "regression" }

func (r *Regression) Validate() error {
	if len(r.points) < 2 {
		return fmt.Errorf("%w: need at least 2 points, got %d", engine.ErrInvalidInput, len(r.points))
	}
	return nil
}

func (r *Regression) Done() bool {
	return len(r.points) < 2 || r.iter >= r.opts.Iterations
}

func (r *Regression) Step() (engine.Step, error) {
	if r.Done() {
		return engine.Step{}, engine.ErrStepAfterDone
	}
	var gs, gi float64
	for _, p := range r.points {
		e := r.line.At(p.X) - p.Y
		gs += e * p.X
		gi += e
	}
	scale := 2 / float64(len(r.points))
	r.line.Slope -= r.opts.LearningRate * gs * scale
	r.line.Intercept -= r.opts.LearningRate * gi * scale
	r.iter++

	if !finite(r.line.Slope, r.line.Intercept) {
		return engine.Step{}, fmt.Errorf("%w after %d iterations (learning rate %g)", ErrDiverged, r.iter, r.opts.LearningRate)
	}
	return engine.Step{Snapshot: RegressionSnapshot{Line: r.line, Iteration: r.iter, MSE: MSE(r.points, r.line)}}, nil
}

func (r *Regression) Result() engine.Result {
	return engine.Result{Payload: RegressionResult{
		Line:       r.line,
		Iterations: r.iter,
		MSE:        MSE(r.points, r.line),
		R2:         R2(r.points, r.line),
	}}
}

type ClosedFormOptions struct {
	Frames int
	Width  float64
}

func DefaultClosedFormOptions() ClosedFormOptions {
	return ClosedFormOptions{Frames: 50, Width: CanvasWidth}
}

type LineSnapshot struct {
	Line   Line    `json:"line"`
	Points []Point `json:"points"`
}

// ClosedForm solves the line up front and then reveals it across the canvas
// in Frames+1 evenly spaced points.
type ClosedForm struct {
	points []Point
	opts   ClosedFormOptions
	line   Line
	err    error
	drawn  []Point
}

func NewClosedForm(points []Point, opts ClosedFormOptions) *ClosedForm {
	def := DefaultClosedFormOptions()
	if opts.Frames <= 0 {
		opts.Frames = def.Frames
	}
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	c := &ClosedForm{points: clonePoints(points), opts: opts}
	c.line, c.err = Fit(c.points)
	return c
}

func (c *ClosedForm) Name() string { return "linefit" }

func (c *ClosedForm) Validate() error { return c.err }

func (c *ClosedForm) Done() bool {
	return c.err != nil || len(c.drawn) > c.opts.Frames
}

func (c *ClosedForm) Step() (engine.Step, error) {
	if c.Done() {
		return engine.Step{}, engine.ErrStepAfterDone
	}
	x := c.opts.Width * float64(len(c.drawn)) / float64(c.opts.Frames)
	c.drawn = append(c.drawn, Point{X: x, Y: c.line.At(x)})
	n := len(c.drawn)
	return engine.Step{Snapshot: LineSnapshot{Line: c.line, Points: c.drawn[:n:n]}}, nil
}

func (c *ClosedForm) Result() engine.Result {
	return engine.Result{Payload: RegressionResult{
		Line: c.line,
		MSE:  MSE(c.points, c.line),
		R2:   R2(c.points, c.line),
	}}
}
