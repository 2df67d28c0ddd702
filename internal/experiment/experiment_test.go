package experiment_test

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/algostep/internal/config"
	"github.com/san-kum/algostep/internal/control"
	"github.com/san-kum/algostep/internal/engine"
	"github.com/san-kum/algostep/internal/experiment"
	"github.com/san-kum/algostep/internal/ml"
	"github.com/san-kum/algostep/internal/pathfind"
)

func quiet() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func scheduler(t *testing.T, base time.Duration) *engine.Scheduler {
	t.Helper()
	s, err := engine.New(engine.Config{BaseDelay: base, PollInterval: 2 * time.Millisecond, MinSpeed: 1, MaxSpeed: 20}, engine.WithLogger(quiet()))
	require.NoError(t, err)
	return s
}

func TestRegistryListsEveryKind(t *testing.T) {
	r := experiment.NewRegistry()
	assert.Equal(t, []string{
		"astar", "bfs", "bubble", "dbscan", "dfs", "dijkstra", "insertion",
		"kmeans", "knn", "linefit", "merge", "quick", "regression", "tree",
	}, r.List())

	_, err := r.Build("bogo", experiment.Input{})
	assert.ErrorIs(t, err, engine.ErrUnknownAlgorithm)

	fam, err := r.Family("astar")
	require.NoError(t, err)
	assert.Equal(t, experiment.FamilyGraph, fam)
	assert.NotEmpty(t, r.Summary("dbscan"))
}

func TestVisualizerCancelsPriorRun(t *testing.T) {
	v := experiment.NewVisualizer(scheduler(t, 20*time.Millisecond), nil, quiet())

	var firstDone, secondDone atomic.Int32
	first, err := v.Start(context.Background(), "bubble", experiment.Input{Values: []int{9, 8, 7, 6, 5, 4, 3, 2, 1}}, experiment.Options{
		SpeedProvider: func() int { return 1 },
		OnComplete:    func(any) { firstDone.Add(1) },
	})
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)

	rec := engine.NewRecorder()
	second, err := v.Start(context.Background(), "bubble", experiment.Input{Values: []int{2, 1}}, experiment.Options{
		Sink:          rec,
		SpeedProvider: func() int { return 20 },
		OnComplete:    func(any) { secondDone.Add(1) },
	})
	require.NoError(t, err)

	// The prior run has fully exited before Start returned.
	select {
	case <-first.Done():
	default:
		t.Fatal("first run still active after second Start")
	}
	assert.Equal(t, engine.ReasonCancelled, first.Reason())

	second.Wait()
	assert.Equal(t, engine.ReasonCompleted, second.Reason())
	assert.Equal(t, int32(0), firstDone.Load())
	assert.Equal(t, int32(1), secondDone.Load())
	assert.Equal(t, 1, rec.Len())
	for _, f := range rec.Frames() {
		assert.Equal(t, second.ID(), f.Run)
	}
	assert.Same(t, second, v.Current())
}

func TestVisualizerInvalidInput(t *testing.T) {
	v := experiment.NewVisualizer(scheduler(t, 0), nil, quiet())

	t.Run("rejected by factory", func(t *testing.T) {
		var calls int
		var got any = "unset"
		h, err := v.Start(context.Background(), "bfs", experiment.Input{}, experiment.Options{
			OnComplete: func(p any) { calls++; got = p },
		})
		require.NoError(t, err)
		assert.Equal(t, engine.ReasonInvalid, h.Reason())
		assert.Equal(t, 1, calls)
		assert.Nil(t, got)
	})

	t.Run("rejected by driver", func(t *testing.T) {
		done := make(chan any, 1)
		h, err := v.Start(context.Background(), "kmeans", experiment.Input{
			Points: []ml.Point{{X: 1, Y: 1}},
			Params: experiment.Params{K: 3},
		}, experiment.Options{OnComplete: func(p any) { done <- p }})
		require.NoError(t, err)
		h.Wait()
		assert.Equal(t, engine.ReasonInvalid, h.Reason())
		assert.ErrorIs(t, h.Err(), engine.ErrInvalidInput)
		assert.Nil(t, <-done)
		assert.Zero(t, h.Steps())
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := v.Start(context.Background(), "bogo", experiment.Input{}, experiment.Options{})
		assert.ErrorIs(t, err, engine.ErrUnknownAlgorithm)
	})
}

func TestVisualizerPauseProvider(t *testing.T) {
	v := experiment.NewVisualizer(scheduler(t, 0), nil, quiet())
	var paused atomic.Bool
	paused.Store(true)

	rec := engine.NewRecorder()
	h, err := v.Start(context.Background(), "bubble", experiment.Input{Values: []int{3, 2, 1}}, experiment.Options{
		Sink:          rec,
		PauseProvider: paused.Load,
	})
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, rec.Len())

	paused.Store(false)
	h.Wait()
	assert.Equal(t, 3, rec.Len())
	v.Stop()
}

func TestExperimentInputs(t *testing.T) {
	cfg := config.DefaultConfig()
	e := experiment.New(cfg, nil)
	s := scheduler(t, 0)

	for _, kind := range e.Registry().List() {
		t.Run(kind, func(t *testing.T) {
			in, err := e.InputFor(kind)
			require.NoError(t, err)
			d, err := e.Registry().Build(kind, in)
			require.NoError(t, err)
			if v, ok := d.(engine.Validator); ok {
				require.NoError(t, v.Validate())
			}

			var payload any
			h := s.Start(context.Background(), d, nil, control.NewFixed(20), func(p any) { payload = p })
			h.Wait()
			assert.Contains(t, []engine.Reason{engine.ReasonCompleted, engine.ReasonExhausted}, h.Reason(), "err=%v", h.Err())
			if h.Reason() == engine.ReasonCompleted {
				assert.NotNil(t, payload)
			}
		})
	}
}

func TestExperimentUsesLayout(t *testing.T) {
	cfg := config.GetPreset("astar", "walled")
	e := experiment.New(cfg, nil)
	in, err := e.Input()
	require.NoError(t, err)
	assert.Equal(t, 5, in.Grid.Walls())
	assert.Equal(t, pathfind.Pos{Row: 3, Col: 1}, in.Start)
	assert.Equal(t, 50*time.Millisecond, in.Search.PathDelay)

	cfg.Grid.Layout = []string{"..", "..."}
	_, err = experiment.New(cfg, nil).Input()
	assert.ErrorIs(t, err, pathfind.ErrRagged)
}

func TestEngineConfigFromPlayback(t *testing.T) {
	e := experiment.New(config.DefaultConfig(), nil)
	c := e.EngineConfig()
	assert.Equal(t, 500*time.Millisecond, c.BaseDelay)
	assert.Equal(t, 20*time.Millisecond, c.SpeedStep)
	assert.Equal(t, 100*time.Millisecond, c.PollInterval)
	assert.Equal(t, 480*time.Millisecond, c.Delay(1))
	assert.Equal(t, 100*time.Millisecond, c.Delay(20))
}

func TestRunBatch(t *testing.T) {
	s := scheduler(t, 0)
	jobs := []experiment.Job{
		{Kind: "bubble", Input: experiment.Input{Values: []int{5, 3, 8, 1}}},
		{Kind: "bfs", Input: experiment.Input{Grid: pathfind.NewGrid(3, 3), Goal: pathfind.Pos{Row: 2, Col: 2}}},
		{Kind: "kmeans", Input: experiment.Input{Points: []ml.Point{{X: 1}}, Params: experiment.Params{K: 2}}},
	}
	out, err := experiment.RunBatch(context.Background(), s, nil, jobs, 2)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, engine.ReasonCompleted, out[0].Reason)
	assert.Equal(t, []int{0, 1, 2, 3}, out[0].Payload)
	assert.Equal(t, 6.0, out[0].Metrics["comparisons"])

	assert.Equal(t, engine.ReasonCompleted, out[1].Reason)
	assert.Len(t, out[1].Payload, 5)
	assert.Equal(t, 5.0, out[1].Metrics["path_length"])

	assert.Equal(t, engine.ReasonInvalid, out[2].Reason)

	_, err = experiment.RunBatch(context.Background(), s, nil, []experiment.Job{{Kind: "bogo"}}, 0)
	assert.ErrorIs(t, err, engine.ErrUnknownAlgorithm)
}
