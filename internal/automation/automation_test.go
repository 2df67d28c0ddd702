package automation

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/algostep/internal/config"
	"github.com/san-kum/algostep/internal/engine"
	"github.com/san-kum/algostep/internal/store"
)

func newRunner(t *testing.T) *Runner {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)
	s, err := engine.New(engine.Config{PollInterval: time.Millisecond, MinSpeed: 1, MaxSpeed: 20}, engine.WithLogger(logrus.NewEntry(l)))
	require.NoError(t, err)
	return &Runner{Scheduler: s}
}

const scenarioYAML = `name: smoke
description: sort then cluster
steps:
  - algorithm: bubble
    values: [5, 3, 8, 1]
    expect: completed
  - algorithm: kmeans
    preset: two
    seed: 7
`

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smoke.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "smoke", sc.Name)
	require.Len(t, sc.Steps, 2)
	assert.Equal(t, []int{5, 3, 8, 1}, sc.Steps[0].Values)
	assert.Equal(t, "two", sc.Steps[1].Preset)
	assert.Equal(t, int64(7), sc.Steps[1].Seed)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunScenario(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bubble.json")
	sc := &Scenario{Steps: []ScenarioStep{
		{Algorithm: "bubble", Values: []int{5, 3, 8, 1}, Expect: "completed", SaveAs: out},
		{Algorithm: "kmeans", Preset: "two"},
	}}

	results, err := newRunner(t).RunScenario(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, engine.ReasonCompleted, results[0].Reason)
	assert.Equal(t, 6, results[0].Steps)
	assert.Equal(t, []int{0, 1, 2, 3}, results[0].Payload)
	assert.Equal(t, float64(6), results[0].Metrics["comparisons"])
	assert.True(t, results[1].Reason.Terminal())

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	trace, err := store.ReadJSON(f)
	require.NoError(t, err)
	assert.Equal(t, "bubble", trace.Algorithm)
	assert.Len(t, trace.Frames, 6)
}

func TestRunScenarioExpectMismatch(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{
		{Algorithm: "bubble", Values: []int{2, 1}, Expect: "exhausted"},
		{Algorithm: "bubble", Values: []int{1}},
	}}
	results, err := newRunner(t).RunScenario(context.Background(), sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected exhausted")
	assert.Len(t, results, 1)
}

func TestRunScenarioBadStep(t *testing.T) {
	r := newRunner(t)

	_, err := r.RunScenario(context.Background(), &Scenario{Steps: []ScenarioStep{{Algorithm: "bogo"}}})
	assert.Error(t, err)

	_, err = r.RunScenario(context.Background(), &Scenario{Steps: []ScenarioStep{{Algorithm: "bubble", Preset: "nope"}}})
	assert.ErrorContains(t, err, "unknown preset")
}

func TestRunScenarioUnreachableGoal(t *testing.T) {
	grid := config.GridConfig{Rows: 3, Cols: 3, Goal: [2]int{2, 2}, Layout: []string{"...", "..#", ".#."}}
	cfg := config.DefaultConfig()
	cfg.Algorithm = "bfs"
	cfg.Grid = grid
	cfg.Playback.PathDelayMS = 0

	res, _, err := newRunner(t).runOne(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, engine.ReasonExhausted, res.Reason)
	assert.Nil(t, res.Payload)
}

func TestRunSweep(t *testing.T) {
	base := config.GetPreset("kmeans", "five")
	require.NotNil(t, base)

	results, err := newRunner(t).RunSweep(context.Background(), &ParameterSweep{
		Base:      base,
		ParamName: "k",
		ParamMin:  1,
		ParamMax:  5,
		NumSteps:  5,
		Parallel:  2,
	})
	require.NoError(t, err)
	require.Len(t, results, 5)
	for i, r := range results {
		assert.Equal(t, float64(i+1), r.ParamValue)
		assert.True(t, r.Reason.Terminal())
		assert.Positive(t, r.Steps)
	}
}

func TestRunSweepRejectsUnknownParam(t *testing.T) {
	r := newRunner(t)
	_, err := r.RunSweep(context.Background(), &ParameterSweep{Base: config.DefaultConfig(), ParamName: "gravity", NumSteps: 3})
	assert.Error(t, err)

	_, err = r.RunSweep(context.Background(), &ParameterSweep{Base: config.DefaultConfig(), ParamName: "k"})
	assert.Error(t, err)
}

func TestRunTrials(t *testing.T) {
	base := config.DefaultConfig()
	base.Algorithm = "insertion"
	base.Array.Size = 12

	stats, err := newRunner(t).RunTrials(context.Background(), &Trials{Base: base, NumTrials: 8, Parallel: 4})
	require.NoError(t, err)
	assert.Equal(t, 8, stats.Reasons[engine.ReasonCompleted])
	assert.LessOrEqual(t, stats.MinSteps, stats.MaxSteps)
	assert.GreaterOrEqual(t, stats.AvgSteps, float64(stats.MinSteps))
	assert.LessOrEqual(t, stats.AvgSteps, float64(stats.MaxSteps))
}
