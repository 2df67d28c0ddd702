package automation

import (
	"context"
	"fmt"

	"github.com/san-kum/algostep/internal/config"
	"github.com/san-kum/algostep/internal/engine"
	"github.com/san-kum/algostep/internal/experiment"
)

// ParameterSweep runs one algorithm across evenly spaced values of a
// single parameter, all on the same seed.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	// Parallel bounds concurrent runs; zero runs them all at once.
	Parallel int
}

type SweepResult struct {
	ParamValue float64
	Reason     engine.Reason
	Steps      int
	Metrics    map[string]float64
}

// Tunable parameter names accepted by a sweep.
var setters = map[string]func(*config.Config, float64){
	"k":             func(c *config.Config, v float64) { c.Params.K = int(v) },
	"eps":           func(c *config.Config, v float64) { c.Params.Eps = v },
	"min_pts":       func(c *config.Config, v float64) { c.Params.MinPts = int(v) },
	"learning_rate": func(c *config.Config, v float64) { c.Params.LearningRate = v },
	"iterations":    func(c *config.Config, v float64) { c.Params.Iterations = int(v) },
	"max_depth":     func(c *config.Config, v float64) { c.Params.MaxDepth = int(v) },
	"cell_size":     func(c *config.Config, v float64) { c.Params.CellSize = int(v) },
	"size":          func(c *config.Config, v float64) { c.Array.Size = int(v) },
	"density":       func(c *config.Config, v float64) { c.Grid.Density = v },
}

func (r *Runner) RunSweep(ctx context.Context, sw *ParameterSweep) ([]SweepResult, error) {
	set, ok := setters[sw.ParamName]
	if !ok {
		return nil, fmt.Errorf("parameter %q cannot be swept", sw.ParamName)
	}
	if sw.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sw.NumSteps)
	}
	step := 0.0
	if sw.NumSteps > 1 {
		step = (sw.ParamMax - sw.ParamMin) / float64(sw.NumSteps-1)
	}

	values := make([]float64, sw.NumSteps)
	jobs := make([]experiment.Job, sw.NumSteps)
	for i := range jobs {
		values[i] = sw.ParamMin + float64(i)*step
		cfg := *sw.Base
		set(&cfg, values[i])
		in, err := experiment.New(&cfg, r.registry()).Input()
		if err != nil {
			return nil, err
		}
		jobs[i] = experiment.Job{Kind: cfg.Algorithm, Input: in}
	}

	outcomes, err := experiment.RunBatch(ctx, r.Scheduler, r.registry(), jobs, sw.Parallel)
	if err != nil {
		return nil, err
	}
	results := make([]SweepResult, len(outcomes))
	for i, o := range outcomes {
		results[i] = SweepResult{ParamValue: values[i], Reason: o.Reason, Steps: o.Steps, Metrics: o.Metrics}
		r.printf("Sweep %d/%d: %s=%.4f %s in %d steps\n", i+1, len(outcomes), sw.ParamName, values[i], o.Reason, o.Steps)
	}
	return results, nil
}

// Trials runs the same configuration across consecutive seeds.
type Trials struct {
	Base      *config.Config
	NumTrials int
	Parallel  int
}

type TrialStats struct {
	Reasons  map[engine.Reason]int
	MinSteps int
	MaxSteps int
	AvgSteps float64
}

func (r *Runner) RunTrials(ctx context.Context, tr *Trials) (TrialStats, error) {
	jobs := make([]experiment.Job, tr.NumTrials)
	for i := range jobs {
		cfg := *tr.Base
		cfg.Seed = tr.Base.Seed + int64(i)
		in, err := experiment.New(&cfg, r.registry()).Input()
		if err != nil {
			return TrialStats{}, err
		}
		jobs[i] = experiment.Job{Kind: cfg.Algorithm, Input: in}
	}

	outcomes, err := experiment.RunBatch(ctx, r.Scheduler, r.registry(), jobs, tr.Parallel)
	if err != nil {
		return TrialStats{}, err
	}

	stats := TrialStats{Reasons: make(map[engine.Reason]int)}
	total := 0
	for i, o := range outcomes {
		stats.Reasons[o.Reason]++
		if i == 0 || o.Steps < stats.MinSteps {
			stats.MinSteps = o.Steps
		}
		stats.MaxSteps = max(stats.MaxSteps, o.Steps)
		total += o.Steps
		if (i+1)%10 == 0 {
			r.printf("Trials: %d/%d complete\n", i+1, len(outcomes))
		}
	}
	if len(outcomes) > 0 {
		stats.AvgSteps = float64(total) / float64(len(outcomes))
	}
	return stats, nil
}
