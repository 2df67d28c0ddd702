// Package automation runs scripted sequences of headless runs, parameter
// sweeps and seed trials.
package automation

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/algostep/internal/config"
	"github.com/san-kum/algostep/internal/control"
	"github.com/san-kum/algostep/internal/engine"
	"github.com/san-kum/algostep/internal/experiment"
	"github.com/san-kum/algostep/internal/metrics"
	"github.com/san-kum/algostep/internal/store"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep configures one run. Preset, when set, replaces the defaults
// before the remaining fields are applied.
type ScenarioStep struct {
	Algorithm string              `yaml:"algorithm"`
	Preset    string              `yaml:"preset"`
	Seed      int64               `yaml:"seed"`
	Speed     int                 `yaml:"speed"`
	Values    []int               `yaml:"values"`
	Params    config.ParamsConfig `yaml:"params"`
	Expect    string              `yaml:"expect"`
	SaveAs    string              `yaml:"save_as"`
}

type StepResult struct {
	Algorithm string
	Run       string
	Reason    engine.Reason
	Steps     int
	Payload   any
	Err       error
	Metrics   map[string]float64
}

type Runner struct {
	Scheduler *engine.Scheduler
	Registry  *experiment.Registry
	Log       *logrus.Entry
	// Out receives one progress line per run; nil discards.
	Out io.Writer
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (r *Runner) registry() *experiment.Registry {
	if r.Registry == nil {
		r.Registry = experiment.NewRegistry()
	}
	return r.Registry
}

func (r *Runner) printf(format string, args ...any) {
	if r.Out != nil {
		fmt.Fprintf(r.Out, format, args...)
	}
}

// RunScenario executes the steps in order and stops at the first step whose
// reason differs from its Expect.
func (r *Runner) RunScenario(ctx context.Context, sc *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(sc.Steps))
	for i, step := range sc.Steps {
		r.printf("Running step %d/%d: %s\n", i+1, len(sc.Steps), step.Algorithm)

		cfg, err := step.config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		res, trace, err := r.runOne(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		results = append(results, res)

		if step.SaveAs != "" {
			if err := store.ExportJSON(step.SaveAs, trace); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		if step.Expect != "" && step.Expect != res.Reason.String() {
			return results, fmt.Errorf("step %d: %s ended %s, expected %s", i+1, step.Algorithm, res.Reason, step.Expect)
		}
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
	}
	return results, nil
}

func (s ScenarioStep) config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Algorithm, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %s/%s", s.Algorithm, s.Preset)
		}
	}
	cfg.Algorithm = s.Algorithm
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Speed != 0 {
		cfg.Speed = s.Speed
	}
	if len(s.Values) > 0 {
		cfg.Array.Values = s.Values
	}
	if s.Params != (config.ParamsConfig{}) {
		cfg.Params = s.Params
	}
	return cfg, nil
}

func (r *Runner) runOne(ctx context.Context, cfg *config.Config) (StepResult, *store.Trace, error) {
	exp := experiment.New(cfg, r.registry())
	in, err := exp.Input()
	if err != nil {
		return StepResult{}, nil, err
	}
	d, err := r.registry().Build(cfg.Algorithm, in)
	if err != nil {
		return StepResult{}, nil, err
	}
	fam, _ := r.registry().Family(cfg.Algorithm)

	set := metrics.NewSet(metrics.ForAlgorithm(string(fam))...)
	rec := engine.NewRecorder()
	var payload any
	start := time.Now()
	h := r.Scheduler.Start(ctx, d, engine.Tee(set, rec), control.NewFixed(cfg.Speed), func(p any) { payload = p })
	h.Wait()

	res := StepResult{
		Algorithm: cfg.Algorithm,
		Run:       h.ID(),
		Reason:    h.Reason(),
		Steps:     h.Steps(),
		Payload:   payload,
		Err:       h.Err(),
		Metrics:   set.Values(),
	}
	if r.Log != nil {
		r.Log.WithFields(logrus.Fields{
			"algorithm": cfg.Algorithm,
			"reason":    res.Reason,
			"steps":     res.Steps,
			"elapsed":   time.Since(start),
		}).Info("scenario step finished")
	}
	trace, err := store.NewTrace(h, cfg.Seed, rec.Frames(), payload, res.Metrics)
	if err != nil {
		return res, nil, err
	}
	return res, trace, nil
}
