// Package automation runs scripted sequences of integrations and
// one-parameter sweeps.
package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/san-kum/contnet/internal/config"
	"github.com/san-kum/contnet/internal/experiment"
	"github.com/san-kum/contnet/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. The config is built from the preset (or the
// defaults), then the inline config, then Overrides.
type ScenarioStep struct {
	Model     string             `yaml:"model"`
	Preset    string             `yaml:"preset"`
	Config    yaml.Node          `yaml:"config"`
	Overrides map[string]float64 `yaml:"overrides"`
	SaveAs    string             `yaml:"save_as"`
}

// StepResult pairs a finished step with the ID it was stored under.
type StepResult struct {
	Name   string
	RunID  string
	Result *experiment.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

func (s ScenarioStep) resolve() (*config.Config, error) {
	var cfg *config.Config
	if s.Preset != "" {
		cfg = config.GetPreset(s.Model, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s/%s", s.Model, s.Preset)
		}
	} else {
		cfg = config.DefaultConfig()
		if s.Model != "" && s.Model != cfg.Model {
			cfg.InitState = nil
		}
	}
	if !s.Config.IsZero() {
		if err := s.Config.Decode(cfg); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	if s.Model != "" {
		cfg.Model = s.Model
	}
	for name, v := range s.Overrides {
		if err := cfg.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// RunScenario executes all steps in order and saves each run to st when
// st is non-nil. It stops at the first failing step.
func RunScenario(ctx context.Context, scenario *Scenario, st storage.Store, logger log.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	logger = log.With(logger, "subsys", "automation", "scenario", scenario.Name)
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		level.Info(logger).Log("msg", "running step", "step", i+1, "of", len(scenario.Steps), "model", cfg.Model)

		res, err := experiment.New(cfg, experiment.WithLogger(logger)).Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("%s-%d", cfg.Model, i+1)
		}
		out := StepResult{Name: name, Result: res}
		if st != nil {
			meta := experiment.Metadata(cfg, res)
			if step.SaveAs != "" {
				meta.ID = step.SaveAs
			}
			if out.RunID, err = st.Save(ctx, meta, res.Trajectory()); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, out)
	}

	return results, nil
}
