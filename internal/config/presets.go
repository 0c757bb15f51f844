package config

import (
	"sort"

	"github.com/san-kum/contnet/internal/ode"
	"github.com/san-kum/contnet/internal/params"
)

func preset(model string, scheme ode.Method, nStep int, tweak func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Model = model
	cfg.Scheme = scheme
	cfg.NStep = nStep
	if tweak != nil {
		tweak(cfg)
	}
	return cfg
}

var Presets = map[string]map[string]*Config{
	"decay": {
		"coarse": preset("decay", ode.MethodEuler, 10, nil),
		"fine":   preset("decay", ode.MethodRK4, 100, nil),
		"stiff": preset("decay", ode.MethodRK4, 20, func(c *Config) {
			c.ModelParams.Rate = 25
		}),
		"varying": preset("decay", ode.MethodMidpoint, 64, func(c *Config) {
			c.Basis = params.KindLinear
			c.Nodes = 8
			c.InitState = []float64{1, -1, 0.5}
		}),
	},
	"oscillator": {
		"period": preset("oscillator", ode.MethodRK4, 200, func(c *Config) {
			c.InitState = []float64{1, 0}
		}),
		"euler_drift": preset("oscillator", ode.MethodEuler, 200, func(c *Config) {
			c.InitState = []float64{1, 0}
		}),
		"three_eighths": preset("oscillator", ode.MethodRK438, 50, func(c *Config) {
			c.InitState = []float64{0, 1}
		}),
	},
	"dense": {
		"small": preset("dense", ode.MethodRK4, 20, func(c *Config) {
			c.InitState = nil
			c.Basis = params.KindLinear
		}),
		"wide": preset("dense", ode.MethodRK438, 40, func(c *Config) {
			c.InitState = nil
			c.Basis = params.KindLinear
			c.Nodes = 8
			c.Dense = DenseConfig{Batch: 32, Width: 16, Momentum: 0.99}
		}),
		"refined": preset("dense", ode.MethodMidpoint, 64, func(c *Config) {
			c.InitState = nil
			c.Nodes = 16
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names of model in sorted order.
func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetModels returns the models that have presets, sorted.
func PresetModels() []string {
	models := make([]string, 0, len(Presets))
	for m := range Presets {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}
