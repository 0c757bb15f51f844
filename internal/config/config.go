package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/contnet/internal/ode"
	"github.com/san-kum/contnet/internal/params"
	"github.com/san-kum/contnet/internal/tensor"
	"gopkg.in/yaml.v3"
)

const (
	DefaultNStep    = 100
	DefaultNodes    = 4
	DefaultRate     = 1.0
	DefaultOmega    = 6.283185307179586
	DefaultBatch    = 8
	DefaultWidth    = 4
	DefaultMomentum = 0.9
	DefaultStore    = "fs"
	DefaultDataDir  = ".contnet"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Model       string      `yaml:"model"`
	Scheme      ode.Method  `yaml:"scheme"`
	NStep       int         `yaml:"n_step"`
	Seed        int64       `yaml:"seed"`
	Basis       params.Kind `yaml:"basis"`
	Nodes       int         `yaml:"nodes"`
	InitState   []float64   `yaml:"init_state,omitempty"`
	Shape       []int       `yaml:"shape,omitempty"`
	ModelParams ModelConfig `yaml:"params"`
	Dense       DenseConfig `yaml:"dense"`
	Store       StoreConfig `yaml:"store"`
}

// ModelConfig holds the scalar parameters of the closed-form models.
type ModelConfig struct {
	Rate  float64 `yaml:"rate"`
	Omega float64 `yaml:"omega"`
}

type DenseConfig struct {
	Batch    int     `yaml:"batch"`
	Width    int     `yaml:"width"`
	Momentum float64 `yaml:"momentum"`
}

type StoreConfig struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:     "decay",
		Scheme:    ode.MethodRK4,
		NStep:     DefaultNStep,
		Seed:      42,
		Basis:     params.KindConstant,
		Nodes:     DefaultNodes,
		InitState: []float64{1.0},
		ModelParams: ModelConfig{
			Rate:  DefaultRate,
			Omega: DefaultOmega,
		},
		Dense: DenseConfig{
			Batch:    DefaultBatch,
			Width:    DefaultWidth,
			Momentum: DefaultMomentum,
		},
		Store: StoreConfig{
			Kind: DefaultStore,
			Path: DefaultDataDir,
		},
	}
}

// Load reads a config from YAML on top of the defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalid)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model must be set", ErrInvalid)
	}
	if !c.Scheme.Valid() {
		return fmt.Errorf("%w: scheme %v", ErrInvalid, c.Scheme)
	}
	if c.NStep < 1 {
		return fmt.Errorf("%w: n_step must be >= 1 (got %d)", ErrInvalid, c.NStep)
	}
	if _, err := params.ParseKind(string(c.Basis)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	minNodes := 1
	if c.Basis == params.KindLinear {
		minNodes = 2
	}
	if c.Nodes < minNodes {
		return fmt.Errorf("%w: %s basis needs nodes >= %d (got %d)", ErrInvalid, c.Basis, minNodes, c.Nodes)
	}
	if len(c.Shape) > 0 && len(c.InitState) > 0 {
		if _, err := tensor.New(c.Shape, c.InitState); err != nil {
			return fmt.Errorf("%w: init_state: %v", ErrInvalid, err)
		}
	}
	if c.Model == "dense" {
		if c.Dense.Batch <= 0 || c.Dense.Width <= 0 {
			return fmt.Errorf("%w: dense batch and width must be > 0 (got %d, %d)", ErrInvalid, c.Dense.Batch, c.Dense.Width)
		}
		if c.Dense.Momentum < 0 || c.Dense.Momentum >= 1 {
			return fmt.Errorf("%w: dense momentum must be in [0, 1) (got %g)", ErrInvalid, c.Dense.Momentum)
		}
	}
	switch c.Store.Kind {
	case "fs", "memory", "sqlite":
	default:
		return fmt.Errorf("%w: store kind %q", ErrInvalid, c.Store.Kind)
	}
	return nil
}

// InitialState builds the starting tensor from init_state and shape. A
// missing shape means a vector. It returns ok=false when no state is
// configured and the model should draw one.
func (c *Config) InitialState() (x tensor.Tensor, ok bool, err error) {
	if len(c.InitState) == 0 {
		return tensor.Tensor{}, false, nil
	}
	shape := c.Shape
	if len(shape) == 0 {
		shape = []int{len(c.InitState)}
	}
	x, err = tensor.New(shape, c.InitState)
	if err != nil {
		return tensor.Tensor{}, false, err
	}
	return x, true, nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.InitState = append([]float64(nil), c.InitState...)
	out.Shape = append([]int(nil), c.Shape...)
	return &out
}

// Tunable lists the names accepted by SetParam.
var Tunable = []string{"rate", "omega", "n_step", "nodes", "momentum", "seed"}

// SetParam assigns a numeric field by name. Integer fields are truncated.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "rate":
		c.ModelParams.Rate = v
	case "omega":
		c.ModelParams.Omega = v
	case "n_step":
		c.NStep = int(v)
	case "nodes":
		c.Nodes = int(v)
	case "momentum":
		c.Dense.Momentum = v
	case "seed":
		c.Seed = int64(v)
	default:
		return fmt.Errorf("%w: unknown parameter %q", ErrInvalid, name)
	}
	return nil
}
