// Package config loads the run configuration from YAML or JSON with
// environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/model"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/physics"
	"github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/uc"
)

type Config struct {
	Run       RunConfig           `json:"run"`
	Builder   uc.Config           `json:"builder"`
	Physics   physics.Config      `json:"physics"`
	Storage   model.StorageParams `json:"storage"`
	Depletion map[string]float64  `json:"depletion"` // keff slope per reactor family
	Inputs    InputConfig         `json:"inputs"`
	Metrics   MetricsConfig       `json:"metrics"`
}

// RunConfig shapes the rolling loop.
type RunConfig struct {
	Windows       int    `json:"windows"`
	WindowHours   int    `json:"window_hours"`
	CheckpointDir string `json:"checkpoint_dir"`
	OutputDir     string `json:"output_dir"`
	// Resume restarts from the checkpoint of the given window; zero or
	// negative starts fresh.
	Resume int `json:"resume"`
}

// InputConfig points at the CSV inputs.
type InputConfig struct {
	Fleet            string `json:"fleet"`
	Load             string `json:"load"`
	CapacityFactors  string `json:"capacity_factors"`
	DeadtimeTable    string `json:"deadtime_table"`
	ReactivityLimits string `json:"reactivity_limits"`
}

// MetricsConfig selects observability sinks.
type MetricsConfig struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    int    `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults fills unset values.
func (c *Config) SetDefaults() {
	if c.Run.WindowHours == 0 {
		c.Run.WindowHours = 24
	}
	if c.Run.Windows == 0 {
		c.Run.Windows = 1
	}
	if c.Run.CheckpointDir == "" {
		c.Run.CheckpointDir = "checkpoints"
	}
	if c.Run.OutputDir == "" {
		c.Run.OutputDir = "results"
	}
	if c.Metrics.PrometheusPort == 0 {
		c.Metrics.PrometheusPort = 2112
	}
	def := uc.DefaultConfig()
	if c.Builder.NSEPenalty == 0 {
		c.Builder.NSEPenalty = def.NSEPenalty
	}
	if c.Builder.BigM == 0 {
		c.Builder.BigM = def.BigM
	}
	if c.Builder.RampTolerance == 0 {
		c.Builder.RampTolerance = def.RampTolerance
	}
	if c.Builder.StableSpan == 0 {
		c.Builder.StableSpan = def.StableSpan
	}
	if c.Builder.DefaultDowntime == 0 {
		c.Builder.DefaultDowntime = def.DefaultDowntime
	}
	if c.Physics.RefuelSpan == 0 {
		c.Physics.RefuelSpan = 30
	}
	if c.Physics.DefaultDowntime == 0 {
		c.Physics.DefaultDowntime = c.Builder.DefaultDowntime
	}
}

// Validate rejects unusable configurations.
func (c *Config) Validate() error {
	if c.Run.Windows <= 0 {
		return fmt.Errorf("run.windows must be positive")
	}
	if c.Run.WindowHours <= 0 {
		return fmt.Errorf("run.window_hours must be positive")
	}
	if err := c.Builder.Validate(); err != nil {
		return err
	}
	if c.Inputs.Fleet == "" || c.Inputs.Load == "" {
		return fmt.Errorf("inputs.fleet and inputs.load are required")
	}
	return nil
}

// Coefficients converts the per-family depletion slopes.
func (c *Config) Coefficients() physics.Coefficients {
	out := make(physics.Coefficients, len(c.Depletion))
	for fam, m := range c.Depletion {
		out[model.ResourceType(fam)] = m
	}
	return out
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("UC_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "uc_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	// An explicit ramp_tolerance of 0 is a valid setting (every dispatch
	// change counts as a ramp); SetDefaults cannot tell it from unset, so
	// key presence decides.
	if k.Exists("builder.ramp_tolerance") {
		cfg.Builder.RampTolerance = k.Float64("builder.ramp_tolerance")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
