package genetic

import (
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/baldhumanity/neuroflap/genetic/nn"
)

// Config stores the configuration parameters for the genetic algorithm.
type Config struct {
	GA      GAConfig
	Network NetworkConfig
	Bridge  BridgeConfig
}

// GAConfig holds the population and mutation parameters.
type GAConfig struct {
	MaxUnits          int     `ini:"max_units"`           // Population size.
	TopUnits          int     `ini:"top_units"`           // Winners kept as parents each generation.
	InitialMutateRate float64 `ini:"initial_mutate_rate"` // Rate used until the population is viable.
	SteadyMutateRate  float64 `ini:"steady_mutate_rate"`  // Rate used once the population is viable.
}

// NetworkConfig holds the controller network layout.
type NetworkConfig struct {
	NumInputs  int     `ini:"num_inputs"`
	NumHidden  int     `ini:"num_hidden"`
	NumOutputs int     `ini:"num_outputs"`
	InitRange  float64 `ini:"init_range"` // Initial biases/weights are drawn from [-init_range, init_range).
}

// BridgeConfig holds the observation normalization parameters.
type BridgeConfig struct {
	ClampX       float64 `ini:"clamp_x"`
	ClampY       float64 `ini:"clamp_y"`
	ScaleFactor  float64 `ini:"scale_factor"`
	ActThreshold float64 `ini:"act_threshold"` // The unit acts when its output is strictly above this.
}

// Layout returns the network layout described by the config.
func (c NetworkConfig) Layout() nn.Layout {
	return nn.Layout{
		Inputs:    c.NumInputs,
		Hidden:    c.NumHidden,
		Outputs:   c.NumOutputs,
		InitRange: c.InitRange,
	}
}

// DefaultConfig returns the configuration of the original demo: ten 2-6-1
// units evolved from the best four.
func DefaultConfig() *Config {
	return &Config{
		GA: GAConfig{
			MaxUnits:          10,
			TopUnits:          4,
			InitialMutateRate: 1.0,
			SteadyMutateRate:  0.2,
		},
		Network: NetworkConfig{
			NumInputs:  2,
			NumHidden:  6,
			NumOutputs: 1,
			InitRange:  nn.DefaultInitRange,
		},
		Bridge: BridgeConfig{
			ClampX:       700,
			ClampY:       800,
			ScaleFactor:  200,
			ActThreshold: 0.5,
		},
	}
}

// LoadConfig loads configuration parameters from an INI file. Keys missing
// from the file keep their DefaultConfig value.
func LoadConfig(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}

	config := DefaultConfig()

	if err := cfg.Section("GeneticAlgorithm").MapTo(&config.GA); err != nil {
		return nil, fmt.Errorf("failed to map [GeneticAlgorithm] section: %w", err)
	}
	if err := cfg.Section("Network").MapTo(&config.Network); err != nil {
		return nil, fmt.Errorf("failed to map [Network] section: %w", err)
	}
	if err := cfg.Section("Bridge").MapTo(&config.Bridge); err != nil {
		return nil, fmt.Errorf("failed to map [Bridge] section: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration. TopUnits above MaxUnits is not an error;
// it is clamped to MaxUnits.
func (c *Config) Validate() error {
	if c.GA.MaxUnits <= 0 {
		return fmt.Errorf("config error: max_units must be positive")
	}
	if c.GA.TopUnits <= 0 {
		return fmt.Errorf("config error: top_units must be positive")
	}
	if c.GA.TopUnits > c.GA.MaxUnits {
		c.GA.TopUnits = c.GA.MaxUnits
	}
	if c.GA.InitialMutateRate <= 0 || c.GA.InitialMutateRate > 1 {
		return fmt.Errorf("config error: initial_mutate_rate must be in (0, 1]")
	}
	if c.GA.SteadyMutateRate <= 0 || c.GA.SteadyMutateRate > 1 {
		return fmt.Errorf("config error: steady_mutate_rate must be in (0, 1]")
	}
	if c.GA.SteadyMutateRate >= c.GA.InitialMutateRate {
		return fmt.Errorf("config error: steady_mutate_rate must be lower than initial_mutate_rate")
	}

	if c.Network.NumInputs != 2 {
		return fmt.Errorf("config error: num_inputs must be 2 (horizontal and vertical offset)")
	}
	if c.Network.NumOutputs <= 0 {
		return fmt.Errorf("config error: num_outputs must be positive")
	}
	if c.Network.NumHidden < 0 {
		return fmt.Errorf("config error: num_hidden cannot be negative")
	}
	if c.Network.InitRange <= 0 {
		return fmt.Errorf("config error: init_range must be positive")
	}

	if c.Bridge.ClampX <= 0 || c.Bridge.ClampY <= 0 {
		return fmt.Errorf("config error: clamp_x and clamp_y must be positive")
	}
	if c.Bridge.ScaleFactor == 0 {
		return fmt.Errorf("config error: scale_factor cannot be zero")
	}
	return nil
}
