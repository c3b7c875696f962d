// Package config loads and saves the study configuration as YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"carnot-adex/pkg/cycle"
	"carnot-adex/pkg/solver"
)

type Config struct {
	HeatPump            cycle.HeatPumpParams `yaml:"heat_pump"`
	HeatPumpUnavoidable cycle.HeatPumpParams `yaml:"heat_pump_unavoidable"`

	Rankine            cycle.RankineParams `yaml:"rankine"`
	RankineUnavoidable cycle.RankineParams `yaml:"rankine_unavoidable"`

	Solver solver.Options `yaml:"solver"`
	Pinch  float64        `yaml:"pinch"` // design pinch target (K)
}

// Default reproduces the built-in store charging/discharging study.
func Default() *Config {
	return &Config{
		HeatPump:            cycle.DefaultHeatPumpParams(),
		HeatPumpUnavoidable: cycle.UnavoidableHeatPumpParams(),
		Rankine:             cycle.DefaultRankineParams(),
		RankineUnavoidable:  cycle.UnavoidableRankineParams(),
		Solver:              solver.DefaultOptions(),
		Pinch:               5.0,
	}
}

// Load reads a YAML file over the defaults, so partial files only
// override what they mention.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %v", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %v", path, err)
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: %v", err)
	}
	return nil
}
