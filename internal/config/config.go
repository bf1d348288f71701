// Package config holds the tunable analysis parameters. Service-level
// settings (port, paths, gateway credentials) stay in the environment;
// everything an analyst might tune per run lives here and can be loaded
// from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"sales-insights-go/internal/temporal"
)

// Params represents one analysis run's settings. The yaml tags feed the
// parameter file, the json tags the report echo.
type Params struct {
	Timeframe             string   `yaml:"timeframe" json:"timeframe"`                             // see temporal.ParseTimeframe
	MinR2                 float64  `yaml:"min_r2" json:"min_r2"`                                   // trend acceptance threshold
	RegionMinVolume       int      `yaml:"region_min_volume" json:"region_min_volume"`             // category floor, department level
	AgentMinVolume        int      `yaml:"agent_min_volume" json:"agent_min_volume"`               // category floor, per agent
	CohortMinPassthroughs int      `yaml:"cohort_min_passthroughs" json:"cohort_min_passthroughs"` // quartile qualification floor
	ChartPoints           int      `yaml:"chart_points" json:"chart_points"`                       // decimation target
	ExcludedRegions       []string `yaml:"excluded_regions,omitempty" json:"excluded_regions,omitempty"`
	SeniorAgents          []string `yaml:"senior_agents,omitempty" json:"senior_agents,omitempty"`
}

// Default returns the tuned defaults applied when no file is given.
func Default() *Params {
	return &Params{
		Timeframe:             "all",
		MinR2:                 0.5,
		RegionMinVolume:       5,
		AgentMinVolume:        3,
		CohortMinPassthroughs: 5,
		ChartPoints:           60,
	}
}

// Load reads a YAML parameter file over the defaults, so a file only
// needs the keys it changes.
func Load(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read params file: %w", err)
	}

	params := Default()
	if err := yaml.Unmarshal(data, params); err != nil {
		return nil, fmt.Errorf("failed to parse params file: %w", err)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// Save writes the parameters to a YAML file, creating directories as
// needed.
func (p *Params) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create params directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write params file: %w", err)
	}
	return nil
}

// Validate rejects parameter sets no analysis can honour.
func (p *Params) Validate() error {
	if _, ok := temporal.ParseTimeframe(p.Timeframe); !ok {
		return fmt.Errorf("unknown timeframe %q", p.Timeframe)
	}
	if p.MinR2 < 0 || p.MinR2 > 1 {
		return fmt.Errorf("min_r2 must be within [0,1], got %v", p.MinR2)
	}
	if p.RegionMinVolume < 0 || p.AgentMinVolume < 0 || p.CohortMinPassthroughs < 0 {
		return fmt.Errorf("volume floors must not be negative")
	}
	if p.ChartPoints < 0 {
		return fmt.Errorf("chart_points must not be negative, got %d", p.ChartPoints)
	}
	return nil
}

// Window resolves the configured timeframe against now.
func (p *Params) Window(now time.Time) temporal.Window {
	tf, _ := temporal.ParseTimeframe(p.Timeframe)
	return tf.Bounds(now)
}

// IsSenior reports whether the agent is on the configured senior list,
// ignoring case and surrounding space.
func (p *Params) IsSenior(agent string) bool {
	a := strings.ToLower(strings.TrimSpace(agent))
	for _, s := range p.SeniorAgents {
		if strings.ToLower(strings.TrimSpace(s)) == a {
			return true
		}
	}
	return false
}
