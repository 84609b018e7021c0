package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"battery-scheduler/internal/model"
	"battery-scheduler/internal/optimizer"
)

// Config is the on-disk tunables shape (YAML).
type Config struct {
	// Optional: load battery parameters from a separate YAML (e.g. batteries/*.yaml).
	// Values in the main file's battery section override the battery file.
	BatteryFile string           `yaml:"battery_file" json:"battery_file,omitempty"`
	Timezone    string           `yaml:"timezone" json:"timezone"`
	Battery     BatteryConfig    `yaml:"battery" json:"battery"`
	Optimizer   optimizer.Params `yaml:"optimizer" json:"optimizer"`
}

type BatteryConfig struct {
	Name                string  `yaml:"name" json:"name,omitempty"`
	CapacityKWh         float64 `yaml:"capacity_kwh" json:"capacity_kwh"`
	ChargeEfficiency    float64 `yaml:"charge_efficiency" json:"charge_efficiency"`
	DischargeEfficiency float64 `yaml:"discharge_efficiency" json:"discharge_efficiency"`
	MinSOCPct           float64 `yaml:"min_soc_pct" json:"min_soc_pct"`
	MaxSOCPct           float64 `yaml:"max_soc_pct" json:"max_soc_pct"`
	// InitialSOCPct of 0 starts the day full (MaxSOCPct).
	InitialSOCPct float64 `yaml:"initial_soc_pct" json:"initial_soc_pct"`
}

const DefaultTimezone = "Europe/Kyiv"

// Default returns the reference configuration.
func Default() Config {
	b := model.DefaultBatteryParams()
	return Config{
		Timezone: DefaultTimezone,
		Battery: BatteryConfig{
			Name:                "default",
			CapacityKWh:         b.CapacityKWh,
			ChargeEfficiency:    b.ChargeEfficiency,
			DischargeEfficiency: b.DischargeEfficiency,
			MinSOCPct:           b.MinSOCPct,
			MaxSOCPct:           b.MaxSOCPct,
		},
		Optimizer: optimizer.DefaultParams(),
	}
}

// Load reads path over the defaults and validates the result.
// An empty path yields the validated defaults.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and layers config (defaults < battery_file < main file),
// but does not validate it. Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return &c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var head struct {
		BatteryFile string `yaml:"battery_file"`
	}
	if err := yaml.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", model.ErrConfiguration, path, err)
	}
	if head.BatteryFile != "" {
		if err := loadBatteryFile(resolveRelative(path, head.BatteryFile), &c.Battery); err != nil {
			return nil, err
		}
	}

	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", model.ErrConfiguration, path, err)
	}
	return &c, nil
}

// resolveRelative prefers interpreting rel as relative to the config file
// directory, but falls back to the path as given (relative to cwd).
func resolveRelative(configPath, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	cand := filepath.Join(filepath.Dir(configPath), rel)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return rel
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if err := c.Battery.ToModelParams().Validate(); err != nil {
		return fmt.Errorf("battery config invalid: %w", err)
	}
	if s := c.Battery.InitialSOCPct; !model.IsFinite(s) || s < 0 || s > 100 {
		return model.ConfigErrorf("battery.initial_soc_pct must be in [0, 100] (got %v)", s)
	}
	if err := c.Optimizer.Validate(); err != nil {
		return fmt.Errorf("optimizer config invalid: %w", err)
	}
	return nil
}

// Location resolves the configured time zone; empty means local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, model.ConfigErrorf("timezone %q: %v", c.Timezone, err)
	}
	return loc, nil
}

func (b BatteryConfig) ToModelParams() model.BatteryParams {
	return model.BatteryParams{
		CapacityKWh:         b.CapacityKWh,
		ChargeEfficiency:    b.ChargeEfficiency,
		DischargeEfficiency: b.DischargeEfficiency,
		MinSOCPct:           b.MinSOCPct,
		MaxSOCPct:           b.MaxSOCPct,
	}
}

// StartSOCPct is the SOC a simulated day begins with.
func (b BatteryConfig) StartSOCPct() float64 {
	if b.InitialSOCPct == 0 {
		return b.MaxSOCPct
	}
	return b.InitialSOCPct
}

type batteryFileWrapper struct {
	Battery *BatteryConfig `yaml:"battery"`
}

// loadBatteryFile decodes the preset's battery section onto dst, keeping
// fields the preset does not set.
func loadBatteryFile(path string, dst *BatteryConfig) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("battery_file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &batteryFileWrapper{Battery: dst}); err != nil {
		return fmt.Errorf("%w: parse battery_file %s: %v", model.ErrConfiguration, path, err)
	}
	return nil
}

// MergeBattery overlays non-zero fields from override onto base.
// This is used when applying per-request overrides to the loaded battery.
func MergeBattery(base, override BatteryConfig) BatteryConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.CapacityKWh != 0 {
		out.CapacityKWh = override.CapacityKWh
	}
	if override.ChargeEfficiency != 0 {
		out.ChargeEfficiency = override.ChargeEfficiency
	}
	if override.DischargeEfficiency != 0 {
		out.DischargeEfficiency = override.DischargeEfficiency
	}
	// A zero floor cannot be requested this way; use the config file instead.
	if override.MinSOCPct != 0 {
		out.MinSOCPct = override.MinSOCPct
	}
	if override.MaxSOCPct != 0 {
		out.MaxSOCPct = override.MaxSOCPct
	}
	if override.InitialSOCPct != 0 {
		out.InitialSOCPct = override.InitialSOCPct
	}
	return out
}
