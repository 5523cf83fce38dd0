// Package config loads the service configuration: listen address, database
// path, plant timezone, the shift table, and the defect-code exclusion list
// used by dashboard percentages. The shift table and exclusion list are data,
// not code, so they live here rather than as constants in the engine.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"prodscan/internal/shiftcal"
)

// ShiftConfig is one shift window in the YAML file. Times are inclusive
// "HH:MM:SS" clock values; an end before the start wraps midnight.
type ShiftConfig struct {
	ID    string `yaml:"id"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Config is the full service configuration.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DBPath     string `yaml:"db_path"`
	Timezone   string `yaml:"timezone"`

	Shifts []ShiftConfig `yaml:"shifts"`

	// ExcludedDefectCodes are left out of defect-share percentages on the
	// dashboard. Kept as configuration because the taxonomy behind the list
	// is owned by quality, not by this service.
	ExcludedDefectCodes []string `yaml:"excluded_defect_codes"`
}

// Default returns the built-in configuration: the canonical three-shift
// table, the plant timezone, and a local sqlite file.
func Default() *Config {
	return &Config{
		ListenAddr: ":8080",
		DBPath:     "prodscan.db",
		Timezone:   "America/Mexico_City",
		Shifts: []ShiftConfig{
			{ID: "1", Start: "07:10:00", End: "15:44:59"},
			{ID: "2", Start: "15:45:00", End: "23:49:59"},
			{ID: "3", Start: "23:50:00", End: "07:09:59"},
		},
	}
}

// Load reads the YAML file at path over the defaults and applies env
// overrides. An empty path skips the file and still applies overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PRODSCAN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("PRODSCAN_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("PRODSCAN_TZ"); v != "" {
		c.Timezone = v
	}
}

// ShiftDefinitions parses the configured shift table. The result still has to
// pass shiftcal.New, which enforces the partition invariant.
func (c *Config) ShiftDefinitions() ([]shiftcal.ShiftDefinition, error) {
	defs := make([]shiftcal.ShiftDefinition, 0, len(c.Shifts))
	for _, s := range c.Shifts {
		start, err := parseClock(s.Start)
		if err != nil {
			return nil, fmt.Errorf("shift %s start: %w", s.ID, err)
		}
		end, err := parseClock(s.End)
		if err != nil {
			return nil, fmt.Errorf("shift %s end: %w", s.ID, err)
		}
		defs = append(defs, shiftcal.ShiftDefinition{ID: s.ID, Start: start, End: end})
	}
	return defs, nil
}

// Location resolves the plant timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func parseClock(s string) (time.Duration, error) {
	var hh, mm, ss int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &hh, &mm, &ss); err != nil {
		if _, err := fmt.Sscanf(s, "%d:%d", &hh, &mm); err != nil {
			return 0, fmt.Errorf("bad clock value %q", s)
		}
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 || ss < 0 || ss > 59 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}
	return time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute + time.Duration(ss)*time.Second, nil
}
