// Package config holds the generation parameters: gate count, school
// placement ranges and the random seed. Defaults match the documented tool
// defaults; an optional YAML file overrides them and everything is validated
// before any engine runs.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// IntRange is an inclusive integer interval.
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

func (r IntRange) check(name string) error {
	if r.Max < r.Min {
		return fmt.Errorf("config %s: max %d below min %d", name, r.Max, r.Min)
	}
	return nil
}

// HourRange is a half-open interval of hours on a 24h clock.
type HourRange struct {
	Earliest int `yaml:"earliest" validate:"min=0,max=24"`
	Latest   int `yaml:"latest" validate:"min=0,max=24"`
}

func (r HourRange) check(name string) error {
	if r.Latest <= r.Earliest {
		return fmt.Errorf("config %s: latest hour %d not after earliest %d", name, r.Latest, r.Earliest)
	}
	return nil
}

// Gates configures city gate placement.
type Gates struct {
	Count int `yaml:"count" validate:"min=0"`
}

// Schools configures school placement and attribute synthesis.
// A nil Count means "derive from population via Ratio".
type Schools struct {
	Count    *int      `yaml:"count" validate:"omitempty,min=0"`
	Ratio    float64   `yaml:"ratio" validate:"gt=0"`    // schools per 1000 inhabitants
	StepSize float64   `yaml:"stepsize" validate:"gt=0"` // opening/closing granularity, hours
	Open     HourRange `yaml:"open"`
	Close    HourRange `yaml:"close"`
	BeginAge IntRange  `yaml:"begin-age"`
	EndAge   IntRange  `yaml:"end-age"`
	Capacity IntRange  `yaml:"capacity"`
}

// Config is the full generation configuration.
type Config struct {
	Gates   Gates   `yaml:"gates"`
	Schools Schools `yaml:"schools"`
	Seed    int64   `yaml:"seed"`
}

// Default returns the stock configuration: four gates, 0.2 schools per 1000
// inhabitants, 15-minute opening granularity.
func Default() Config {
	return Config{
		Gates: Gates{Count: 4},
		Schools: Schools{
			Count:    nil, // auto
			Ratio:    0.2,
			StepSize: 0.25,
			Open:     HourRange{Earliest: 7, Latest: 10},
			Close:    HourRange{Earliest: 13, Latest: 17},
			BeginAge: IntRange{Min: 6, Max: 20},
			EndAge:   IntRange{Min: 10, Max: 30},
			Capacity: IntRange{Min: 100, Max: 500},
		},
		Seed: 31415,
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects contract violations before any generation runs.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	checks := []error{
		c.Schools.Open.check("schools.open"),
		c.Schools.Close.check("schools.close"),
		c.Schools.BeginAge.check("schools.begin-age"),
		c.Schools.EndAge.check("schools.end-age"),
		c.Schools.Capacity.check("schools.capacity"),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if c.Schools.EndAge.Max <= c.Schools.BeginAge.Min {
		return fmt.Errorf("config schools: end-age max %d leaves no room above begin-age min %d",
			c.Schools.EndAge.Max, c.Schools.BeginAge.Min)
	}
	return nil
}

// StepSeconds returns the opening/closing quantization step in seconds.
func (s Schools) StepSeconds() int {
	return int(s.StepSize * 3600)
}
