// Package config holds the run configuration. Values come from an optional
// YAML file layered over built-in defaults; command-line flags override both.
package config

import (
	"fmt"
	"os"

	"cdrgraft/internal/oasis"

	"gopkg.in/yaml.v3"
)

// Config is the full run configuration surface.
type Config struct {
	Scheme              string  `yaml:"scheme"`
	CDRDefinition       string  `yaml:"cdr_definition"`
	HeavyVGermline      string  `yaml:"heavy_v_germline"`
	LightVGermline      string  `yaml:"light_v_germline"`
	BackmutateVernier   bool    `yaml:"backmutate_vernier"`
	SapiensIterations   int     `yaml:"sapiens_iterations"`
	OASisDB             string  `yaml:"oasis_db"`
	MinFractionSubjects float64 `yaml:"min_fraction_subjects"`
	Limit               int     `yaml:"limit"`
	Workers             int     `yaml:"workers"`
	Output              string  `yaml:"output"`
	FastaOnly           bool    `yaml:"fasta_only"`
}

// Default returns the built-in defaults, matching the CLI flag defaults.
func Default() Config {
	return Config{
		Scheme:              "kabat",
		CDRDefinition:       "kabat",
		HeavyVGermline:      "auto",
		LightVGermline:      "auto",
		MinFractionSubjects: oasis.DefaultMinFractionSubjects,
		Workers:             1,
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
