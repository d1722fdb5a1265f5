// Package config loads the settings of a generation run from YAML.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config describes one generation run. Paths are used as given.
type Config struct {
	Mappings  string `yaml:"mappings"`
	Input     string `yaml:"input" validate:"required"`
	Output    string `yaml:"output" validate:"required"`
	Libraries string `yaml:"libraries"`
	Namespace string `yaml:"namespace" validate:"required"`
	Strict    bool   `yaml:"strict"`
	Verbosity int    `yaml:"verbosity" validate:"gte=0,lte=5"`
	// Workers bounds decoding and writing concurrency. Zero means one
	// worker per CPU.
	Workers int  `yaml:"workers" validate:"gte=0"`
	Clean   bool `yaml:"clean"`
}

// Default returns the settings used when a file leaves them out.
func Default() Config {
	return Config{
		Namespace: "named",
		Clean:     true,
	}
}

// Load reads the YAML file at path over the defaults. It does not
// validate, since command-line arguments may still fill in fields.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.WithStack(err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, errors.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML settings over the defaults. Unknown keys are
// rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.WithStack(err)
	}
	return cfg, nil
}

// Validate checks the settings are complete and in range.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Errorf("invalid config: %w", err)
	}
	return nil
}
