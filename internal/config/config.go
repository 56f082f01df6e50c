package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	StrategyScanPrefix = "scan_prefix"
	StrategySkipLines  = "skip_lines"
)

var ErrUnknownStrategy = errors.New("unknown locator strategy")

type Config struct {
	Locator struct {
		// Strategy is either scan_prefix or skip_lines.
		Strategy  string `yaml:"strategy"`
		Prefix    string `yaml:"prefix"`
		SkipLines int    `yaml:"skip_lines"`
	} `yaml:"locator"`

	Columns struct {
		Key   string `yaml:"key"`
		Value string `yaml:"value"`
	} `yaml:"columns"`

	Report struct {
		MaxRows int `yaml:"max_rows"`
	} `yaml:"report"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the settings used when no config file is given.
func Default() Config {
	var c Config
	c.Locator.Strategy = StrategyScanPrefix
	c.Locator.Prefix = "name,iter"
	c.Locator.SkipLines = 8
	c.Columns.Key = "name"
	c.Columns.Value = "cpu_time"
	c.Report.MaxRows = 100
	c.Log.Level = "info"
	return c
}

// Load reads a YAML file over Default. Keys absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, err
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch c.Locator.Strategy {
	case StrategyScanPrefix, StrategySkipLines:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, c.Locator.Strategy)
	}
	if c.Locator.SkipLines < 0 {
		return fmt.Errorf("locator.skip_lines must not be negative, got %d", c.Locator.SkipLines)
	}
	if c.Columns.Key == "" || c.Columns.Value == "" {
		return errors.New("columns.key and columns.value are required")
	}
	return nil
}
