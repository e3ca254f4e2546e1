package main

import (
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// Config holds the settings a user would otherwise have to repeat on
// every invocation: where metadata normally comes from, and the
// default network prefix to use when rendering addresses.
type Config struct {
	DefaultMetadataPath string `yaml:"default_metadata_path"`
	DefaultSS58Prefix   *byte  `yaml:"default_ss58_prefix"`
}

// FlagConfig points at an optional YAML config file; commands that
// care about defaults read it into a Config via loadConfig.
var FlagConfig = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "path to a YAML config file",
	EnvVars: []string{"SCALE_DECODE_CONFIG"},
}

func loadConfig(c *cli.Context) (*Config, error) {
	path := c.String("config")
	if path == "" {
		return &Config{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
