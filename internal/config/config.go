// Package config reads the optional YAML file that overrides the
// command-line flags.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
)

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2500000
}

type OPC struct {
	Server  string `yaml:"server"` // host:port of the OPC daemon
	Channel int    `yaml:"channel"`
}

type Config struct {
	Driver     string `yaml:"driver"` // "nrz" | "opc" | "term" | "sim"
	Addr       string `yaml:"addr"`   // e.g. :8080
	Brightness int    `yaml:"brightness"`
	Serpentine bool   `yaml:"serpentine"`

	Panel layout.Panel `yaml:"panel"`

	MediaDir string `yaml:"media_dir"`
	FontsDir string `yaml:"fonts_dir"`

	SPI SPI `yaml:"spi,omitempty"`
	OPC OPC `yaml:"opc,omitempty"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
