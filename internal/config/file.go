package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML configuration
type File struct {
	Community   string   `yaml:"community"`
	Port        int      `yaml:"port"`
	Timeout     string   `yaml:"timeout"`
	Retries     *int     `yaml:"retries"`
	FDBID       int      `yaml:"fdb_id"`
	MaxRows     int      `yaml:"max_rows"`
	Concurrency int      `yaml:"concurrency"`
	Inventory   string   `yaml:"inventory"`
	Switches    []string `yaml:"switches"`
	Exclude     []string `yaml:"exclude"`
}

// LoadFile reads a YAML config file. Unknown keys are rejected.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return ParseFile(data)
}

// ParseFile decodes YAML config data
func ParseFile(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &f, nil
}

// Merge fills fields not set by flags from the config file
func (c *Config) Merge(f *File) error {
	if c.Community == "" {
		c.Community = f.Community
	}
	if c.Port == 0 {
		c.Port = f.Port
	}
	if c.Timeout == 0 && f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q in config file: %w", f.Timeout, err)
		}
		c.Timeout = d
	}
	if c.Retries < 0 && f.Retries != nil {
		c.Retries = *f.Retries
	}
	if c.FDBID == 0 {
		c.FDBID = f.FDBID
	}
	if c.MaxRows == 0 {
		c.MaxRows = f.MaxRows
	}
	if c.Concurrency == 0 {
		c.Concurrency = f.Concurrency
	}
	if c.Inventory == "" {
		c.Inventory = f.Inventory
	}
	if len(c.Switches) == 0 {
		c.Switches = f.Switches
	}
	if len(c.Exclude) == 0 {
		c.Exclude = f.Exclude
	}
	return nil
}
