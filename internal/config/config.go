// Package config loads the TOML launch configuration for the anyvm CLI:
// how big a Machine to allocate, which image to mount, which function to
// invoke, and which host tables to register before invoking it.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// HostTableConfig names a built-in host table to register under a given
// rabbit name before invoking the entry point. Supported kinds are
// "stdabi" and "stdio"; both write to the process's stdout.
type HostTableConfig struct {
	Name string `toml:"name"`
	Kind string `toml:"kind"`
}

// Config is the root of a launch TOML file.
type Config struct {
	// Capacity is the Machine's total addressable byte capacity.
	Capacity int64 `toml:"capacity"`

	// Image is the path to an imagefmt-encoded file to mount.
	Image string `toml:"image"`

	// Entry is the function-table symbol to invoke after mounting.
	Entry string `toml:"entry"`

	// HostTables lists the host tables to register before invocation.
	HostTables []HostTableConfig `toml:"host_tables"`
}

const defaultCapacity = 1 << 20 // 1 MiB

// Default returns a Config with a generously sized 1 MiB machine, no
// image, and the entry point "main".
func Default() Config {
	return Config{
		Capacity: defaultCapacity,
		Entry:    "main",
	}
}

// Load reads and parses a TOML launch file at path, filling unset fields
// from Default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: reading %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "config: parsing %s", path)
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = defaultCapacity
	}
	if cfg.Entry == "" {
		cfg.Entry = "main"
	}
	return cfg, nil
}
