// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads and validates the jvmctl configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config represents the complete jvmctl configuration. All fields are
// defaults; command-line flags override them.
type Config struct {
	// JavaHome is the JVM installation root. Falls back to $JAVA_HOME
	// when empty.
	JavaHome string `yaml:"java_home,omitempty"`

	// VMOptions are default JVM options prepended to every launch.
	VMOptions []string `yaml:"vm_options,omitempty"`

	// Env holds default "NAME=VALUE" environment overrides for the child.
	Env []string `yaml:"env,omitempty"`

	// WorkingDir is the child's default working directory. Empty means
	// inherit the parent's.
	WorkingDir string `yaml:"working_dir,omitempty"`

	// PIDFile is where the child JVM's PID is recorded. Empty means no
	// PID file.
	PIDFile string `yaml:"pid_file,omitempty"`

	// LifecycleLog is the JSON-lines audit log for launch/exit events.
	// Empty disables event recording.
	LifecycleLog string `yaml:"lifecycle_log,omitempty"`

	// StopTimeout is how long `jvmctl stop` waits after SIGTERM before
	// giving up (or escalating to SIGKILL with --force).
	// Default: 30s
	StopTimeout time.Duration `yaml:"stop_timeout,omitempty"`

	// Log configures jvmctl's own structured logging.
	Log LogConfig `yaml:"log"`
}

// LogConfig configures jvmctl's own logging output.
type LogConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level,omitempty"`

	// Format is the output format (json, text).
	Format string `yaml:"format,omitempty"`
}

// Default returns a Config with defaults applied.
func Default() *Config {
	return &Config{
		JavaHome:    os.Getenv("JAVA_HOME"),
		StopTimeout: 30 * time.Second,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration from path, or from the default location
// when path is empty. A missing file yields the defaults, not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		dir, err := ConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config directory: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if cfg.JavaHome == "" {
		cfg.JavaHome = os.Getenv("JAVA_HOME")
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = 30 * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	for _, entry := range c.Env {
		if !strings.Contains(entry, "=") {
			return fmt.Errorf("%w: env entry %q is not NAME=VALUE", ErrInvalidConfig, entry)
		}
	}

	switch c.Log.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Log.Format)
	}

	return nil
}
