package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigName is the file name Load looks for in the given directory.
const DefaultConfigName = "neovm.yml"

// Config top level struct representing the config for the VM host.
type Config struct {
	VM     VMConfiguration     `yaml:"VM"`
	Logger LoggerConfiguration `yaml:"Logger"`
}

// Default returns the configuration with all default values set.
func Default() Config {
	return Config{
		VM: DefaultVMConfiguration(),
		Logger: LoggerConfiguration{
			LogLevel:    "info",
			LogEncoding: "console",
		},
	}
}

// Load attempts to load the config from the DefaultConfigName file in the
// given directory.
func Load(path string) (Config, error) {
	return LoadFile(filepath.Join(path, DefaultConfigName))
}

// LoadFile loads config from the provided path. Fields missing in the file
// keep their default values.
func LoadFile(configPath string) (Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config '%s' doesn't exist", configPath)
	}

	configData, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}

	return Unmarshal(configData)
}

// Unmarshal decodes YAML config data on top of Default and validates the
// result. Unknown fields are an error.
func Unmarshal(data []byte) (Config, error) {
	config := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	err := decoder.Decode(&config)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

// Validate checks the whole configuration for consistency.
func (c Config) Validate() error {
	if err := c.VM.Validate(); err != nil {
		return fmt.Errorf("VM: %w", err)
	}
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("Logger: %w", err)
	}
	return nil
}
