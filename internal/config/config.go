// Package config loads and saves core.Settings as YAML, the on-disk
// configuration format for the cmd/restir CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kallidan/restir-di-renderer/pkg/core"
)

// Load reads a Settings value from a YAML file, starting from
// core.DefaultSettings and overwriting only the fields the file sets, then
// clamping the result to the settings invariants.
func Load(path string) (core.Settings, error) {
	settings := core.DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return core.Settings{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return core.Settings{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	settings.Clamp()
	return settings, nil
}

// Save writes settings to path as YAML, creating or truncating the file.
func Save(path string, settings core.Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
