package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// ToMap converts a Config into a nested map via its JSON encoding.
func ToMap(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return m, nil
}

// ListValues returns the config as a flat map of dot-separated keys.
// When mask is true, secret values are shown masked.
func ListValues(cfg *Config, mask bool) (map[string]any, error) {
	m, err := ToMap(cfg)
	if err != nil {
		return nil, err
	}
	flat := Flatten(m)
	if mask {
		flat = MaskSecrets(flat)
	}
	return flat, nil
}

// GetValue reads the config file at path and returns the value for the
// dot-separated key. The raw file is consulted rather than the typed
// Config so that keys SetValue preserved outside the struct remain
// readable. A missing file is created with defaults first.
func GetValue(path, key string) (any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg, loadErr := Load(path)
		if loadErr != nil {
			return nil, loadErr
		}
		flat, listErr := ListValues(cfg, false)
		if listErr != nil {
			return nil, listErr
		}
		return lookup(flat, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return lookup(Flatten(m), key)
}

func lookup(flat map[string]any, key string) (any, error) {
	v, ok := flat[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return v, nil
}

// SetValue updates one dot-separated key in the config file at path.
// The raw value is parsed as JSON when possible (numbers, booleans)
// and stored as a string otherwise. Keys not present in the Config
// struct are preserved in the file.
func SetValue(path, key, raw string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	flat := Flatten(m)

	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}
	flat[key] = value

	nested := Unflatten(flat)
	out, err := json.MarshalIndent(nested, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	out = append(out, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, out, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
