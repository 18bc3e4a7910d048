package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rufaco/rufacod/pkg/file"
)

// Load reads and parses the YAML document at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}

	return &f, nil
}

// Save re-serializes f to YAML and atomically replaces path, used after
// calibration writes discovered min_pwm/start_pwm back into the fan
// declarations. Atomic replace (temp file + rename) is used in place of
// a literal truncate-and-write so a crash mid-write can never leave a
// half-written config on disk.
func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("serializing config: %w", err)
	}

	if err := file.AtomicUpdateFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
