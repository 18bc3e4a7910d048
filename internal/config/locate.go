package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// SearchPaths returns the ordered list of locations Locate checks:
// ./config.yaml, $HOME/.config/rufaco/config.yaml, then
// /etc/rufaco/config.yaml.
func SearchPaths() []string {
	paths := []string{"config.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "rufaco", "config.yaml"))
	}
	paths = append(paths, filepath.Join("/etc", "rufaco", "config.yaml"))
	return paths
}

// Locate returns the first existing path among SearchPaths, or
// ErrNotFound if none exist.
func Locate() (string, error) {
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %v", ErrNotFound, SearchPaths())
}
