// Package configloader reads AI configuration YAML files from a base
// directory, falling back to the executable's directory for installed builds.
package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Loader reads YAML files relative to a base directory.
type Loader struct {
	baseDir string
}

// NewLoader creates a new configuration loader.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		baseDir: baseDir,
	}
}

// Load reads a single YAML file and unmarshals it into target.
func (l *Loader) Load(subPath string, target any) error {
	data, err := l.ReadFileWithFallback(subPath)
	if err != nil {
		return fmt.Errorf("read file %s: %w", subPath, err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("unmarshal YAML %s: %w", subPath, err)
	}

	return nil
}

// LoadOptional is Load for files that may be absent. It reports whether the
// file was found; a missing file is not an error.
func (l *Loader) LoadOptional(subPath string, target any) (bool, error) {
	err := l.Load(subPath, target)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ReadFileWithFallback tries to read file from path relative to baseDir,
// then falls back to executable directory for production builds.
func (l *Loader) ReadFileWithFallback(path string) ([]byte, error) {
	absPath := filepath.Join(l.baseDir, path)
	data, err := os.ReadFile(absPath)
	if err == nil {
		return data, nil
	}
	if filepath.IsAbs(l.baseDir) {
		return nil, err
	}

	// Relative base dirs are also tried next to the binary.
	execPath, execErr := os.Executable()
	if execErr != nil {
		return nil, err
	}

	execDir := filepath.Dir(execPath)
	return os.ReadFile(filepath.Join(execDir, l.baseDir, path))
}
