package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory. A missing config.yaml
// yields the default configuration.
func Load(path string) (*Configuration, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs is Load on an arbitrary filesystem.
func LoadFs(fsys afero.Fs, path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	configFs := afero.NewBasePathFs(fsys, path)

	out := defaultConfig()
	configContents, err := afero.ReadFile(configFs, ConfigurationName)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Keep the defaults.
	case err != nil:
		return nil, err
	default:
		if err := yaml.UnmarshalStrict(configContents, out); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Join(path, ConfigurationName), err)
		}
	}

	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	out.configFs = configFs
	out.configurationDir = path
	return out, nil
}

// Initialize writes the default configuration to the directory, keeping an
// existing config.yaml, and loads the result.
func Initialize(path string, logger *log.Logger) (*Configuration, error) {
	return InitializeFs(afero.NewOsFs(), path, logger)
}

// InitializeFs is Initialize on an arbitrary filesystem.
func InitializeFs(fsys afero.Fs, path string, logger *log.Logger) (*Configuration, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if err := fsys.MkdirAll(path, 0700); err != nil {
		return nil, err
	}
	configFs := afero.NewBasePathFs(fsys, path)

	exists, err := afero.Exists(configFs, ConfigurationName)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Printf("Keeping existing %s", filepath.Join(path, ConfigurationName))
	} else {
		logger.Printf("Writing %s", filepath.Join(path, ConfigurationName))
		if err := afero.WriteFile(configFs, ConfigurationName, defaultConfigData, 0600); err != nil {
			return nil, err
		}
	}

	return LoadFs(fsys, path)
}
