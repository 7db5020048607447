package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	appDir     = "imageclipper"
	configName = "config.rc"
	devRCName  = ".imageclipperrc"
	legacyName = "imageclipper.rc"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time or with -config
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load attempts to load the configuration.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil // No config file found, return defaults
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, devRCName)
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	for _, name := range []string{configName, legacyName} {
		if path, err := xdg.SearchConfigFile(filepath.Join(appDir, name)); err == nil {
			return path
		}
	}
	return ""
}

// SavePath returns where Save writes: the override path when set, otherwise
// the XDG config file, creating its directory.
func (l *Loader) SavePath() (string, error) {
	if l.OverridePath != "" {
		return l.OverridePath, nil
	}
	return xdg.ConfigFile(filepath.Join(appDir, configName))
}

// Save writes cfg in RC format.
func (l *Loader) Save(cfg *Config) (string, error) {
	path, err := l.SavePath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(cfg.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
