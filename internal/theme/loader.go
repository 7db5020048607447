package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Loader handles loading themes from various sources.
type Loader struct {
	// ConfigDir, when set, replaces the XDG config and data lookups.
	ConfigDir string
}

// NewLoader creates a Loader that searches the XDG directories.
func NewLoader() *Loader {
	return &Loader{}
}

// Load attempts to load a theme by name or path.
// Order:
// 1. If it's a file path that exists, load it.
// 2. Check embedded themes.
// 3. Check ConfigDir, or $XDG_CONFIG_HOME and $XDG_DATA_DIRS.
// An empty name returns Default.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}

	if _, err := os.Stat(name); err == nil {
		return parseFile(name)
	}

	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}

	if f, err := EmbeddedThemes.Open("defaults/" + filename); err == nil {
		defer f.Close()
		return Parse(f)
	}

	if l.ConfigDir != "" {
		path := filepath.Join(l.ConfigDir, filename)
		if _, err := os.Stat(path); err == nil {
			return parseFile(path)
		}
		return nil, fmt.Errorf("theme '%s' not found", name)
	}

	rel := filepath.Join("imageclipper", "themes", filename)
	if path, err := xdg.SearchConfigFile(rel); err == nil {
		return parseFile(path)
	}
	if path, err := xdg.SearchDataFile(rel); err == nil {
		return parseFile(path)
	}
	return nil, fmt.Errorf("theme '%s' not found", name)
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
