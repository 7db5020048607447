package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/imageclipper/internal/clipper"
	"github.com/example/imageclipper/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentTheme *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			currentTheme = nil

			if name, ok := strings.CutPrefix(currentSection, "theme."); ok {
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = name
				cfg.Themes[name] = currentTheme
			}
			continue
		}

		// Key = Value or Key: Value
		var key, value string
		var ok bool
		if key, value, ok = strings.Cut(line, "="); !ok {
			if key, value, ok = strings.Cut(line, ":"); !ok {
				continue
			}
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"`)

		var err error
		switch {
		case currentTheme != nil:
			err = theme.Set(currentTheme, key, value)
		case currentSection == "clipper":
			err = setClipperField(&cfg.Clipper, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "":
			setRootField(cfg, key, value)
		}
		if err != nil {
			section := currentSection
			if section == "" {
				section = "root"
			}
			return nil, fmt.Errorf("line %d [%s]: %w", lineNo, section, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "cache_dir":
		cfg.CacheDir = value
	}
}

func setClipperField(c *Clipper, key, value string) error {
	switch strings.ToLower(key) {
	case "border_type":
		bt, err := clipper.ParseBorderType(value)
		if err != nil {
			return fmt.Errorf("invalid value for key %s: %w", key, err)
		}
		c.BorderType = bt
	case "border_color":
		col, err := theme.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		c.BorderColor = col
	case "border_width":
		return parseInt(key, value, &c.BorderWidth)
	case "tolerance_width":
		return parseInt(key, value, &c.ToleranceWidth)
	case "min_width":
		return parseInt(key, value, &c.MinWidth)
	case "min_height":
		return parseInt(key, value, &c.MinHeight)
	case "show_size":
		return parseBool(key, value, &c.ShowSize)
	case "include_border":
		return parseBool(key, value, &c.IncludeBorder)
	case "title":
		c.Title = value
	case "confirm_label":
		c.ConfirmLabel = value
	case "cancel_label":
		c.CancelLabel = value
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	switch strings.ToLower(key) {
	case "save":
		return parseBool(key, value, &n.Save)
	case "error":
		return parseBool(key, value, &n.Error)
	case "copy":
		return parseBool(key, value, &n.Copy)
	}
	return nil
}

func parseInt(key, value string, dst *int) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	if n < 0 {
		return fmt.Errorf("key %s must not be negative", key)
	}
	*dst = n
	return nil
}

func parseBool(key, value string, dst *bool) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	*dst = b
	return nil
}
