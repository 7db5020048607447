package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/imageclipper/internal/clipper"
	"github.com/example/imageclipper/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Save  bool
	Error bool
	Copy  bool
}

// Clipper holds the crop defaults applied to every session.
type Clipper struct {
	BorderType     clipper.BorderType
	BorderColor    color.RGBA
	BorderWidth    int
	ToleranceWidth int
	MinWidth       int
	MinHeight      int
	ShowSize       bool
	// IncludeBorder keeps the stroke pixels in the saved crop.
	IncludeBorder bool
	// Title replaces the crop window title.
	Title        string
	ConfirmLabel string
	CancelLabel  string
}

// Options converts the section into clipper options.
func (c Clipper) Options() []clipper.Option {
	return []clipper.Option{
		clipper.WithBorderType(c.BorderType),
		clipper.WithBorderColor(c.BorderColor),
		clipper.WithBorderWidth(c.BorderWidth),
		clipper.WithToleranceWidth(c.ToleranceWidth),
		clipper.WithMinSize(c.MinWidth, c.MinHeight),
		clipper.WithShowDimensions(c.ShowSize),
	}
}

// Config holds the application configuration.
type Config struct {
	Theme    string
	CacheDir string
	Clipper  Clipper
	Notify   Notify
	Themes   map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	d := clipper.NewOptions()
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		Clipper: Clipper{
			BorderType:     d.BorderType,
			BorderColor:    d.BorderColor,
			BorderWidth:    d.BorderWidth,
			ToleranceWidth: d.ToleranceWidth,
			MinWidth:       d.MinWidth,
			MinHeight:      d.MinHeight,
			ShowSize:       d.ShowDimensions,
		},
		Notify: Notify{
			Save:  false,
			Error: true,
			Copy:  false,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.CacheDir != "" {
		fmt.Fprintf(&sb, "cache_dir = %s\n", c.CacheDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[clipper]\n")
	fmt.Fprintf(&sb, "border_type = %s\n", c.Clipper.BorderType)
	fmt.Fprintf(&sb, "border_color = %s\n", theme.Hex(c.Clipper.BorderColor))
	fmt.Fprintf(&sb, "border_width = %d\n", c.Clipper.BorderWidth)
	fmt.Fprintf(&sb, "tolerance_width = %d\n", c.Clipper.ToleranceWidth)
	fmt.Fprintf(&sb, "min_width = %d\n", c.Clipper.MinWidth)
	fmt.Fprintf(&sb, "min_height = %d\n", c.Clipper.MinHeight)
	fmt.Fprintf(&sb, "show_size = %v\n", c.Clipper.ShowSize)
	fmt.Fprintf(&sb, "include_border = %v\n", c.Clipper.IncludeBorder)
	if c.Clipper.Title != "" {
		fmt.Fprintf(&sb, "title = %s\n", c.Clipper.Title)
	}
	if c.Clipper.ConfirmLabel != "" {
		fmt.Fprintf(&sb, "confirm_label = %s\n", c.Clipper.ConfirmLabel)
	}
	if c.Clipper.CancelLabel != "" {
		fmt.Fprintf(&sb, "cancel_label = %s\n", c.Clipper.CancelLabel)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "error = %v\n", c.Notify.Error)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range theme.Fields(t) {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
