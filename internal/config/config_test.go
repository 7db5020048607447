package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"

	"github.com/example/imageclipper/internal/clipper"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
cache_dir = /tmp/clips

[clipper]
border_color = red
border_width = 6
tolerance_width = 12
min_width = 150
min_height = 120
show_size = false
include_border = true
title = Pick a region
confirm_label = Done
cancel_label = Back

[notify]
save = true
error = false
copy = true

[theme.my_custom_theme]
Background = #111111
BarText = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.CacheDir != "/tmp/clips" {
		t.Errorf("Expected cache_dir '/tmp/clips', got '%s'", cfg.CacheDir)
	}

	want := Clipper{
		BorderColor:    color.RGBA{255, 0, 0, 255},
		BorderWidth:    6,
		ToleranceWidth: 12,
		MinWidth:       150,
		MinHeight:      120,
		ShowSize:       false,
		IncludeBorder:  true,
		Title:          "Pick a region",
		ConfirmLabel:   "Done",
		CancelLabel:    "Back",
	}
	if cfg.Clipper != want {
		t.Errorf("Clipper = %+v, want %+v", cfg.Clipper, want)
	}

	if cfg.Notify != (Notify{Save: true, Error: false, Copy: true}) {
		t.Errorf("Notify = %+v", cfg.Notify)
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background.R != 0x11 || th.Background.G != 0x11 || th.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", th.Background)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"[clipper]\nborder_width = wide\n",
		"[clipper]\nmin_width = -4\n",
		"[clipper]\nborder_color = nocolor\n",
		"[notify]\nsave = maybe\n",
	}
	for _, in := range cases {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
cache_dir = /home/user/.cache/clips

[clipper]
border_color = #00FF0080
border_width = 9
title = Crop: avatar
confirm_label = Use photo

[notify]
save = true
error = true
copy = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}
	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	if cfg.Theme != cfg2.Theme || cfg.CacheDir != cfg2.CacheDir {
		t.Errorf("root mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.Clipper != cfg2.Clipper {
		t.Errorf("Clipper mismatch: %+v vs %+v", cfg.Clipper, cfg2.Clipper)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	t1, t2 := cfg.Themes["custom"], cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestClipperOptions(t *testing.T) {
	c := New().Clipper
	c.BorderWidth = 4
	c.MinWidth = 300
	o := clipper.NewOptions(c.Options()...)
	if o.BorderWidth != 4 || o.MinWidth != 300 || o.MinHeight != clipper.DefaultMinHeight {
		t.Fatalf("options = %+v", o)
	}
}

func TestLoaderPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	l := NewLoader("v1.0.0", "")
	if got := l.GetConfigPath(); got != "" {
		t.Fatalf("unexpected config path %q", got)
	}

	cfg := New()
	cfg.CacheDir = "/srv/clips"
	path, err := l.Save(cfg)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path != filepath.Join(home, "imageclipper", "config.rc") {
		t.Fatalf("saved to %q", path)
	}
	if got := l.GetConfigPath(); got != path {
		t.Fatalf("GetConfigPath = %q, want %q", got, path)
	}
	loaded, err := l.Load()
	if err != nil || loaded.CacheDir != "/srv/clips" {
		t.Fatalf("Load = %+v, %v", loaded, err)
	}

	override := filepath.Join(t.TempDir(), "other.rc")
	if err := os.WriteFile(override, []byte("theme = light\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := NewLoader("v1.0.0", override).GetConfigPath(); got != override {
		t.Fatalf("override ignored: %q", got)
	}
}

func TestParseBorderType(t *testing.T) {
	cfg, err := Parse(strings.NewReader("[clipper]\nborder_type = Rectangle\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Clipper.BorderType != clipper.BorderRectangle {
		t.Fatalf("border type = %v", cfg.Clipper.BorderType)
	}
	if !strings.Contains(cfg.String(), "border_type = rectangle\n") {
		t.Fatalf("String() = %q", cfg.String())
	}
	if _, err := Parse(strings.NewReader("[clipper]\nborder_type = oval\n")); err == nil {
		t.Fatalf("expected error for unknown border type")
	}
}
