package main

import (
	"errors"
	"flag"
	"fmt"
	"image"

	"github.com/example/imageclipper/internal/clipboard"
	"github.com/example/imageclipper/internal/clipper"
	"github.com/example/imageclipper/internal/config"
	"github.com/example/imageclipper/internal/session"
	"github.com/example/imageclipper/internal/source"
	"github.com/example/imageclipper/internal/theme"
)

var (
	loadImageFn           = source.Load
	clipboardImageFn      = source.FromClipboard
	writeClipboardImageFn = clipboard.WriteImage
	writeClipboardTextFn  = clipboard.WriteText
	checkStorageFn        = session.CheckStorage
)

// cropFlags are the input and frame flags shared by open and clip.
type cropFlags struct {
	file          string
	fromClipboard bool
	borderType    string
	borderColor   string
	borderWidth   int
	tolerance     int
	minWidth      int
	minHeight     int
	hideSize      bool
	includeBorder bool
	outputDir     string
}

func (c *cropFlags) bind(fs *flag.FlagSet, cfg *config.Config) {
	if cfg == nil {
		cfg = config.New()
	}
	d := cfg.Clipper
	fs.StringVar(&c.file, "file", "", "image file or file:// URI to crop")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "load the input image from the clipboard")
	fs.BoolVar(&c.fromClipboard, "from-clip", false, "load the input image from the clipboard (alias)")
	fs.StringVar(&c.borderType, "border-type", d.BorderType.String(), "frame shape (rectangle)")
	fs.StringVar(&c.borderColor, "border-color", theme.Hex(d.BorderColor), "frame stroke color (name or #rrggbb)")
	fs.IntVar(&c.borderWidth, "border-width", d.BorderWidth, "frame stroke width in pixels")
	fs.IntVar(&c.tolerance, "tolerance", d.ToleranceWidth, "extra grab distance around the frame edges")
	fs.IntVar(&c.minWidth, "min-width", d.MinWidth, "smallest crop width in display pixels")
	fs.IntVar(&c.minHeight, "min-height", d.MinHeight, "smallest crop height in display pixels")
	fs.BoolVar(&c.hideSize, "hide-size", !d.ShowSize, "do not draw the crop dimensions")
	fs.BoolVar(&c.includeBorder, "include-border", d.IncludeBorder, "keep the frame stroke pixels in the saved crop")
	fs.StringVar(&c.outputDir, "output-dir", "", "directory for the saved crop (default: cache directory)")
}

func (c *cropFlags) validate() error {
	if c.file == "" && !c.fromClipboard {
		return errors.New("an input image is required: use -file or -from-clipboard")
	}
	if c.file != "" && c.fromClipboard {
		return errors.New("-file and -from-clipboard cannot be combined")
	}
	return nil
}

func (c *cropFlags) options() ([]clipper.Option, error) {
	bt, err := clipper.ParseBorderType(c.borderType)
	if err != nil {
		return nil, fmt.Errorf("invalid -border-type: %w", err)
	}
	col, err := theme.ParseColor(c.borderColor)
	if err != nil {
		return nil, fmt.Errorf("invalid -border-color: %w", err)
	}
	return []clipper.Option{
		clipper.WithBorderType(bt),
		clipper.WithBorderColor(col),
		clipper.WithBorderWidth(c.borderWidth),
		clipper.WithToleranceWidth(c.tolerance),
		clipper.WithMinSize(c.minWidth, c.minHeight),
		clipper.WithShowDimensions(!c.hideSize),
	}, nil
}

// load returns the input image and a short description of where it came
// from.
func (c *cropFlags) load() (image.Image, string, error) {
	if c.fromClipboard {
		img, from, err := clipboardImageFn()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read clipboard: %w", err)
		}
		return img, from, nil
	}
	img, err := loadImageFn(c.file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load %s: %w", c.file, err)
	}
	return img, c.file, nil
}

// controller loads the input and builds a controller for it.
func (c *cropFlags) controller() (*clipper.Controller, string, error) {
	opts, err := c.options()
	if err != nil {
		return nil, "", err
	}
	img, from, err := c.load()
	if err != nil {
		return nil, "", err
	}
	ctrl, err := clipper.New(clipper.NewOptions(opts...), img)
	if err != nil {
		return nil, "", err
	}
	return ctrl, from, nil
}

// storage resolves and checks the output directory. -output-dir wins over
// the cache root.
func (c *cropFlags) storage(cacheRoot string) (string, error) {
	dir := c.outputDir
	if dir == "" {
		dir = session.CacheDir(cacheRoot)
	}
	if err := checkStorageFn(dir); err != nil {
		return "", fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	return dir, nil
}
