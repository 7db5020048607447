package theme

import (
	"image/color"
)

// Theme defines the colors of the clipper window chrome. The crop border
// color is a clipper option, not part of the theme.
type Theme struct {
	Name string

	// Letterbox around the fitted image
	Background color.RGBA
	Foreground color.RGBA

	// Shortcut bar along the bottom of the window
	BarBackground color.RGBA
	BarText       color.RGBA
	BarAccent     color.RGBA

	// Transient notices
	NoticeBackground color.RGBA
	NoticeText       color.RGBA
	ErrorText        color.RGBA

	// Drawn behind transparent source pixels
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

// Default returns the hardcoded default dark theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:             "Default",
		Background:       color.RGBA{0, 0, 0, 255},
		Foreground:       color.RGBA{255, 255, 255, 255},
		BarBackground:    color.RGBA{32, 32, 32, 255},
		BarText:          color.RGBA{230, 230, 230, 255},
		BarAccent:        color.RGBA{255, 200, 0, 255},
		NoticeBackground: color.RGBA{0, 0, 0, 200},
		NoticeText:       color.RGBA{255, 255, 255, 255},
		ErrorText:        color.RGBA{255, 96, 96, 255},
		CheckerLight:     color.RGBA{220, 220, 220, 255},
		CheckerDark:      color.RGBA{192, 192, 192, 255},
	}
}
