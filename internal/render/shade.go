// Package render holds compositing helpers used when painting the crop view.
package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadeOptions configures how the area around a selection is dimmed.
type ShadeOptions struct {
	Color   color.RGBA
	Opacity float64
	// Feather blurs the selection edge over this many pixels.
	Feather int
}

// DefaultShadeOptions dims to a little under half brightness with a hard
// edge.
func DefaultShadeOptions() ShadeOptions {
	return ShadeOptions{
		Color:   color.RGBA{A: 255},
		Opacity: 0.45,
	}
}

// Shade darkens the part of area in dst that lies outside keep. Pixels inside
// keep are left alone unless Feather bleeds the shade across the edge.
func Shade(dst *image.RGBA, area, keep image.Rectangle, opts ShadeOptions) {
	if dst == nil {
		return
	}
	area = area.Intersect(dst.Bounds())
	if area.Empty() || opts.Opacity <= 0 {
		return
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}

	mask := image.NewAlpha(area)
	for i := range mask.Pix {
		mask.Pix[i] = 0xff
	}
	hole := keep.Intersect(area)
	for y := hole.Min.Y; y < hole.Max.Y; y++ {
		start := mask.PixOffset(hole.Min.X, y)
		clear(mask.Pix[start : start+hole.Dx()])
	}
	if opts.Feather > 0 {
		mask = blurAlpha(mask, opts.Feather)
	}

	c := opts.Color
	src := image.NewUniform(color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(opacity*255 + 0.5)})
	draw.DrawMask(dst, area, src, image.Point{}, mask, area.Min, draw.Over)
}

// blurAlpha is a separable box blur over src.
func blurAlpha(src *image.Alpha, radius int) *image.Alpha {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	tmp := image.NewAlpha(b)
	dst := image.NewAlpha(b)

	prefix := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		row := y * src.Stride
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(src.Pix[row+x])
		}
		for x := 0; x < w; x++ {
			x0, x1 := max(x-radius, 0), min(x+radius, w-1)
			tmp.Pix[y*tmp.Stride+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0, y1 := max(y-radius, 0), min(y+radius, h-1)
			dst.Pix[y*dst.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return dst
}
