package clipper

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// SourceRect maps a display-space crop rectangle to source pixels for an
// image of size src drawn with fit. When excludeStroke is set each edge is
// first moved inward by half the border width. The near edges are rounded
// from the display origin and the far edges from the display's far side, so
// a frame touching the edge of the display keeps the last source row and
// column. A scale of exactly 1 skips the division. The result is not
// canonicalized so callers can detect inverted rectangles.
func SourceRect(display image.Rectangle, fit Fit, src image.Point, borderWidth int, excludeStroke bool) image.Rectangle {
	r := display
	if excludeStroke {
		inset := int(math.Round(float64(borderWidth) / 2))
		r.Min.X += inset
		r.Min.Y += inset
		r.Max.X -= inset
		r.Max.Y -= inset
	}
	if scale := fit.Scale; scale != 1 && scale > 0 {
		r.Min.X = int(math.Round(float64(r.Min.X) / scale))
		r.Min.Y = int(math.Round(float64(r.Min.Y) / scale))
		r.Max.X = src.X - int(math.Round(float64(fit.Size.X-r.Max.X)/scale))
		r.Max.Y = src.Y - int(math.Round(float64(fit.Size.Y-r.Max.Y)/scale))
	}
	return r
}

// SourceRect returns the current crop rectangle in source pixel space,
// clamped to the source bounds.
func (c *Controller) SourceRect(excludeStroke bool) (image.Rectangle, error) {
	if c.state != StateReady {
		return image.Rectangle{}, ErrNotReady
	}
	b := c.src.Bounds()
	r := SourceRect(c.rect, c.fit, b.Size(), c.opts.BorderWidth, excludeStroke)
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return image.Rectangle{}, ErrInvalidGeometry
	}
	r = r.Add(b.Min).Intersect(b)
	if r.Empty() {
		return image.Rectangle{}, ErrInvalidGeometry
	}
	return r, nil
}

// Clip extracts the crop rectangle from the source image.
func (c *Controller) Clip(excludeStroke bool) (*image.NRGBA, error) {
	r, err := c.SourceRect(excludeStroke)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(c.src, r), nil
}
