package clipper

import (
	"image"
	"math"
)

// Fit describes where a source image is drawn inside a viewport.
type Fit struct {
	// Scale converts source pixels to display pixels.
	Scale float64
	// Size is the scaled display size.
	Size image.Point
	// Offset is the top-left corner of the display area in viewport space.
	Offset image.Point
}

// Bounds returns the display area in viewport space.
func (f Fit) Bounds() image.Rectangle {
	return image.Rectangle{Min: f.Offset, Max: f.Offset.Add(f.Size)}
}

// FitViewport scales src to fit inside viewport without upscaling and centers
// it. It reports false when either size is not known yet.
func FitViewport(src, viewport image.Point) (Fit, bool) {
	if src.X <= 0 || src.Y <= 0 || viewport.X <= 0 || viewport.Y <= 0 {
		return Fit{}, false
	}
	sw, sh := float64(src.X), float64(src.Y)
	vw, vh := float64(viewport.X), float64(viewport.Y)

	scale := 1.0
	if src.X <= viewport.X {
		if src.Y > viewport.Y {
			scale = vh / sh
		}
	} else {
		scale = vw / sw
		// a tall image can still overflow vertically after fitting the width
		if sh*scale > vh {
			scale = vh / sh
		}
	}

	w := clampInt(int(math.Round(sw*scale)), 1, viewport.X)
	h := clampInt(int(math.Round(sh*scale)), 1, viewport.Y)
	return Fit{
		Scale:  scale,
		Size:   image.Pt(w, h),
		Offset: image.Pt((viewport.X-w)/2, (viewport.Y-h)/2),
	}, true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
