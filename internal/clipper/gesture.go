package clipper

import (
	"fmt"
	"image"
)

// Side names one edge of the crop rectangle.
type Side int

const (
	SideLeft Side = iota
	SideTop
	SideRight
	SideBottom
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideTop:
		return "top"
	case SideRight:
		return "right"
	case SideBottom:
		return "bottom"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Corner names one corner of the crop rectangle.
type Corner int

const (
	CornerTopLeft Corner = iota
	CornerBottomLeft
	CornerTopRight
	CornerBottomRight
)

func (c Corner) String() string {
	switch c {
	case CornerTopLeft:
		return "top-left"
	case CornerBottomLeft:
		return "bottom-left"
	case CornerTopRight:
		return "top-right"
	case CornerBottomRight:
		return "bottom-right"
	default:
		return fmt.Sprintf("Corner(%d)", int(c))
	}
}

// Gesture is what a press grabbed. It is one of NoGesture, BodyGesture,
// EdgeGesture or CornerGesture and stays fixed until the gesture ends.
type Gesture interface {
	isGesture()
	String() string
}

// NoGesture means no gesture is in progress.
type NoGesture struct{}

// BodyGesture translates the whole rectangle.
type BodyGesture struct{}

// EdgeGesture moves a single edge.
type EdgeGesture struct{ Side Side }

// CornerGesture moves the two edges meeting at a corner; the opposite corner
// stays anchored.
type CornerGesture struct{ Corner Corner }

func (NoGesture) isGesture()     {}
func (BodyGesture) isGesture()   {}
func (EdgeGesture) isGesture()   {}
func (CornerGesture) isGesture() {}

func (NoGesture) String() string       { return "none" }
func (BodyGesture) String() string     { return "body" }
func (g EdgeGesture) String() string   { return "edge " + g.Side.String() }
func (g CornerGesture) String() string { return "corner " + g.Corner.String() }

// Classify decides what a press at p grabs. An edge is hit when p lies within
// hit pixels of it along its axis. Corners win over edges; ties resolve in the
// order top-left, bottom-left, top-right, bottom-right, left, top, right,
// bottom.
func Classify(r image.Rectangle, p image.Point, hit int) Gesture {
	left := abs(p.X-r.Min.X) <= hit
	top := abs(p.Y-r.Min.Y) <= hit
	right := abs(p.X-r.Max.X) <= hit
	bottom := abs(p.Y-r.Max.Y) <= hit
	switch {
	case left && top:
		return CornerGesture{CornerTopLeft}
	case left && bottom:
		return CornerGesture{CornerBottomLeft}
	case right && top:
		return CornerGesture{CornerTopRight}
	case right && bottom:
		return CornerGesture{CornerBottomRight}
	case left:
		return EdgeGesture{SideLeft}
	case top:
		return EdgeGesture{SideTop}
	case right:
		return EdgeGesture{SideRight}
	case bottom:
		return EdgeGesture{SideBottom}
	}
	return BodyGesture{}
}

// edges lists the sides a gesture moves.
type edges struct {
	left, top, right, bottom bool
}

func movingEdges(g Gesture) edges {
	switch g := g.(type) {
	case EdgeGesture:
		switch g.Side {
		case SideLeft:
			return edges{left: true}
		case SideTop:
			return edges{top: true}
		case SideRight:
			return edges{right: true}
		case SideBottom:
			return edges{bottom: true}
		}
	case CornerGesture:
		switch g.Corner {
		case CornerTopLeft:
			return edges{left: true, top: true}
		case CornerBottomLeft:
			return edges{left: true, bottom: true}
		case CornerTopRight:
			return edges{right: true, top: true}
		case CornerBottomRight:
			return edges{right: true, bottom: true}
		}
	}
	return edges{}
}

// Resize moves the edges grabbed by g to p. The update is rejected as a whole
// when a moving edge would leave [0, area] or bring the rectangle below min.
func Resize(r image.Rectangle, g Gesture, p, area, min image.Point) (image.Rectangle, bool) {
	e := movingEdges(g)
	if e == (edges{}) {
		return r, false
	}
	out := r
	if e.left {
		if p.X < 0 || p.X > r.Max.X-min.X {
			return r, false
		}
		out.Min.X = p.X
	}
	if e.right {
		if p.X > area.X || p.X < r.Min.X+min.X {
			return r, false
		}
		out.Max.X = p.X
	}
	if e.top {
		if p.Y < 0 || p.Y > r.Max.Y-min.Y {
			return r, false
		}
		out.Min.Y = p.Y
	}
	if e.bottom {
		if p.Y > area.Y || p.Y < r.Min.Y+min.Y {
			return r, false
		}
		out.Max.Y = p.Y
	}
	return out, out != r
}

// Translate shifts r by delta. It is all-or-nothing: if any side would leave
// (0,0)-area the rectangle is returned unchanged.
func Translate(r image.Rectangle, delta, area image.Point) (image.Rectangle, bool) {
	if delta == (image.Point{}) {
		return r, false
	}
	out := r.Add(delta)
	if out.Min.X < 0 || out.Min.Y < 0 || out.Max.X > area.X || out.Max.Y > area.Y {
		return r, false
	}
	return out, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
