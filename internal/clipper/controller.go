// Package clipper implements the interactive crop rectangle: fitting a source
// image into a viewport, dragging a bordered rectangle over it with minimum
// size and containment constraints, and mapping the result back to source
// pixels.
//
// A Controller is not safe for concurrent use. Hosts drive it from their
// event goroutine.
package clipper

import (
	"errors"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

var (
	// ErrNoImage is returned when a session is started without a usable image.
	ErrNoImage = errors.New("no image to clip")
	// ErrNotReady is returned when the viewport size is not known yet.
	ErrNotReady = errors.New("viewport not ready")
	// ErrInvalidGeometry is returned when a crop would have no pixels.
	ErrInvalidGeometry = errors.New("invalid crop geometry")
)

// State reports whether the controller can accept gestures.
type State int

const (
	// StatePending waits for the host to report a viewport size.
	StatePending State = iota
	// StateReady has a display image and a crop rectangle.
	StateReady
	// StateReleased has dropped its images.
	StateReleased
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Controller owns the crop rectangle for one source image.
type Controller struct {
	opts     Options
	src      image.Image
	viewport image.Point
	fit      Fit
	display  *image.RGBA
	rect     image.Rectangle
	gesture  Gesture
	last     image.Point
	state    State
}

// New starts a controller for src. It stays pending until OnViewportResized
// reports a usable size.
func New(opts Options, src image.Image) (*Controller, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, ErrNoImage
	}
	return &Controller{
		opts:    opts,
		src:     src,
		gesture: NoGesture{},
		state:   StatePending,
	}, nil
}

// Options returns the display configuration.
func (c *Controller) Options() Options { return c.opts }

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Source returns the source image, or nil once released.
func (c *Controller) Source() image.Image { return c.src }

// Fit returns the current viewport fit.
func (c *Controller) Fit() Fit { return c.fit }

// Display returns the scaled display image.
func (c *Controller) Display() *image.RGBA { return c.display }

// Rect returns the crop rectangle in display space.
func (c *Controller) Rect() image.Rectangle { return c.rect }

// Gesture returns the gesture in progress.
func (c *Controller) Gesture() Gesture { return c.gesture }

// OnViewportResized fits the source into a viewport of w×h pixels and resets
// the crop rectangle. A non-positive size leaves the controller pending. The
// same size reported twice keeps the current rectangle.
func (c *Controller) OnViewportResized(w, h int) State {
	if c.state == StateReleased {
		return c.state
	}
	vp := image.Pt(w, h)
	if c.state == StateReady && vp == c.viewport {
		return c.state
	}
	fit, ok := FitViewport(c.src.Bounds().Size(), vp)
	if !ok {
		c.state = StatePending
		return c.state
	}
	c.viewport = vp
	c.fit = fit
	c.display = scaleImage(c.src, fit)
	c.state = StateReady
	c.Reset()
	return c.state
}

// Reset sets the crop rectangle to the whole display area and drops any
// gesture in progress.
func (c *Controller) Reset() {
	c.gesture = NoGesture{}
	c.last = image.Point{}
	if c.state != StateReady {
		c.rect = image.Rectangle{}
		return
	}
	c.rect = image.Rectangle{Max: c.fit.Size}
}

// ToDisplay converts a viewport-space point to display space.
func (c *Controller) ToDisplay(p image.Point) image.Point {
	return p.Sub(c.fit.Offset)
}

// Begin classifies a press at viewport point p.
func (c *Controller) Begin(p image.Point) Gesture {
	if c.state != StateReady {
		return NoGesture{}
	}
	dp := c.ToDisplay(p)
	c.last = dp
	c.gesture = Classify(c.rect, dp, c.opts.hitWidth())
	return c.gesture
}

// Move applies pointer movement to viewport point p. It reports whether the
// rectangle changed and a redraw is needed.
func (c *Controller) Move(p image.Point) bool {
	if c.state != StateReady {
		return false
	}
	dp := c.ToDisplay(p)
	var (
		next    image.Rectangle
		changed bool
	)
	switch c.gesture.(type) {
	case NoGesture:
		return false
	case BodyGesture:
		delta := dp.Sub(c.last)
		c.last = dp
		next, changed = Translate(c.rect, delta, c.fit.Size)
	default:
		next, changed = Resize(c.rect, c.gesture, dp, c.fit.Size, image.Pt(c.opts.MinWidth, c.opts.MinHeight))
	}
	if changed {
		c.rect = next
	}
	return changed
}

// End finishes the gesture in progress.
func (c *Controller) End() {
	c.gesture = NoGesture{}
	c.last = image.Point{}
}

// Release drops the source and display images. The controller cannot be
// used afterwards.
func (c *Controller) Release() {
	c.src = nil
	c.display = nil
	c.gesture = NoGesture{}
	c.state = StateReleased
}

func scaleImage(src image.Image, fit Fit) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: fit.Size})
	if fit.Scale == 1 {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
		return dst
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
