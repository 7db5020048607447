package clipper

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x ^ y), A: 255})
		}
	}
	return img
}

func newReady(t *testing.T, src image.Image, vw, vh int, opts ...Option) *Controller {
	t.Helper()
	c, err := New(NewOptions(opts...), src)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if st := c.OnViewportResized(vw, vh); st != StateReady {
		t.Fatalf("state = %v, want ready", st)
	}
	return c
}

func TestNewRejectsMissingImage(t *testing.T) {
	if _, err := New(NewOptions(), nil); !errors.Is(err, ErrNoImage) {
		t.Fatalf("nil image: err = %v", err)
	}
	if _, err := New(NewOptions(), image.NewRGBA(image.Rect(0, 0, 0, 10))); !errors.Is(err, ErrNoImage) {
		t.Fatalf("empty image: err = %v", err)
	}
}

func TestPendingUntilViewportKnown(t *testing.T) {
	c, err := New(NewOptions(), gradient(20, 20))
	if err != nil {
		t.Fatal(err)
	}
	if c.State() != StatePending {
		t.Fatalf("state = %v", c.State())
	}
	if st := c.OnViewportResized(0, 300); st != StatePending {
		t.Fatalf("zero width: state = %v", st)
	}
	if _, err := c.Clip(true); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Clip before ready: err = %v", err)
	}
	if c.Move(image.Pt(1, 1)) {
		t.Fatal("Move before ready reported a change")
	}
}

func TestScenarioLandscape(t *testing.T) {
	c := newReady(t, gradient(2000, 1000), 1000, 1000)
	if c.Fit().Offset.Y != 250 || c.Rect() != image.Rect(0, 0, 1000, 500) {
		t.Fatalf("fit %+v rect %v", c.Fit(), c.Rect())
	}
	// drag the left edge; pointer is in viewport space
	if g := c.Begin(image.Pt(0, 500)); g != (EdgeGesture{SideLeft}) {
		t.Fatalf("gesture = %v", g)
	}
	if !c.Move(image.Pt(650, 500)) {
		t.Fatal("expected resize")
	}
	if c.Rect() != image.Rect(650, 0, 1000, 500) {
		t.Fatalf("rect = %v", c.Rect())
	}
	// 901 would leave less than the 100px minimum
	if c.Move(image.Pt(901, 500)) {
		t.Fatal("resize below minimum accepted")
	}
	c.End()
	r, err := c.SourceRect(false)
	if err != nil {
		t.Fatal(err)
	}
	if r != image.Rect(1300, 0, 2000, 1000) {
		t.Fatalf("source rect = %v", r)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	c := newReady(t, gradient(800, 400), 400, 400)
	full := c.Rect()
	c.Begin(image.Pt(400, 200))
	c.Move(image.Pt(250, 200))
	c.End()
	if c.Rect() == full {
		t.Fatal("drag had no effect")
	}
	c.Reset()
	if c.Rect() != full {
		t.Fatalf("reset rect = %v, want %v", c.Rect(), full)
	}
	c.Reset()
	if c.Rect() != full {
		t.Fatalf("second reset rect = %v, want %v", c.Rect(), full)
	}
}

func TestSameViewportKeepsRect(t *testing.T) {
	c := newReady(t, gradient(800, 400), 400, 400)
	c.Begin(image.Pt(400, 200))
	c.Move(image.Pt(250, 200))
	c.End()
	before := c.Rect()
	c.OnViewportResized(400, 400)
	if c.Rect() != before {
		t.Fatalf("rect reset on repeated size: %v", c.Rect())
	}
	c.OnViewportResized(600, 600)
	if c.Rect() != (image.Rectangle{Max: c.Fit().Size}) {
		t.Fatalf("rect not reset on new size: %v", c.Rect())
	}
}

func TestBodyTranslateRejectedPastEdge(t *testing.T) {
	// display 400x200 at offset (0,100)
	c := newReady(t, gradient(800, 400), 400, 400)
	c.Begin(image.Pt(400, 200))
	c.Move(image.Pt(300, 200))
	c.End()
	if c.Rect() != image.Rect(0, 0, 300, 200) {
		t.Fatalf("setup rect = %v", c.Rect())
	}

	if g := c.Begin(image.Pt(150, 200)); g != (BodyGesture{}) {
		t.Fatalf("gesture = %v", g)
	}
	before := c.Rect()
	if c.Move(image.Pt(300, 200)) {
		t.Fatal("translate past the right edge accepted")
	}
	if c.Rect() != before {
		t.Fatalf("rect = %v, want %v", c.Rect(), before)
	}
	// the pointer position still advanced, so only the next 50px apply
	if !c.Move(image.Pt(350, 200)) {
		t.Fatal("expected translate")
	}
	if c.Rect() != image.Rect(50, 0, 350, 200) {
		t.Fatalf("rect = %v", c.Rect())
	}
}

func TestRandomDragsKeepInvariants(t *testing.T) {
	c := newReady(t, gradient(1600, 1200), 800, 800, WithMinSize(150, 120))
	rng := rand.New(rand.NewSource(7))
	area := c.Fit().Bounds()
	for i := 0; i < 500; i++ {
		p := image.Pt(area.Min.X-50+rng.Intn(area.Dx()+100), area.Min.Y-50+rng.Intn(area.Dy()+100))
		c.Begin(p)
		for j := 0; j < 10; j++ {
			p = p.Add(image.Pt(rng.Intn(200)-100, rng.Intn(200)-100))
			c.Move(p)
			r := c.Rect()
			if r.Dx() < 150 || r.Dy() < 120 {
				t.Fatalf("rect %v below minimum", r)
			}
			if !r.In(image.Rectangle{Max: c.Fit().Size}) {
				t.Fatalf("rect %v outside display %v", r, c.Fit().Size)
			}
		}
		c.End()
	}
}

func TestClipPixelExactAtScaleOne(t *testing.T) {
	src := gradient(200, 150)
	c := newReady(t, src, 400, 400)
	if c.Fit().Scale != 1 {
		t.Fatalf("scale = %v", c.Fit().Scale)
	}
	full, err := c.Clip(false)
	if err != nil {
		t.Fatal(err)
	}
	if full.Bounds().Size() != src.Bounds().Size() {
		t.Fatalf("size = %v", full.Bounds().Size())
	}
	for y := 0; y < 150; y++ {
		for x := 0; x < 200; x++ {
			if full.NRGBAAt(x, y) != src.NRGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) differs", x, y)
			}
		}
	}

	off := c.Fit().Offset
	c.Begin(off.Add(image.Pt(200, 75)))
	c.Move(off.Add(image.Pt(150, 75)))
	c.End()
	out, err := c.Clip(true)
	if err != nil {
		t.Fatal(err)
	}
	// round(15/2) = 8 pixels trimmed from every side
	if out.Bounds().Size() != image.Pt(134, 134) {
		t.Fatalf("size = %v", out.Bounds().Size())
	}
	if out.NRGBAAt(0, 0) != src.NRGBAAt(8, 8) {
		t.Fatalf("origin pixel mismatch")
	}
}

func TestClipScaledCoversSource(t *testing.T) {
	c := newReady(t, gradient(800, 400), 400, 400)
	out, err := c.Clip(false)
	if err != nil {
		t.Fatal(err)
	}
	if out.Bounds().Size() != image.Pt(800, 400) {
		t.Fatalf("size = %v", out.Bounds().Size())
	}
}

func TestClipInvalidGeometry(t *testing.T) {
	// a stroke wider than the rectangle inverts it
	c := newReady(t, gradient(800, 400), 400, 400, WithBorderWidth(250))
	if _, err := c.Clip(true); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("err = %v, want ErrInvalidGeometry", err)
	}
	if _, err := c.Clip(false); err != nil {
		t.Fatalf("without stroke: %v", err)
	}
}

func TestReleaseDropsImages(t *testing.T) {
	c := newReady(t, gradient(50, 50), 100, 100)
	c.Release()
	if c.Source() != nil || c.Display() != nil {
		t.Fatal("images kept after release")
	}
	if st := c.OnViewportResized(300, 300); st != StateReleased {
		t.Fatalf("state = %v", st)
	}
}

func TestNewOptionsClamps(t *testing.T) {
	o := NewOptions(WithMinSize(10, 500), WithBorderWidth(-3), WithToleranceWidth(-1))
	if o.MinWidth != DefaultMinWidth || o.MinHeight != 500 {
		t.Fatalf("min = %dx%d", o.MinWidth, o.MinHeight)
	}
	if o.BorderWidth != 0 || o.ToleranceWidth != 0 {
		t.Fatalf("widths = %d,%d", o.BorderWidth, o.ToleranceWidth)
	}
	d := NewOptions()
	if d.BorderWidth != DefaultBorderWidth || d.hitWidth() != 35 || !d.ShowDimensions {
		t.Fatalf("defaults = %+v", d)
	}
}

func TestEndClearsGesture(t *testing.T) {
	c := newReady(t, gradient(800, 400), 400, 400)
	if g := c.Begin(image.Pt(400, 200)); g != (EdgeGesture{SideRight}) {
		t.Fatalf("gesture = %v", g)
	}
	if !c.Move(image.Pt(300, 200)) {
		t.Fatal("expected resize")
	}
	c.End()
	if g := c.Gesture(); g != (NoGesture{}) {
		t.Fatalf("gesture after end = %v", g)
	}
	want := c.Rect()
	if c.Move(image.Pt(350, 200)) {
		t.Fatal("move after end changed the rect")
	}
	if c.Rect() != want {
		t.Fatalf("rect = %v, want %v", c.Rect(), want)
	}
}

func TestBeginReclassifies(t *testing.T) {
	c := newReady(t, gradient(800, 400), 400, 400)
	c.Begin(image.Pt(400, 200))
	c.Move(image.Pt(300, 200))
	c.End()
	// rect is now (0,0)-(300,200) in display space, offset (0,100)
	if g := c.Begin(image.Pt(150, 200)); g != (BodyGesture{}) {
		t.Fatalf("body press = %v", g)
	}
	c.End()
	if g := c.Begin(image.Pt(300, 300)); g != (CornerGesture{CornerBottomRight}) {
		t.Fatalf("corner press = %v", g)
	}
	c.End()
	// the old right edge is now 100px outside the frame
	if g := c.Begin(image.Pt(400, 200)); g == (EdgeGesture{SideRight}) {
		t.Fatalf("press at the old edge = %v", g)
	}
}

func TestFullFrameKeepsEverySourcePixel(t *testing.T) {
	for w := 1001; w <= 1200; w += 7 {
		for _, h := range []int{300, 777, 999, 1003} {
			src := image.NewNRGBA(image.Rect(0, 0, w, h))
			c := newReady(t, src, 1000, 1000)
			r, err := c.SourceRect(false)
			if err != nil {
				t.Fatalf("%dx%d: %v", w, h, err)
			}
			if r != src.Bounds() {
				t.Fatalf("%dx%d: source rect = %v, want %v", w, h, r, src.Bounds())
			}
		}
	}
	// tall sources fit the height instead
	for _, h := range []int{1001, 1999, 3001} {
		src := image.NewNRGBA(image.Rect(0, 0, 777, h))
		c := newReady(t, src, 1000, 1000)
		if r, err := c.SourceRect(false); err != nil || r != src.Bounds() {
			t.Fatalf("777x%d: source rect = %v, %v", h, r, err)
		}
	}
}

func TestSourceRectFarEdges(t *testing.T) {
	fit, _ := FitViewport(image.Pt(1001, 777), image.Pt(1000, 1000))
	full := image.Rectangle{Max: fit.Size}
	if r := SourceRect(full, fit, image.Pt(1001, 777), 15, false); r != image.Rect(0, 0, 1001, 777) {
		t.Fatalf("full frame = %v", r)
	}
	// an inset frame maps both sides symmetrically
	r := SourceRect(full, fit, image.Pt(1001, 777), 15, true)
	if r.Min != image.Pt(8, 8) || r.Max != image.Pt(993, 769) {
		t.Fatalf("inset frame = %v", r)
	}
}
