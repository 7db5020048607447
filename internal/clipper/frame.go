package clipper

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// labelSize is the point size of the dimensions label.
const labelSize = 25

// labelBaseline is how far below the stroke the label baseline sits.
const labelBaseline = 20

// FrameDescription is everything a host needs to paint one frame. Coordinates
// other than Offset are in display space.
type FrameDescription struct {
	Display *image.RGBA
	Offset  image.Point
	// Crop is the crop rectangle itself.
	Crop image.Rectangle
	// Border is the centre line of the stroke: the crop rectangle moved
	// inward by half the border width.
	Border      image.Rectangle
	BorderColor color.RGBA
	BorderWidth int
	// Label is empty when dimensions are hidden.
	Label   string
	LabelAt image.Point
}

// Frame describes the current state for rendering. It reports false while
// the controller is not ready.
func (c *Controller) Frame() (FrameDescription, bool) {
	if c.state != StateReady {
		return FrameDescription{}, false
	}
	bw := c.opts.BorderWidth
	half := float64(bw) / 2
	border := image.Rectangle{
		Min: image.Pt(int(float64(c.rect.Min.X)+half), int(float64(c.rect.Min.Y)+half)),
		Max: image.Pt(int(float64(c.rect.Max.X)-half), int(float64(c.rect.Max.Y)-half)),
	}
	f := FrameDescription{
		Display:     c.display,
		Offset:      c.fit.Offset,
		Crop:        c.rect,
		Border:      border,
		BorderColor: c.opts.BorderColor,
		BorderWidth: bw,
	}
	if c.opts.ShowDimensions {
		f.Label = fmt.Sprintf("w:%d, h:%d", border.Dx(), border.Dy())
		f.LabelAt = image.Pt(border.Min.X+bw, border.Min.Y+bw+labelBaseline)
	}
	return f, true
}

// DrawFrame paints f onto dst, which is in viewport space. The display image
// is composited over whatever dst already holds.
func DrawFrame(dst *image.RGBA, f FrameDescription) {
	if f.Display == nil {
		return
	}
	area := f.Display.Bounds().Add(f.Offset)
	draw.Draw(dst, area, f.Display, image.Point{}, draw.Over)

	border := f.Border.Add(f.Offset)
	StrokeRect(dst, border, f.BorderColor, f.BorderWidth)

	if f.Label != "" {
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(f.BorderColor),
			Face: labelFace(),
			Dot:  fixed.P(f.LabelAt.X+f.Offset.X, f.LabelAt.Y+f.Offset.Y),
		}
		d.DrawString(f.Label)
	}
}

// StrokeRect draws the outline of r with a stroke of the given width centred
// on its edges.
func StrokeRect(dst *image.RGBA, r image.Rectangle, col color.Color, width int) {
	if width <= 0 {
		width = 1
	}
	lo := width / 2
	hi := width - lo
	src := image.NewUniform(col)
	sides := []image.Rectangle{
		image.Rect(r.Min.X-lo, r.Min.Y-lo, r.Max.X+hi, r.Min.Y+hi), // top
		image.Rect(r.Min.X-lo, r.Max.Y-lo, r.Max.X+hi, r.Max.Y+hi), // bottom
		image.Rect(r.Min.X-lo, r.Min.Y-lo, r.Min.X+hi, r.Max.Y+hi), // left
		image.Rect(r.Max.X-lo, r.Min.Y-lo, r.Max.X+hi, r.Max.Y+hi), // right
	}
	for _, s := range sides {
		draw.Draw(dst, s.Intersect(dst.Bounds()), src, image.Point{}, draw.Over)
	}
}

var (
	labelOnce sync.Once
	labelFont font.Face
)

func labelFace() font.Face {
	labelOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err == nil {
			labelFont, err = opentype.NewFace(f, &opentype.FaceOptions{Size: labelSize, DPI: 72, Hinting: font.HintingFull})
		}
		if err != nil {
			log.Printf("label font: %v", err)
			labelFont = basicfont.Face7x13
		}
	})
	return labelFont
}
