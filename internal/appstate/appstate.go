package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"
	"unicode"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/imageclipper/internal/clipper"
	"github.com/example/imageclipper/internal/render"
	"github.com/example/imageclipper/internal/theme"
)

// ProgramTitle prefixes every window title.
const ProgramTitle = "Image Clipper"

const bottomHeight = 24

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

const checkerSize = 8

// selectionShade dims the image outside the crop rectangle.
var selectionShade = func() render.ShadeOptions {
	o := render.DefaultShadeOptions()
	o.Feather = 2
	return o
}()

var messageFace font.Face = basicfont.Face7x13

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Printf("parse font: %v", err)
		return
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 28, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Printf("font face: %v", err)
		return
	}
	messageFace = face
}

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Shortcut is a clickable label in the bottom bar.
type Shortcut struct {
	label  string
	action string
	keys   []KeyShortcut
	rect   image.Rectangle
}

func (s *Shortcut) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	bg := th.BarBackground
	fg := th.BarText
	switch state {
	case StateHover:
		fg = th.BarAccent
	case StatePressed:
		bg, fg = th.BarAccent, th.BarBackground
	}
	draw.Draw(dst, s.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	clipper.StrokeRect(dst, s.rect, fg, 1)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: basicfont.Face7x13,
		Dot: fixed.P(s.rect.Min.X+4, s.rect.Min.Y+14)}
	d.DrawString(s.label)
}

func (s *Shortcut) Rect() image.Rectangle { return s.rect }

// Default bar texts for the confirm and cancel actions.
const (
	DefaultConfirmLabel = "clip"
	DefaultCancelLabel  = "cancel"
)

// shortcuts builds the bottom bar. Empty labels fall back to the defaults.
func shortcuts(confirm, cancel string) []Shortcut {
	if confirm == "" {
		confirm = DefaultConfirmLabel
	}
	if cancel == "" {
		cancel = DefaultCancelLabel
	}
	return []Shortcut{
		{label: "Enter:" + confirm, action: "confirm", keys: []KeyShortcut{{Code: key.CodeReturnEnter}, {Code: key.CodeKeypadEnter}}},
		{label: "R:reset", action: "reset", keys: []KeyShortcut{{Rune: 'r'}}},
		{label: "Esc:" + cancel, action: "cancel", keys: []KeyShortcut{{Code: key.CodeEscape}, {Rune: 'q'}}},
	}
}

// layoutShortcuts positions the bar entries for a window of the given size.
func layoutShortcuts(list []Shortcut, width, height int) {
	x := 6
	y := height - bottomHeight + 3
	meas := &font.Drawer{Face: basicfont.Face7x13}
	for i := range list {
		w := meas.MeasureString(list[i].label).Ceil()
		list[i].rect = image.Rect(x, y, x+w+8, y+bottomHeight-6)
		x = list[i].rect.Max.X + 8
	}
}

func shortcutAt(list []Shortcut, p image.Point) int {
	for i := range list {
		if p.In(list[i].rect) {
			return i
		}
	}
	return -1
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.RGBA) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := dark
			if (((x-rect.Min.X)/size)+((y-rect.Min.Y)/size))%2 == 0 {
				c = light
			}
			dst.SetRGBA(x, y, c)
		}
	}
}

func drawNotice(dst *image.RGBA, n notice, th *theme.Theme, width, height int) {
	fg := th.NoticeText
	if n.isErr {
		fg = th.ErrorText
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: messageFace}
	wmsg := d.MeasureString(n.text).Ceil()
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	px := (width - wmsg) / 2
	py := (height-bottomHeight-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{th.NoticeBackground}, image.Point{}, draw.Over)
	clipper.StrokeRect(dst, rect, fg, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(n.text)
}

type paintState struct {
	width, height int
	theme         *theme.Theme
	frame         clipper.FrameDescription
	ready         bool
	shortcuts     []Shortcut
	hover         int
	saving        bool
	notice        notice
}

// paintWindow draws one complete window image into dst.
func paintWindow(ctx context.Context, dst *image.RGBA, st paintState) bool {
	th := st.theme
	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)

	if st.ready {
		area := st.frame.Display.Bounds().Add(st.frame.Offset)
		drawCheckerboard(dst, area, checkerSize, th.CheckerLight, th.CheckerDark)
		if ctx.Err() != nil {
			return false
		}
		clipper.DrawFrame(dst, st.frame)
		render.Shade(dst, area, st.frame.Crop.Add(st.frame.Offset), selectionShade)
	}
	if ctx.Err() != nil {
		return false
	}

	bar := image.Rect(0, st.height-bottomHeight, st.width, st.height)
	draw.Draw(dst, bar, &image.Uniform{th.BarBackground}, image.Point{}, draw.Src)
	for i := range st.shortcuts {
		state := StateDefault
		if i == st.hover {
			state = StateHover
		}
		if st.saving && st.shortcuts[i].action == "confirm" {
			state = StatePressed
		}
		st.shortcuts[i].Draw(dst, state, th)
	}

	if ctx.Err() != nil {
		return false
	}

	if st.notice.visible(time.Now()) {
		drawNotice(dst, st.notice, th, st.width, st.height)
	}
	return ctx.Err() == nil
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	if !paintWindow(ctx, b.RGBA(), st) {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func (k KeyShortcut) matches(e key.Event) bool {
	if k.Modifiers != e.Modifiers {
		return false
	}
	if k.Code != key.CodeUnknown && k.Code == e.Code {
		return true
	}
	return k.Rune != 0 && k.Rune == unicode.ToLower(e.Rune)
}

func shortcutFor(list []Shortcut, e key.Event) string {
	for _, sc := range list {
		for _, k := range sc.keys {
			if k.matches(e) {
				return sc.action
			}
		}
	}
	return ""
}
