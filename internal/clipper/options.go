package clipper

import (
	"fmt"
	"image/color"
	"strings"
)

// BorderType selects the shape of the crop border.
type BorderType int

const (
	// BorderRectangle is an axis-aligned rectangular crop border.
	BorderRectangle BorderType = iota
)

func (b BorderType) String() string {
	switch b {
	case BorderRectangle:
		return "rectangle"
	default:
		return "unknown"
	}
}

// ParseBorderType reads a border shape name as printed by String.
func ParseBorderType(s string) (BorderType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rectangle", "rect":
		return BorderRectangle, nil
	}
	return 0, fmt.Errorf("unknown border type %q", s)
}

const (
	DefaultBorderWidth    = 15
	DefaultToleranceWidth = 20
	DefaultMinWidth       = 100
	DefaultMinHeight      = 100
)

// DefaultBorderColor is the stroke color used when none is configured.
var DefaultBorderColor = color.RGBA{255, 255, 255, 255}

// Options is the display configuration of a crop session. It is fixed once
// the session starts.
type Options struct {
	BorderType  BorderType
	BorderColor color.RGBA
	// BorderWidth is the stroke width of the crop border in pixels.
	BorderWidth int
	// ToleranceWidth widens the hit area around each edge beyond the stroke.
	ToleranceWidth int
	MinWidth       int
	MinHeight      int
	// ShowDimensions renders a live "w:%d, h:%d" label inside the border.
	ShowDimensions bool
}

// Option modifies Options during construction.
type Option func(*Options)

// WithBorderType sets the border shape.
func WithBorderType(t BorderType) Option { return func(o *Options) { o.BorderType = t } }

// WithBorderColor sets the border stroke color.
func WithBorderColor(c color.RGBA) Option { return func(o *Options) { o.BorderColor = c } }

// WithBorderWidth sets the border stroke width in pixels.
func WithBorderWidth(w int) Option { return func(o *Options) { o.BorderWidth = w } }

// WithToleranceWidth sets the extra hit-test width around each edge.
func WithToleranceWidth(w int) Option { return func(o *Options) { o.ToleranceWidth = w } }

// WithMinSize sets the minimum crop rectangle size in display pixels.
func WithMinSize(w, h int) Option {
	return func(o *Options) {
		o.MinWidth = w
		o.MinHeight = h
	}
}

// WithShowDimensions toggles the live width and height label.
func WithShowDimensions(show bool) Option { return func(o *Options) { o.ShowDimensions = show } }

// NewOptions returns the default display configuration with opts applied.
// Minimum sizes below the defaults are raised to the defaults.
func NewOptions(opts ...Option) Options {
	o := Options{
		BorderType:     BorderRectangle,
		BorderColor:    DefaultBorderColor,
		BorderWidth:    DefaultBorderWidth,
		ToleranceWidth: DefaultToleranceWidth,
		MinWidth:       DefaultMinWidth,
		MinHeight:      DefaultMinHeight,
		ShowDimensions: true,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.BorderWidth < 0 {
		o.BorderWidth = 0
	}
	if o.ToleranceWidth < 0 {
		o.ToleranceWidth = 0
	}
	if o.MinWidth < DefaultMinWidth {
		o.MinWidth = DefaultMinWidth
	}
	if o.MinHeight < DefaultMinHeight {
		o.MinHeight = DefaultMinHeight
	}
	return o
}

// hitWidth is the distance from an edge within which a press grabs it.
func (o Options) hitWidth() int {
	return o.BorderWidth + o.ToleranceWidth
}
