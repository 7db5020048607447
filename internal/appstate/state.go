package appstate

import (
	"context"
	"image"
	"log"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"

	"github.com/example/imageclipper/internal/notify"
	"github.com/example/imageclipper/internal/session"
	"github.com/example/imageclipper/internal/theme"
)

// Largest initial window; bigger images are fitted into it.
const (
	maxWindowWidth  = 1280
	maxWindowHeight = 900
)

// AppState holds the configuration of a crop window.
type AppState struct {
	Session *session.Session
	Theme   *theme.Theme
	Title   string
	// WindowTitle replaces the whole window title when set.
	WindowTitle  string
	ConfirmLabel string
	CancelLabel  string
	Notifier     *notify.Notifier
	CopyResult   bool

	onResult  func(session.Result)
	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithSession sets the crop session the window drives.
func WithSession(s *session.Session) Option { return func(a *AppState) { a.Session = s } }

// WithTheme sets the window chrome colors.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithTitle sets the window title suffix.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithWindowTitle sets the complete window title, overriding the program
// name and source suffix.
func WithWindowTitle(title string) Option { return func(a *AppState) { a.WindowTitle = title } }

// WithLabels sets the texts of the confirm and cancel buttons.
func WithLabels(confirm, cancel string) Option {
	return func(a *AppState) {
		a.ConfirmLabel = confirm
		a.CancelLabel = cancel
	}
}

// WithNotifier sets the desktop notifier used for save results.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithCopyResult copies the saved file URI to the clipboard.
func WithCopyResult(enabled bool) Option { return func(a *AppState) { a.CopyResult = enabled } }

// WithOnResult registers a callback for a successful save.
func WithOnResult(fn func(session.Result)) Option { return func(a *AppState) { a.onResult = fn } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

// saveDone carries a save result back onto the event goroutine.
type saveDone struct {
	res session.Result
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

func (a *AppState) windowTitle() string {
	if a.WindowTitle != "" {
		return a.WindowTitle
	}
	if a.Title == "" {
		return ProgramTitle
	}
	return ProgramTitle + " - " + a.Title
}

// initialSize picks a window that shows src unscaled when it fits.
func initialSize(src image.Point) image.Point {
	w, h := src.X, src.Y+bottomHeight
	if w > maxWindowWidth {
		w = maxWindowWidth
	}
	if h > maxWindowHeight {
		h = maxWindowHeight
	}
	if w < 320 {
		w = 320
	}
	if h < 240 {
		h = 240
	}
	return image.Pt(w, h)
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

func (a *AppState) Main(s screen.Screen) {
	defer a.notifyClose()
	if a.Session == nil {
		log.Print("no session to show")
		return
	}
	defer a.Session.Close()

	view := newCropView(a.Session, a.Notifier, a.CopyResult)
	bars := shortcuts(a.ConfirmLabel, a.CancelLabel)

	sz := initialSize(a.Session.Controller().Source().Bounds().Size())
	width, height := sz.X, sz.Y
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.windowTitle()})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	hover := -1
	pressed := false
	var touchSeq touch.Sequence = -1

	trigger := func(action string) (quit bool) {
		switch action {
		case "confirm":
			ch := view.confirm()
			if ch != nil {
				go func() { w.Send(saveDone{res: <-ch}) }()
			}
		case "reset":
			view.reset()
		case "cancel":
			a.Session.Cancel()
			return true
		}
		w.Send(paint.Event{})
		return false
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPaint()
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			layoutShortcuts(bars, width, height)
			view.resize(width, height)
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			frame, ready := view.ctrl().Frame()
			st := paintState{
				width:     width,
				height:    height,
				theme:     a.Theme,
				frame:     frame,
				ready:     ready,
				shortcuts: append([]Shortcut(nil), bars...),
				hover:     hover,
				saving:    a.Session.Saving(),
				notice:    view.notice,
			}
			select {
			case paintCh <- st:
			default:
				// replace the queued frame
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case saveDone:
			if view.finish(e.res) {
				if a.onResult != nil {
					a.onResult(e.res)
				}
				stopPaint()
				return
			}
			w.Send(paint.Event{})
		case mouse.Event:
			p := image.Pt(int(e.X), int(e.Y))
			if e.Direction == mouse.DirPress && view.dismiss() {
				w.Send(paint.Event{})
			}
			if p.Y >= height-bottomHeight && !pressed {
				if h := shortcutAt(bars, p); h != hover {
					hover = h
					w.Send(paint.Event{})
				}
				if hover >= 0 && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					if trigger(bars[hover].action) {
						stopPaint()
						return
					}
				}
				continue
			}
			if hover != -1 {
				hover = -1
				w.Send(paint.Event{})
			}
			if e.Button != mouse.ButtonLeft && e.Button != mouse.ButtonNone {
				continue
			}
			switch e.Direction {
			case mouse.DirPress:
				pressed = true
				view.press(p)
			case mouse.DirNone:
				if pressed && view.drag(p) {
					w.Send(paint.Event{})
				}
			case mouse.DirRelease:
				if pressed && view.drag(p) {
					w.Send(paint.Event{})
				}
				pressed = false
				view.release()
			}
		case touch.Event:
			p := image.Pt(int(e.X), int(e.Y))
			switch e.Type {
			case touch.TypeBegin:
				// one finger drives the rectangle
				if touchSeq != -1 {
					continue
				}
				touchSeq = e.Sequence
				view.dismiss()
				view.press(p)
			case touch.TypeMove:
				if e.Sequence == touchSeq && view.drag(p) {
					w.Send(paint.Event{})
				}
			case touch.TypeEnd:
				if e.Sequence == touchSeq {
					touchSeq = -1
					view.release()
				}
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if action := shortcutFor(bars, e); action != "" {
				if trigger(action) {
					stopPaint()
					return
				}
			}
		case error:
			log.Print(e)
		}
	}
}
