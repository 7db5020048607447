package appstate

import (
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/example/imageclipper/internal/clipboard"
	"github.com/example/imageclipper/internal/clipper"
	"github.com/example/imageclipper/internal/notify"
	"github.com/example/imageclipper/internal/session"
)

const noticeDuration = 2 * time.Second

var copyText = clipboard.WriteText

// notice is a transient message drawn over the image.
type notice struct {
	text  string
	until time.Time
	isErr bool
}

func (n notice) visible(now time.Time) bool {
	return n.text != "" && now.Before(n.until)
}

// cropView maps window input onto a crop session. It has no window of its
// own so the event loop stays a thin translation layer.
type cropView struct {
	sess       *session.Session
	notifier   *notify.Notifier
	copyResult bool
	now        func() time.Time

	notice notice
	// saved is set once a crop has been written.
	saved *session.Result
}

func newCropView(sess *session.Session, n *notify.Notifier, copyResult bool) *cropView {
	return &cropView{sess: sess, notifier: n, copyResult: copyResult, now: time.Now}
}

func (v *cropView) ctrl() *clipper.Controller { return v.sess.Controller() }

func (v *cropView) say(text string, isErr bool) {
	v.notice = notice{text: text, until: v.now().Add(noticeDuration), isErr: isErr}
	log.Print(text)
}

// dismiss hides a visible notice. It reports whether one was shown.
func (v *cropView) dismiss() bool {
	if !v.notice.visible(v.now()) {
		return false
	}
	v.notice.until = time.Time{}
	return true
}

// resize reports the area above the shortcut bar as the viewport.
func (v *cropView) resize(width, height int) bool {
	return v.ctrl().OnViewportResized(width, height-bottomHeight) == clipper.StateReady
}

func (v *cropView) press(p image.Point) {
	v.ctrl().Begin(p)
}

func (v *cropView) drag(p image.Point) bool {
	return v.ctrl().Move(p)
}

func (v *cropView) release() {
	v.ctrl().End()
}

func (v *cropView) reset() {
	v.ctrl().Reset()
}

// confirm starts a save. It returns nil when nothing was started, leaving a
// notice explaining why.
func (v *cropView) confirm() <-chan session.Result {
	ch, err := v.sess.Confirm()
	switch {
	case err == nil:
		v.say("clipping...", false)
		return ch
	case errors.Is(err, session.ErrSaveInFlight):
		v.say(err.Error(), false)
	case errors.Is(err, clipper.ErrNotReady):
		v.say("image is still loading", false)
	default:
		v.say(fmt.Sprintf("clip: %v", err), true)
	}
	return nil
}

// finish handles a save result. It reports whether the window should close.
func (v *cropView) finish(res session.Result) bool {
	if res.Err != nil {
		v.say(fmt.Sprintf("save failed: %v", res.Err), true)
		v.notifier.Error(res.Err)
		return false
	}
	v.saved = &res
	v.say(fmt.Sprintf("saved %s (%s)", res.Path, humanize.Bytes(uint64(res.Size))), false)
	v.notifier.Save(res.Path, res.Size)
	if v.copyResult {
		if err := copyText(res.URI); err != nil {
			log.Printf("copy: %v", err)
		} else {
			v.notifier.Copy(res.URI)
		}
	}
	return true
}
