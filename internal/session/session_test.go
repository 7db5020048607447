package session

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/example/imageclipper/internal/clipper"
)

func readyController(t *testing.T) *clipper.Controller {
	t.Helper()
	src := image.NewNRGBA(image.Rect(0, 0, 200, 150))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	src.SetNRGBA(100, 75, color.NRGBA{R: 10, A: 255})
	c, err := clipper.New(clipper.NewOptions(), src)
	if err != nil {
		t.Fatal(err)
	}
	if c.OnViewportResized(400, 400) != clipper.StateReady {
		t.Fatal("controller not ready")
	}
	return c
}

func blockingEncoder(t *testing.T) (release chan struct{}, calls *atomic.Int32) {
	t.Helper()
	release = make(chan struct{})
	calls = new(atomic.Int32)
	old := encodeImage
	encodeImage = func(w io.Writer, img image.Image) error {
		calls.Add(1)
		<-release
		return old(w, img)
	}
	t.Cleanup(func() { encodeImage = old })
	return release, calls
}

func TestConfirmWritesPNG(t *testing.T) {
	dir := t.TempDir()
	at := time.UnixMilli(1700000000123)
	s, err := New(readyController(t), dir, WithClock(func() time.Time { return at }))
	if err != nil {
		t.Fatal(err)
	}
	ch, err := s.Confirm()
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	res := <-ch
	if res.Err != nil {
		t.Fatalf("save: %v", res.Err)
	}
	want := filepath.Join(dir, "clipped_img_1700000000123.png")
	if res.Path != want {
		t.Fatalf("path = %q, want %q", res.Path, want)
	}
	if !strings.HasPrefix(res.URI, "file://") || res.Size <= 0 {
		t.Fatalf("result = %+v", res)
	}
	img, err := imaging.Open(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	// stroke excluded: 8px from every side
	if img.Bounds().Size() != image.Pt(184, 134) {
		t.Fatalf("saved size = %v", img.Bounds().Size())
	}
	if s.Saving() {
		t.Fatal("still saving after result")
	}
}

func TestConfirmIncludeStroke(t *testing.T) {
	s, err := New(readyController(t), t.TempDir(), WithExcludeStroke(false))
	if err != nil {
		t.Fatal(err)
	}
	ch, err := s.Confirm()
	if err != nil {
		t.Fatal(err)
	}
	res := <-ch
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	img, err := imaging.Open(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Size() != image.Pt(200, 150) {
		t.Fatalf("saved size = %v", img.Bounds().Size())
	}
}

func TestSecondConfirmWhileSaving(t *testing.T) {
	release, calls := blockingEncoder(t)
	s, err := New(readyController(t), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ch, err := s.Confirm()
	if err != nil {
		t.Fatalf("first Confirm: %v", err)
	}
	if !s.Saving() {
		t.Fatal("expected save in flight")
	}
	if _, err := s.Confirm(); !errors.Is(err, ErrSaveInFlight) {
		t.Fatalf("second Confirm err = %v, want ErrSaveInFlight", err)
	}
	if ErrSaveInFlight.Error() != "clipping, please wait" {
		t.Fatalf("notice = %q", ErrSaveInFlight.Error())
	}
	close(release)
	if res := <-ch; res.Err != nil {
		t.Fatalf("save: %v", res.Err)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("encoder ran %d times, want 1", n)
	}
}

func TestCancelAbandonsSave(t *testing.T) {
	release, _ := blockingEncoder(t)
	ctrl := readyController(t)
	s, err := New(ctrl, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ch, err := s.Confirm()
	if err != nil {
		t.Fatal(err)
	}
	s.Cancel()
	close(release)
	res := <-ch
	if !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", res.Err)
	}
	if _, err := os.Stat(res.Path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("partial file left behind: %v", err)
	}
	if ctrl.State() != clipper.StateReleased {
		t.Fatalf("controller state = %v", ctrl.State())
	}
	if _, err := s.Confirm(); !errors.Is(err, ErrClosed) {
		t.Fatalf("Confirm after cancel: %v", err)
	}
	s.Close()
}

func TestNewRequiresController(t *testing.T) {
	if _, err := New(nil, t.TempDir()); !errors.Is(err, clipper.ErrNoImage) {
		t.Fatalf("err = %v", err)
	}
}

func TestSaveSurfacesStorageError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := New(readyController(t), filepath.Join(blocker, "sub"))
	if err != nil {
		t.Fatal(err)
	}
	ch, err := s.Confirm()
	if err != nil {
		t.Fatal(err)
	}
	if res := <-ch; res.Err == nil {
		t.Fatal("expected storage error")
	}
}
