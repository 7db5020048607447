// Package session ties a crop controller to its source image and the
// background save that follows a confirm.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/imageclipper/internal/clipper"
)

// ErrClosed is returned by operations on a finished session.
var ErrClosed = errors.New("session closed")

// Session is one crop of one image. Confirm, Cancel and Close must be called
// from the goroutine that drives the controller.
type Session struct {
	ctrl          *clipper.Controller
	dir           string
	excludeStroke bool
	now           func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	saver  Saver
	closed bool
}

// Option configures a Session.
type Option func(*Session)

// WithExcludeStroke selects whether the border stroke is trimmed from the
// saved crop. It is trimmed by default.
func WithExcludeStroke(exclude bool) Option {
	return func(s *Session) { s.excludeStroke = exclude }
}

// WithClock replaces the clock used to name output files.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New starts a session for ctrl writing into dir.
func New(ctrl *clipper.Controller, dir string, opts ...Option) (*Session, error) {
	if ctrl == nil {
		return nil, clipper.ErrNoImage
	}
	if dir == "" {
		return nil, fmt.Errorf("session: empty output directory")
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ctrl:          ctrl,
		dir:           dir,
		excludeStroke: true,
		now:           time.Now,
		ctx:           ctx,
		cancel:        cancel,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Controller returns the crop controller.
func (s *Session) Controller() *clipper.Controller { return s.ctrl }

// Dir returns the output directory.
func (s *Session) Dir() string { return s.dir }

// Saving reports whether a save is in flight.
func (s *Session) Saving() bool { return s.saver.Busy() }

// Confirm extracts the crop and starts writing it. While a save is running it
// returns ErrSaveInFlight without extracting again.
func (s *Session) Confirm() (<-chan Result, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.saver.Busy() {
		return nil, ErrSaveInFlight
	}
	img, err := s.ctrl.Clip(s.excludeStroke)
	if err != nil {
		return nil, err
	}
	return s.saver.Start(s.ctx, Snapshot{Image: img, Path: OutputPath(s.dir, s.now())})
}

// Cancel abandons any save in flight and releases the images.
func (s *Session) Cancel() {
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	s.saver.Abandon()
	s.ctrl.Release()
}

// Close cancels the session and waits for an abandoned save to stop.
func (s *Session) Close() {
	s.Cancel()
	s.saver.Wait()
}
