package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
)

// ErrSaveInFlight is returned when a save is requested while another one is
// still running.
var ErrSaveInFlight = errors.New("clipping, please wait")

var encodeImage = func(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// Snapshot is the immutable input of one save.
type Snapshot struct {
	Image image.Image
	Path  string
}

// Result reports the outcome of a save.
type Result struct {
	Path string
	URI  string
	Size int64
	Err  error
}

// Saver runs at most one background save at a time.
type Saver struct {
	mu       sync.Mutex
	inFlight bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// Busy reports whether a save is running.
func (s *Saver) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Start writes snap in the background. The returned channel yields exactly one
// Result. Cancelling ctx or calling Abandon stops the write at the next chunk.
func (s *Saver) Start(ctx context.Context, snap Snapshot) (<-chan Result, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrSaveInFlight
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.inFlight = true
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	out := make(chan Result, 1)
	go func() {
		defer close(done)
		defer cancel()
		res := write(ctx, snap)
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
		out <- res
		close(out)
	}()
	return out, nil
}

// Abandon cancels the running save, if any, without waiting for it.
func (s *Saver) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Wait blocks until the most recently started save has finished.
func (s *Saver) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

func write(ctx context.Context, snap Snapshot) Result {
	res := Result{Path: snap.Path}
	if err := os.MkdirAll(filepath.Dir(snap.Path), 0o755); err != nil {
		res.Err = fmt.Errorf("create cache dir: %w", err)
		return res
	}
	f, err := os.Create(snap.Path)
	if err != nil {
		res.Err = fmt.Errorf("create %s: %w", snap.Path, err)
		return res
	}
	bw := bufio.NewWriter(ctxWriter{ctx: ctx, w: f})
	err = encodeImage(bw, snap.Image)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := os.Remove(snap.Path); rerr != nil {
			log.Printf("remove partial %s: %v", snap.Path, rerr)
		}
		res.Err = fmt.Errorf("write %s: %w", snap.Path, err)
		return res
	}
	info, err := os.Stat(snap.Path)
	if err != nil {
		res.Err = fmt.Errorf("stat %s: %w", snap.Path, err)
		return res
	}
	res.Size = info.Size()
	res.URI = FileURI(snap.Path)
	return res
}

type ctxWriter struct {
	ctx context.Context
	w   io.Writer
}

func (c ctxWriter) Write(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.w.Write(p)
}
