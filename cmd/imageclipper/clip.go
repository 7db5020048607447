package main

import (
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/example/imageclipper/internal/clipper"
	"github.com/example/imageclipper/internal/session"
)

// dragList collects -drag values. Each drag is a pointer path in viewport
// coordinates written as "x,y>x,y>...".
type dragList [][]image.Point

func (d *dragList) String() string {
	if d == nil {
		return ""
	}
	parts := make([]string, 0, len(*d))
	for _, path := range *d {
		pts := make([]string, 0, len(path))
		for _, p := range path {
			pts = append(pts, fmt.Sprintf("%d,%d", p.X, p.Y))
		}
		parts = append(parts, strings.Join(pts, ">"))
	}
	return strings.Join(parts, " ")
}

func (d *dragList) Set(v string) error {
	path, err := parseDrag(v)
	if err != nil {
		return err
	}
	*d = append(*d, path)
	return nil
}

func parseDrag(v string) ([]image.Point, error) {
	fields := strings.Split(v, ">")
	if len(fields) < 2 {
		return nil, fmt.Errorf("drag %q needs at least two points", v)
	}
	path := make([]image.Point, 0, len(fields))
	for _, f := range fields {
		p, err := parsePoint(f)
		if err != nil {
			return nil, fmt.Errorf("drag %q: %w", v, err)
		}
		path = append(path, p)
	}
	return path, nil
}

func parsePoint(s string) (image.Point, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return image.Point{}, fmt.Errorf("point %q is not x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return image.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return image.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	return image.Pt(x, y), nil
}

// parseSize reads WIDTHxHEIGHT.
func parseSize(s string) (image.Point, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return image.Point{}, fmt.Errorf("size %q is not WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return image.Point{}, fmt.Errorf("size %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return image.Point{}, fmt.Errorf("size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return image.Point{}, fmt.Errorf("size %q must be positive", s)
	}
	return image.Pt(w, h), nil
}

type clipCmd struct {
	crop        cropFlags
	viewport    string
	drags       dragList
	toClipboard bool
	copyURI     bool
	dryRun      bool
	out         io.Writer
	*root
	fs *flag.FlagSet
}

func (c *clipCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *clipCmd) Program() string {
	return c.root.subcommand("clip")
}

func parseClipCmd(args []string, r *root) (*clipCmd, error) {
	fs := flag.NewFlagSet("clip", flag.ExitOnError)
	c := &clipCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(c)
	c.crop.bind(fs, r.config)
	fs.StringVar(&c.viewport, "viewport", "", "viewport size WIDTHxHEIGHT the drags are expressed in (default: image size)")
	fs.Var(&c.drags, "drag", "pointer path x,y>x,y>... applied to the frame; repeatable")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the cropped image to the clipboard")
	fs.BoolVar(&c.copyURI, "copy-uri", false, "copy the file:// URI of the saved crop to the clipboard")
	fs.BoolVar(&c.dryRun, "dry-run", false, "print the crop rectangle in image pixels without saving")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := c.crop.validate(); err != nil {
		return nil, &UsageError{of: c, msg: err.Error()}
	}
	if c.viewport != "" {
		if _, err := parseSize(c.viewport); err != nil {
			return nil, &UsageError{of: c, msg: err.Error()}
		}
	}
	return c, nil
}

// replay feeds each drag through the controller as a press, moves and a
// release. It returns how many drags changed the frame.
func replay(ctrl *clipper.Controller, drags [][]image.Point) int {
	changed := 0
	for _, path := range drags {
		ctrl.Begin(path[0])
		moved := false
		for _, p := range path[1:] {
			if ctrl.Move(p) {
				moved = true
			}
		}
		ctrl.End()
		if moved {
			changed++
		}
	}
	return changed
}

func (c *clipCmd) Run() error {
	// A dry run writes nothing, so only a real clip needs the output
	// directory. Check it before decoding and replaying anything.
	var dir string
	if !c.dryRun {
		d, err := c.crop.storage(c.cacheDir)
		if err != nil {
			c.notifyError(err)
			return err
		}
		dir = d
	}
	ctrl, _, err := c.crop.controller()
	if err != nil {
		return err
	}
	vp := ctrl.Source().Bounds().Size()
	if c.viewport != "" {
		if vp, err = parseSize(c.viewport); err != nil {
			return err
		}
	}
	if st := ctrl.OnViewportResized(vp.X, vp.Y); st != clipper.StateReady {
		return fmt.Errorf("viewport %dx%d: controller is %v", vp.X, vp.Y, st)
	}
	if n := replay(ctrl, c.drags); n < len(c.drags) {
		fmt.Fprintf(os.Stderr, "warning: %d of %d drags did not change the frame\n", len(c.drags)-n, len(c.drags))
	}

	exclude := !c.crop.includeBorder
	if c.dryRun {
		r, err := ctrl.SourceRect(exclude)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%d,%d %dx%d\n", r.Min.X, r.Min.Y, r.Dx(), r.Dy())
		return nil
	}

	var clipped image.Image
	if c.toClipboard {
		if clipped, err = ctrl.Clip(exclude); err != nil {
			return err
		}
	}
	sess, err := session.New(ctrl, dir, session.WithExcludeStroke(exclude))
	if err != nil {
		return err
	}
	defer sess.Close()
	ch, err := sess.Confirm()
	if err != nil {
		return err
	}
	res := <-ch
	if res.Err != nil {
		c.notifyError(res.Err)
		return fmt.Errorf("failed to save crop: %w", res.Err)
	}
	c.notifySave(res.Path, res.Size)
	fmt.Fprintln(c.out, res.Path)
	fmt.Fprintln(c.out, res.URI)

	if c.copyURI {
		if err := writeClipboardTextFn(res.URI); err != nil {
			return fmt.Errorf("failed to copy URI: %w", err)
		}
		c.notifyCopy("crop URI")
	}
	if clipped != nil {
		if err := writeClipboardImageFn(clipped); err != nil {
			return fmt.Errorf("failed to copy crop: %w", err)
		}
		c.notifyCopy("cropped image")
	}
	return nil
}
