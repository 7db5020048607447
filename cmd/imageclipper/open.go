package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/imageclipper/internal/appstate"
	"github.com/example/imageclipper/internal/config"
	"github.com/example/imageclipper/internal/session"
)

var errCancelled = errors.New("clip cancelled")

var runWindowFn = func(st *appstate.AppState) { st.Run() }

type openCmd struct {
	crop         cropFlags
	copyPath     bool
	title        string
	confirmLabel string
	cancelLabel  string
	out          io.Writer
	*root
	fs *flag.FlagSet
}

func (o *openCmd) FlagSet() *flag.FlagSet {
	return o.fs
}

func (o *openCmd) Program() string {
	return o.root.subcommand("open")
}

func parseOpenCmd(args []string, r *root) (*openCmd, error) {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	c := &openCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(c)
	c.crop.bind(fs, r.config)
	fs.BoolVar(&c.copyPath, "copy-uri", false, "copy the file:// URI of the saved crop to the clipboard")
	var d config.Clipper
	if r.config != nil {
		d = r.config.Clipper
	}
	fs.StringVar(&c.title, "title", d.Title, "window title (default: program name and source)")
	fs.StringVar(&c.confirmLabel, "confirm-label", d.ConfirmLabel, "text of the confirm button (default \""+appstate.DefaultConfirmLabel+"\")")
	fs.StringVar(&c.cancelLabel, "cancel-label", d.CancelLabel, "text of the cancel button (default \""+appstate.DefaultCancelLabel+"\")")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := c.crop.validate(); err != nil {
		return nil, &UsageError{of: c, msg: err.Error()}
	}
	return c, nil
}

func (o *openCmd) Run() error {
	dir, err := o.crop.storage(o.cacheDir)
	if err != nil {
		o.notifyError(err)
		return err
	}
	ctrl, from, err := o.crop.controller()
	if err != nil {
		return err
	}
	sess, err := session.New(ctrl, dir, session.WithExcludeStroke(!o.crop.includeBorder))
	if err != nil {
		return err
	}

	var saved *session.Result
	st := appstate.New(
		appstate.WithSession(sess),
		appstate.WithTheme(o.activeTheme),
		appstate.WithTitle(from),
		appstate.WithWindowTitle(o.title),
		appstate.WithLabels(o.confirmLabel, o.cancelLabel),
		appstate.WithNotifier(o.notifier),
		appstate.WithCopyResult(o.copyPath),
		appstate.WithOnResult(func(res session.Result) { saved = &res }),
	)
	runWindowFn(st)

	if saved == nil {
		return errCancelled
	}
	fmt.Fprintln(o.out, saved.Path)
	fmt.Fprintln(o.out, saved.URI)
	return nil
}
