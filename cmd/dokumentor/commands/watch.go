package commands

import (
	"context"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/dokumentor/internal/foundation/errors"
	"git.home.luguber.info/inful/dokumentor/internal/logfields"
	"git.home.luguber.info/inful/dokumentor/internal/pipeline"
)

// WatchCmd regenerates documentation whenever the manifest changes.
type WatchCmd struct {
	Source      string        `short:"s" help:"Manifest to watch" required:"" type:"path"`
	Destination string        `short:"d" help:"Document to update (defaults to README.md beside the manifest)" type:"path"`
	Debounce    time.Duration `help:"Quiet period before regenerating after a change" default:"500ms"`
}

func (w *WatchCmd) Run(global *Global, root *CLI) error {
	sigctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rn, _, err := newRunner(global, root, nil)
	if err != nil {
		return err
	}
	return w.watch(sigctx, rn, global.out())
}

// watch runs the job once and again after every change to the manifest
// until ctx is done. Failed runs are logged and do not stop the watcher.
func (w *WatchCmd) watch(ctx context.Context, rn *pipeline.Runner, out io.Writer) error {
	source, err := filepath.Abs(w.Source)
	if err != nil {
		return ferrors.FileSystemError("failed to resolve manifest path").WithCause(err).Build()
	}
	job := pipeline.Job{Source: source, Destination: w.Destination}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.InternalError("failed to create file watcher").WithCause(err).Build()
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(filepath.Dir(source)); err != nil {
		return ferrors.FileSystemError("failed to watch manifest directory").
			WithCause(err).
			WithContext("path", filepath.Dir(source)).
			Build()
	}

	log := rn.Logger().With(logfields.Manifest(source))
	regenerate := func() {
		res, err := rn.Run(ctx, job)
		if err != nil {
			if ctx.Err() == nil {
				log.Error("Regeneration failed", logfields.Error(err))
			}
			return
		}
		report(out, res, false)
	}

	log.Info("Watching manifest for changes")
	regenerate()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			log.Info("Stopped watching manifest")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(source) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug("Manifest change detected", logfields.Path(event.Name), "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			regenerate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("Watcher error", logfields.Error(err))
		}
	}
}
