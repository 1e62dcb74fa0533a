package cli

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/toyz/visitgen/internal/errors"
	"github.com/toyz/visitgen/internal/utils"
)

// Watcher regenerates whenever a C# source under the input directories
// changes. Events are debounced so a burst of saves triggers one run.
type Watcher struct {
	generator   *Generator
	diagnostics *utils.DiagnosticSystem
	reporter    *DiagnosticReporter
	debounce    time.Duration
	dirFilter   utils.DirectoryFilter
	output      string

	runs chan error
}

// NewWatcher creates a watcher driving g
func NewWatcher(g *Generator) *Watcher {
	config := g.Config()
	debounce := config.Watch.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	output, err := filepath.Abs(config.Output)
	if err != nil {
		output = filepath.Clean(config.Output)
	}

	return &Watcher{
		generator:   g,
		diagnostics: g.diagnostics,
		reporter:    g.reporter,
		debounce:    debounce,
		dirFilter:   utils.DefaultDirectoryFilter(config.Exclude...),
		output:      output,
	}
}

// Runs returns a channel that receives the result of every generation the
// watcher performs. It must be requested before Run.
func (w *Watcher) Runs() <-chan error {
	if w.runs == nil {
		w.runs = make(chan error, 16)
	}
	return w.runs
}

// Run generates once, then watches until ctx is cancelled. Generation
// failures are reported and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.FileSystemErrorCode, "failed to create file watcher", err)
	}
	defer fsw.Close()

	for _, root := range w.generator.Config().Directories {
		if err := w.addTree(fsw, utils.NormalizeRoot(root)); err != nil {
			return err
		}
	}

	w.diagnostics.Info("Watching %d directories for changes", len(fsw.WatchList()))
	w.regenerate(ctx)

	return w.loop(ctx, fsw)
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.handle(fsw, event) {
				w.diagnostics.Debug("Change detected: %s %s", event.Op, event.Name)
				timer.Reset(w.debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.diagnostics.Warn("File watcher error: %v", err)

		case <-timer.C:
			w.regenerate(ctx)
		}
	}
}

// handle starts watching new directories and reports whether event should
// trigger a regeneration
func (w *Watcher) handle(fsw *fsnotify.Watcher, event fsnotify.Event) bool {
	if w.inOutput(event.Name) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.dirFilter(event.Name, fs.FileInfoToDirEntry(info)) {
				return false
			}
			if err := w.addTree(fsw, event.Name); err != nil {
				w.diagnostics.Warn("Cannot watch %s: %v", event.Name, err)
			}
			return true
		}
	}

	if !strings.EqualFold(filepath.Ext(event.Name), utils.SourceExtension) {
		return false
	}
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.generator.scanner.Reader().InvalidateFile(event.Name)
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// addTree watches root and every directory below it that the scanner would
// descend into, except the output directory
func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return errors.WrapFileSystemError("watch", path, err)
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && (!w.dirFilter(path, entry) || w.inOutput(path)) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return errors.WrapFileSystemError("watch", path, err)
		}
		return nil
	})
}

func (w *Watcher) inOutput(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(w.output, abs)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *Watcher) regenerate(ctx context.Context) {
	err := w.generator.Run(ctx)
	switch {
	case ctx.Err() != nil:
		return
	case err != nil:
		w.reporter.ReportError(err)
	default:
		summary := w.generator.GetSummary()
		w.diagnostics.Success("Regenerated %d files (%d unchanged, %d removed)",
			summary.Written, summary.Unchanged, len(summary.RemovedFiles))
	}

	if w.runs != nil {
		select {
		case w.runs <- err:
		default:
		}
	}
}
