package catalog

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/turtacn/potvault/internal/domain/potential"
	"github.com/turtacn/potvault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/potvault/pkg/errors"
)

// Watcher observes a library tree and catalogues new POTCAR files as they
// appear.  Creation events are debounced before ingest so that files still
// being written are read only once they are complete.
type Watcher struct {
	svc      *Service
	debounce time.Duration
	log      logging.Logger

	wg sync.WaitGroup
}

// NewWatcher constructs a watcher feeding the given catalog service.
func NewWatcher(svc *Service, debounce time.Duration, log logging.Logger) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{svc: svc, debounce: debounce, log: log.Named("watch")}
}

// Watch blocks watching root and every directory below it until ctx is
// cancelled.  Directories created while watching are picked up, and every
// new file named POTCAR is ingested after the debounce interval.
func (w *Watcher) Watch(ctx context.Context, root string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.CodeCatalogWatchFailed,
			"failed to initialise the filesystem watcher")
	}
	defer fw.Close()

	if err := addRecursive(fw, root); err != nil {
		return err
	}
	w.log.Info("watching library tree", logging.String("root", root))

	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				w.wg.Wait()
				return nil
			}
			w.handle(ctx, fw, event)

		case err, ok := <-fw.Errors:
			if !ok {
				w.wg.Wait()
				return nil
			}
			w.log.Error("watch error", logging.Err(err))
		}
	}
}

// handle reacts to one filesystem event: new directories extend the watch,
// new POTCAR files are scheduled for ingest.
func (w *Watcher) handle(ctx context.Context, fw *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if err := addRecursive(fw, event.Name); err != nil {
			w.log.Error("failed to watch new directory",
				logging.String("path", event.Name), logging.Err(err))
		}
		return
	}
	if filepath.Base(event.Name) != "POTCAR" {
		return
	}

	w.wg.Add(1)
	go func(path string) {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.debounce):
		}
		w.ingest(ctx, path)
	}(event.Name)
}

// ingest resolves, parses and stores one freshly appeared file.  Duplicates
// are routine while watching and logged at info level only.
func (w *Watcher) ingest(ctx context.Context, path string) {
	id, err := potential.ResolvePath(path)
	if err != nil {
		w.log.Warn("ignoring new file, identity resolution failed",
			logging.String("path", path), logging.Err(err))
		return
	}
	rec, err := w.svc.parser.ParseFile(path, id)
	if err != nil {
		w.log.Warn("ignoring new file due to a parsing error",
			logging.String("path", path), logging.Err(err))
		return
	}

	pf, err := w.svc.Store(ctx, rec)
	switch {
	case err == nil:
		w.log.Info("catalogued new potential",
			logging.String("path", path),
			logging.String("id", pf.ID.String()))
	case errors.IsCode(err, errors.CodePotentialDuplicate):
		w.log.Info("new file is already catalogued",
			logging.String("path", path))
	default:
		w.log.Error("failed to catalogue new potential",
			logging.String("path", path), logging.Err(err))
	}
}

// addRecursive watches root and every directory below it.
func addRecursive(fw *fsnotify.Watcher, root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeCatalogWatchFailed,
			"failed to watch library tree '"+root+"'")
	}
	return nil
}
