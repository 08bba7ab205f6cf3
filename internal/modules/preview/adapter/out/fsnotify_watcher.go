package out

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	previewout "suerga/internal/modules/preview/port/out"
)

type FSNotifyWatcher struct {
	logger zerolog.Logger
}

func NewFSNotifyWatcher(logger zerolog.Logger) previewout.Watcher {
	return &FSNotifyWatcher{logger: logger}
}

// Watch registers every directory under root, since fsnotify does not recurse, and follows new ones.
func (w *FSNotifyWatcher) Watch(ctx context.Context, root string) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addTree(watcher, root); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	out := make(chan string, 64)
	go func() {
		defer close(out)
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := addTree(watcher, event.Name); err != nil {
							w.logger.Warn().Err(err).Str("dir", event.Name).Msg("cannot watch new directory")
						}
					}
				}
				if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
					continue
				}
				rel, err := filepath.Rel(root, event.Name)
				if err != nil {
					continue
				}
				select {
				case out <- filepath.ToSlash(rel):
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				w.logger.Error().Err(err).Msg("watcher error")
			}
		}
	}()
	return out, nil
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && d.Name() == ".suerga" {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
