// Package watch emits document paths as they appear in a directory, feeding
// the same per-file pipeline the batch run uses.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docmill/docmill/internal/scanner"
)

// Config for the directory watcher.
type Config struct {
	Root        string          // directory to watch (recursive)
	ScanOpts    scanner.Options // extension filter shared with the batch scanner
	InitialScan bool            // if true, emit existing matching files first
	Debounce    time.Duration   // coalesce rapid write/rename bursts
}

// Start watches cfg.Root and returns a channel of matching file paths plus a
// channel of watcher errors. Both close when ctx is cancelled. Word's "~$"
// lock files and hidden files never surface.
func Start(ctx context.Context, cfg Config, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Root == "" {
		return nil, nil, errors.New("no watch root provided")
	}

	evCh := make(chan string, 256)
	errCh := make(chan error, 1)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("watch.create_failed", "error", err)
		return nil, nil, err
	}

	// Register root and subdirectories; optionally emit what's already there.
	err = filepath.WalkDir(cfg.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return w.Add(path)
		}
		if cfg.InitialScan && scanner.Matches(path, cfg.ScanOpts) {
			select {
			case evCh <- path:
			default:
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("watch.add_root_failed", "root", cfg.Root, "error", err)
		_ = w.Close()
		return nil, nil, err
	}

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("watch.close_failed", "error", err)
			}
		}()

		pending := map[string]struct{}{}
		timer := time.NewTimer(time.Hour)
		if !timer.Stop() {
			<-timer.C
		}
		defer timer.Stop()

		sendPending := func() {
			for p := range pending {
				select {
				case evCh <- p:
				default:
				}
				delete(pending, p)
			}
		}

		for {
			select {
			case <-ctx.Done():
				return

			case <-timer.C:
				sendPending()

			case e, ok := <-w.Events:
				if !ok {
					return
				}
				// A created path may be a new subdirectory; watch it too.
				if e.Op&fsnotify.Create != 0 {
					// Add is a no-op error for plain files; ignore it.
					_ = w.Add(e.Name)
				}
				if !scanner.Matches(e.Name, cfg.ScanOpts) {
					continue
				}
				if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				pending[e.Name] = struct{}{}
				if cfg.Debounce > 0 {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					timer.Reset(cfg.Debounce)
				} else {
					sendPending()
				}

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watch.error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}
