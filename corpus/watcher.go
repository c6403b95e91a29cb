package corpus

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchFile watches the corpus file for on-disk changes and invokes onChange
// for every write, create, remove or rename touching it. This is detection
// only: a changed file never triggers a reload of the in-memory corpus or a
// rebuild of the index, it is up to the caller to warn or to rerun the build
// with the rebuild flag. Blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file itself because many
// editors replace files by rename, which drops a direct file watch.
func WatchFile(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating corpus watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving corpus path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching corpus directory: %w", err)
	}
	log.Printf("WATCHER: Watching corpus file: %s", abs)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				log.Printf("WATCHER: Corpus file changed on disk (%s)", event.Op)
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("WATCHER ERROR: %v", err)
		case <-ctx.Done():
			log.Println("WATCHER: Shutting down corpus watcher.")
			return nil
		}
	}
}
