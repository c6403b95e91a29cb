package corpus_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"regrag/corpus"
)

// startWatcher runs WatchFile in the background and returns a channel that
// receives one value per change notification. The callback never blocks the
// watcher loop.
func startWatcher(ctx context.Context, path string) (<-chan struct{}, <-chan error) {
	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- corpus.WatchFile(ctx, path, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()
	return changed, done
}

func TestWatchFileSignalsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed, done := startWatcher(ctx, path)

	// Keep rewriting until the watcher reports the change; the first write
	// can race watcher registration.
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	timeout := time.After(5 * time.Second)
wait:
	for {
		select {
		case <-changed:
			break wait
		case <-ticker.C:
			require.NoError(t, os.WriteFile(path, []byte("{}\n{}\n"), 0o644))
		case <-timeout:
			t.Fatal("no change notification after writing the corpus file")
		}
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not shut down on context cancel")
	}
}

func TestWatchFileIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed, _ := startWatcher(ctx, path)

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	select {
	case <-changed:
		t.Fatal("notified for an unrelated file in the watched directory")
	case <-time.After(400 * time.Millisecond):
	}

	// The watched file itself still notifies, proving the watcher was live.
	require.NoError(t, os.WriteFile(path, []byte("{}\n{}\n"), 0o644))
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no notification for the corpus file")
	}
}
