package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// start runs Run in the background and returns a rebuild counter. The
// returned func cancels the watcher and waits for Run to return.
func start(t *testing.T, opts Options, rebuild func(context.Context) error) (*atomic.Int32, func()) {
	t.Helper()
	var count atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, opts, func(ctx context.Context) error {
			count.Add(1)
			if rebuild != nil {
				return rebuild(ctx)
			}
			return nil
		})
	}()
	// Give the watcher time to register its directories.
	time.Sleep(100 * time.Millisecond)

	stop := func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after cancel")
		}
	}
	return &count, stop
}

func TestRun_RebuildsOnChange(t *testing.T) {
	root := t.TempDir()
	count, stop := start(t, Options{Root: root, Debounce: 150 * time.Millisecond, Logger: quietLogger()}, nil)
	defer stop()

	// A burst of writes collapses into one rebuild.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.rs"), []byte{byte('a' + i)}, 0o644))
	}
	assert.Eventually(t, func() bool { return count.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Never(t, func() bool { return count.Load() > 1 }, 200*time.Millisecond, 20*time.Millisecond)
}

func TestRun_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	count, stop := start(t, Options{Root: root, Debounce: 50 * time.Millisecond, Logger: quietLogger()}, nil)
	defer stop()

	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.Eventually(t, func() bool { return count.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "b.py"), []byte("x"), 0o644))
	assert.Eventually(t, func() bool { return count.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestRun_IgnoresOwnOutput(t *testing.T) {
	root := t.TempDir()
	output := filepath.Join(root, "out.docx")
	count, stop := start(t, Options{Root: root, Output: output, Debounce: 50 * time.Millisecond, Logger: quietLogger()}, nil)
	defer stop()

	require.NoError(t, os.WriteFile(output, []byte("doc"), 0o644))
	require.NoError(t, os.WriteFile(output+".lock", nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".codedocx-123.docx"), nil, 0o644))
	assert.Never(t, func() bool { return count.Load() > 0 }, 300*time.Millisecond, 20*time.Millisecond)
}

func TestRun_RebuildErrorKeepsWatching(t *testing.T) {
	root := t.TempDir()
	count, stop := start(t, Options{Root: root, Debounce: 50 * time.Millisecond, Logger: quietLogger()},
		func(context.Context) error { return errors.New("boom") })
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.rs"), []byte("1"), 0o644))
	require.Eventually(t, func() bool { return count.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "b.rs"), []byte("2"), 0o644))
	assert.Eventually(t, func() bool { return count.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestRun_MissingRoot(t *testing.T) {
	err := Run(context.Background(), Options{Root: filepath.Join(t.TempDir(), "nope"), Logger: quietLogger()},
		func(context.Context) error { return nil })
	assert.Error(t, err)
}
