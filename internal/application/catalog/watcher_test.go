package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/potvault/internal/application/catalog"
)

func TestWatcher_IngestsNewPotcarFiles(t *testing.T) {
	f := newFixture(t)
	w := catalog.NewWatcher(f.svc, 20*time.Millisecond, f.log)

	root := t.TempDir()
	potDir := filepath.Join(root, "potpaw_pbe", "Si")
	require.NoError(t, os.MkdirAll(potDir, 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, root) }()

	// Give the watcher a moment to establish its watches.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(potDir, "POTCAR")
	require.NoError(t, os.WriteFile(path,
		potcarContents("PAW_PBE Si 05Jan2001", "Si", ""), 0o644))

	assert.Eventually(t, func() bool {
		count, err := f.repo.Count(context.Background())
		return err == nil && count == 1
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not shut down")
	}
}

func TestWatcher_IgnoresNonPotcarFiles(t *testing.T) {
	f := newFixture(t)
	w := catalog.NewWatcher(f.svc, 20*time.Millisecond, f.log)

	root := t.TempDir()
	potDir := filepath.Join(root, "potpaw_pbe", "Si")
	require.NoError(t, os.MkdirAll(potDir, 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, root) }()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(potDir, "README"),
		[]byte("not a potential\n"), 0o644))

	// The file must never appear in the catalog.
	time.Sleep(200 * time.Millisecond)
	count, err := f.repo.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	cancel()
	<-done
}

func TestWatcher_PicksUpNewDirectories(t *testing.T) {
	f := newFixture(t)
	w := catalog.NewWatcher(f.svc, 20*time.Millisecond, f.log)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "potpaw_pbe"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, root) }()

	time.Sleep(100 * time.Millisecond)

	// Create the species directory after the watch started, then the file.
	potDir := filepath.Join(root, "potpaw_pbe", "Ge")
	require.NoError(t, os.MkdirAll(potDir, 0o755))
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(potDir, "POTCAR"),
		potcarContents("PAW_PBE Ge 05Jan2001", "Ge", ""), 0o644))

	assert.Eventually(t, func() bool {
		count, err := f.repo.Count(context.Background())
		return err == nil && count == 1
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	<-done
}
