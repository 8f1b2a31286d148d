package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

const (
	testInterval = 10 * time.Millisecond
	testTimeout  = 2 * time.Second
)

func TestIsWAV(t *testing.T) {
	tests := map[string]bool{
		"a.wav":        true,
		"Rec 1.WAV":    true,
		"notes.txt":    false,
		"wav":          false,
		"archive.wav~": false,
	}
	for name, want := range tests {
		if got := IsWAV(name); got != want {
			t.Errorf("IsWAV(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestWaitStable_SettledFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	if err := os.WriteFile(path, make([]byte, 100), 0o644); err != nil {
		t.Fatal(err)
	}

	size, err := WaitStable(context.Background(), path, testInterval, testTimeout)
	if err != nil {
		t.Fatalf("WaitStable: %v", err)
	}
	if size != 100 {
		t.Errorf("size = %d, want 100", size)
	}
}

func TestWaitStable_EmptyFileTimesOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := WaitStable(context.Background(), path, testInterval, 50*time.Millisecond)
	if !errors.Is(err, ErrNotStable) {
		t.Fatalf("err = %v, want ErrNotStable", err)
	}
}

func TestWaitStable_MissingFile(t *testing.T) {
	_, err := WaitStable(context.Background(), filepath.Join(t.TempDir(), "gone.wav"), testInterval, testTimeout)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
}

func TestWaitStable_Cancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := WaitStable(ctx, path, testInterval, testTimeout); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

type recorder struct {
	mu    sync.Mutex
	paths []string
	seen  chan string
	fail  bool
}

func newRecorder() *recorder {
	return &recorder{seen: make(chan string, 16)}
}

func (r *recorder) handle(_ context.Context, path string) error {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	r.seen <- path
	if r.fail {
		return errors.New("boom")
	}
	return nil
}

func (r *recorder) wait(t *testing.T) string {
	t.Helper()
	select {
	case p := <-r.seen:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
		return ""
	}
}

func startWatcher(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run: %v", err)
		}
	})
}

func TestWatcher_ProcessesNewRecording(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()
	startWatcher(t, New(dir, rec.handle, WithSettle(testInterval, testTimeout), WithExisting(true)))

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "Rec 2024-05-17 14h03m22s.wav")
	if err := os.WriteFile(path, make([]byte, 64), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := rec.wait(t); got != path {
		t.Errorf("handled %q, want %q", got, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("recording should be kept: %v", err)
	}
}

func TestWatcher_ExistingAndDelete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old.wav")
	if err := os.WriteFile(path, make([]byte, 64), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := newRecorder()
	startWatcher(t, New(dir, rec.handle,
		WithSettle(testInterval, testTimeout), WithExisting(true), WithDelete(true)))

	if got := rec.wait(t); got != path {
		t.Errorf("handled %q, want %q", got, path)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("processed recording was not deleted")
		}
		time.Sleep(testInterval)
	}
}

func TestWatcher_KeepsFailedRecording(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.wav")
	if err := os.WriteFile(path, make([]byte, 64), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := newRecorder()
	rec.fail = true
	startWatcher(t, New(dir, rec.handle,
		WithSettle(testInterval, testTimeout), WithExisting(true), WithDelete(true)))

	rec.wait(t)
	time.Sleep(50 * time.Millisecond)
	if _, err := os.Stat(path); err != nil {
		t.Errorf("failed recording should be kept: %v", err)
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"), newRecorder().handle)
	if err := w.Run(context.Background()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
