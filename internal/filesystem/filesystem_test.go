package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"syscall"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxRetries: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

func TestIsStaleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bare errno", syscall.ESTALE, true},
		{"path error", &os.PathError{Op: "open", Path: "/x", Err: syscall.ESTALE}, true},
		{"wrapped", fmt.Errorf("read: %w", syscall.ESTALE), true},
		{"other errno", syscall.ENOENT, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isStaleError(tt.err); got != tt.want {
				t.Errorf("isStaleError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithRetry(t *testing.T) {
	stale := &os.PathError{Op: "open", Path: "/nfs/a.jpg", Err: syscall.ESTALE}

	t.Run("recovers after stale errors", func(t *testing.T) {
		calls := 0
		got, err := withRetry("read", "/nfs/a.jpg", fastRetry(), func() (string, error) {
			calls++
			if calls < 3 {
				return "", stale
			}
			return "ok", nil
		})
		if err != nil || got != "ok" {
			t.Fatalf("withRetry() = %q, %v", got, err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		_, err := withRetry("read", "/nfs/a.jpg", fastRetry(), func() (int, error) {
			calls++
			return 0, stale
		})
		if !errors.Is(err, syscall.ESTALE) {
			t.Errorf("error = %v, want ESTALE", err)
		}
		if calls != 4 {
			t.Errorf("calls = %d, want 4", calls)
		}
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		calls := 0
		_, err := withRetry("read", "/a.jpg", fastRetry(), func() (int, error) {
			calls++
			return 0, os.ErrNotExist
		})
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v", err)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("data:"+n), 0o644); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", n, err)
		}
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.png", "a.JPG", "notes.txt", ".hidden.jpg")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFiles(t, filepath.Join(dir, "sub"), "deep.jpg")

	single := filepath.Join(t.TempDir(), "scan.dat")
	if err := os.WriteFile(single, []byte("explicit"), 0o644); err != nil {
		t.Fatal(err)
	}

	items, skipped, err := Collect([]string{dir, single}, fastRetry())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	var names []string
	for _, it := range items {
		names = append(names, it.Name)
	}
	if want := []string{"a.JPG", "b.png", "scan.dat"}; !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
	if items[0].Size != int64(len("data:a.JPG")) || string(items[0].Data) != "data:a.JPG" {
		t.Errorf("item = %+v", items[0])
	}

	wantSkipped := []string{filepath.Join(dir, "notes.txt"), filepath.Join(dir, "sub")}
	if !reflect.DeepEqual(skipped, wantSkipped) {
		t.Errorf("skipped = %v, want %v", skipped, wantSkipped)
	}
}

func TestCollectMissingPath(t *testing.T) {
	_, _, err := Collect([]string{filepath.Join(t.TempDir(), "missing.jpg")}, fastRetry())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Collect() error = %v, want ErrNotExist", err)
	}
}

func TestWatcherDebouncesImageFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, 300*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	batches := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(paths []string) { batches <- paths })
	}()

	writeFiles(t, dir, "one.jpg", "two.png", "skip.txt", ".tmp.jpg")

	select {
	case got := <-batches:
		want := []string{filepath.Join(dir, "one.jpg"), filepath.Join(dir, "two.png")}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("batch = %v, want %v", got, want)
		}
	case <-ctx.Done():
		t.Fatal("no batch delivered")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "nope"), 0); err == nil {
		t.Error("NewWatcher() expected error for a missing directory")
	}
}
