package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"

	"thumbgen/internal/batch"
	"thumbgen/internal/model"
	"thumbgen/internal/ziparchive"
)

func testOutcome(t *testing.T) *batch.Outcome {
	t.Helper()

	files := []model.FileEntry{
		{Path: "manifest.csv", Data: []byte("name,status")},
		{Path: "thumbs/a__w64_h48__fit.jpg", Data: []byte{0xFF, 0xD8, 0xFF, 0xD9}},
	}
	entries := make([]ziparchive.Entry, len(files))
	for i, f := range files {
		entries[i] = ziparchive.Entry{Path: f.Path, Data: f.Data}
	}
	archive, err := ziparchive.Build(entries)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	return &batch.Outcome{
		BatchID:  "batch-1",
		Status:   batch.StatusCompleted,
		Archive:  archive,
		Manifest: "name,status",
		Files:    files,
	}
}

func TestDirSinkWritesArchive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	outcome := testOutcome(t)

	loc, err := NewDirSink(dir, "thumbs.zip", false).Save(context.Background(), outcome)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if want := filepath.Join(dir, "thumbs.zip"); loc != want {
		t.Errorf("Save() location = %q, want %q", loc, want)
	}

	got, err := os.ReadFile(loc)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(got, outcome.Archive) {
		t.Error("written archive differs from the in-memory archive")
	}

	if _, err := os.Stat(filepath.Join(dir, "manifest.csv")); !os.IsNotExist(err) {
		t.Error("loose files written without writeFiles")
	}

	leftovers, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if len(leftovers) != 0 {
		t.Errorf("temporary files left behind: %v", leftovers)
	}
}

func TestDirSinkWritesLooseFiles(t *testing.T) {
	dir := t.TempDir()
	outcome := testOutcome(t)

	if _, err := NewDirSink(dir, "thumbs.zip", true).Save(context.Background(), outcome); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	for _, f := range outcome.Files {
		got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(f.Path)))
		if err != nil {
			t.Errorf("ReadFile(%s) error = %v", f.Path, err)
			continue
		}
		if !bytes.Equal(got, f.Data) {
			t.Errorf("%s content mismatch", f.Path)
		}
	}
}

func TestDirSinkRejectsEscapingPaths(t *testing.T) {
	dir := t.TempDir()
	outcome := testOutcome(t)
	outcome.Files = append(outcome.Files, model.FileEntry{Path: "../escape.jpg", Data: []byte{1}})

	_, err := NewDirSink(dir, "thumbs.zip", true).Save(context.Background(), outcome)
	if !errors.Is(err, ErrUnsafePath) {
		t.Fatalf("Save() error = %v, want ErrUnsafePath", err)
	}
	if _, statErr := os.Stat(filepath.Join(filepath.Dir(dir), "escape.jpg")); !os.IsNotExist(statErr) {
		t.Error("file written outside the output directory")
	}
}

type putCall struct {
	bucket      string
	key         string
	data        []byte
	contentType string
}

type fakePutter struct {
	calls []putCall
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.err != nil {
		return minio.UploadInfo{}, f.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	if int64(len(data)) != size {
		return minio.UploadInfo{}, errors.New("size mismatch")
	}
	f.calls = append(f.calls, putCall{bucket: bucket, key: key, data: data, contentType: opts.ContentType})
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: size}, nil
}

func TestBucketSinkUploads(t *testing.T) {
	putter := &fakePutter{}
	sink := newBucketSink(putter, "media", "batches", "thumbs.zip")
	outcome := testOutcome(t)

	loc, err := sink.Save(context.Background(), outcome)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if want := "s3://media/batches/batch-1/thumbs.zip"; loc != want {
		t.Errorf("Save() location = %q, want %q", loc, want)
	}

	if len(putter.calls) != 2 {
		t.Fatalf("PutObject called %d times, want 2", len(putter.calls))
	}

	tests := []struct {
		key         string
		contentType string
		data        []byte
	}{
		{"batches/batch-1/thumbs.zip", "application/zip", outcome.Archive},
		{"batches/batch-1/manifest.csv", "text/csv", []byte(outcome.Manifest)},
	}
	for i, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			c := putter.calls[i]
			if c.bucket != "media" || c.key != tt.key {
				t.Errorf("put %s/%s, want media/%s", c.bucket, c.key, tt.key)
			}
			if c.contentType != tt.contentType {
				t.Errorf("content type = %q, want %q", c.contentType, tt.contentType)
			}
			if !bytes.Equal(c.data, tt.data) {
				t.Error("uploaded data mismatch")
			}
		})
	}
}

func TestBucketSinkObjectKey(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"batches", "batches/id/a.zip"},
		{"", "id/a.zip"},
		{"a/b/", "a/b/id/a.zip"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			sink := newBucketSink(&fakePutter{}, "b", tt.prefix, "a.zip")
			if got := sink.ObjectKey("id", "a.zip"); got != tt.want {
				t.Errorf("ObjectKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSaveWrapsErrors(t *testing.T) {
	sink := newBucketSink(&fakePutter{err: errors.New("denied")}, "b", "p", "a.zip")

	_, err := Save(context.Background(), sink, testOutcome(t))
	if err == nil {
		t.Fatal("Save() expected error")
	}
	if !strings.HasPrefix(err.Error(), "bucket sink:") {
		t.Errorf("error = %q, want bucket sink prefix", err)
	}
}

func TestMultiSink(t *testing.T) {
	dir := t.TempDir()
	putter := &fakePutter{}
	sinks := Multi{
		NewDirSink(dir, "thumbs.zip", false),
		newBucketSink(putter, "media", "batches", "thumbs.zip"),
	}

	if got := sinks.Name(); got != "dir+bucket" {
		t.Errorf("Name() = %q", got)
	}

	loc, err := Save(context.Background(), sinks, testOutcome(t))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	want := filepath.Join(dir, "thumbs.zip") + ", s3://media/batches/batch-1/thumbs.zip"
	if loc != want {
		t.Errorf("Save() location = %q, want %q", loc, want)
	}
	if len(putter.calls) != 2 {
		t.Errorf("bucket uploads = %d, want 2", len(putter.calls))
	}
}
