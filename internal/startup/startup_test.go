package startup

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"thumbgen/internal/transform"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion == "" {
		t.Error("Expected GoVersion to be set")
	}
	if info.OS == "" {
		t.Error("Expected OS to be set")
	}
	if info.Arch == "" {
		t.Error("Expected Arch to be set")
	}
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

// chdirTemp moves into an empty directory so no stray thumbgen.yaml is found.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig(NewViper(), "")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	opts, err := cfg.Thumbnail.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if opts != transform.DefaultOptions() {
		t.Errorf("options = %+v, want defaults", opts)
	}
	if cfg.Output.ArchiveName != "thumbnails.zip" || cfg.Output.Dir != "." {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Server.Port != "8080" || cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Storage.BucketEnabled() {
		t.Error("bucket enabled without configuration")
	}
	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile = %q, want none", cfg.ConfigFile)
	}
}

func TestLoadConfigEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("THUMBGEN_THUMBNAIL_SIZE", "256")
	t.Setenv("THUMBGEN_THUMBNAIL_SHAPE", "crop")
	t.Setenv("THUMBGEN_THUMBNAIL_SHARPEN", "false")
	t.Setenv("THUMBGEN_WORKERS", "3")
	t.Setenv("THUMBGEN_STORAGE_ENDPOINT", "localhost:9000")
	t.Setenv("THUMBGEN_STORAGE_BUCKET_NAME", "thumbs")

	cfg, err := LoadConfig(NewViper(), "")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	opts, err := cfg.Thumbnail.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if opts.Size != 256 || opts.Shape != transform.ShapeSquareCrop || opts.Sharpen {
		t.Errorf("options = %+v", opts)
	}
	if cfg.Workers != 3 {
		t.Errorf("workers = %d, want 3", cfg.Workers)
	}
	if !cfg.Storage.BucketEnabled() {
		t.Error("bucket not enabled from environment")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	content := `
thumbnail:
  size: 1024
  shape: square-pad
  pad_color: "#000000"
  format: png
  watermark: "(c) studio"
output:
  dir: /tmp/out
  write_files: true
server:
  shutdown_timeout: 5s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(NewViper(), path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	opts, err := cfg.Thumbnail.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	want := transform.Options{
		Size:      1024,
		Shape:     transform.ShapeSquarePad,
		PadColor:  "#000000",
		Format:    transform.FormatPNG,
		Quality:   85,
		Watermark: "(c) studio",
		Sharpen:   true,
	}
	if opts != want {
		t.Errorf("options = %+v, want %+v", opts, want)
	}
	if !cfg.Output.WriteFiles || cfg.Output.Dir != "/tmp/out" {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("shutdown timeout = %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}
}

func TestLoadConfigDiscoversWorkingDirFile(t *testing.T) {
	dir := chdirTemp(t)
	if err := os.WriteFile(filepath.Join(dir, "thumbgen.yaml"), []byte("thumbnail:\n  size: 128\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := LoadConfig(NewViper(), "")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Thumbnail.Size != 128 {
		t.Errorf("size = %d, want 128", cfg.Thumbnail.Size)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := chdirTemp(t)

	if _, err := LoadConfig(NewViper(), filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing explicit config file accepted")
	}

	t.Run("invalid shape", func(t *testing.T) {
		t.Setenv("THUMBGEN_THUMBNAIL_SHAPE", "circle")
		_, err := LoadConfig(NewViper(), "")
		if !errors.Is(err, transform.ErrInvalidOptions) {
			t.Errorf("err = %v, want ErrInvalidOptions", err)
		}
	})

	t.Run("size out of range", func(t *testing.T) {
		t.Setenv("THUMBGEN_THUMBNAIL_SIZE", "10")
		_, err := LoadConfig(NewViper(), "")
		if !errors.Is(err, transform.ErrInvalidOptions) {
			t.Errorf("err = %v, want ErrInvalidOptions", err)
		}
	})

	t.Run("inverted memory water marks", func(t *testing.T) {
		t.Setenv("THUMBGEN_MEMORY_HIGH_WATER", "0.9")
		t.Setenv("THUMBGEN_MEMORY_CRITICAL_WATER", "0.8")
		if _, err := LoadConfig(NewViper(), ""); err == nil {
			t.Error("inverted water marks accepted")
		}
	})

	t.Run("negative workers", func(t *testing.T) {
		t.Setenv("THUMBGEN_WORKERS", "-1")
		if _, err := LoadConfig(NewViper(), ""); err == nil {
			t.Error("negative workers accepted")
		}
	})
}

func TestRouteInfo(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/batch", func(http.ResponseWriter, *http.Request) {}).Methods(http.MethodPost).Name("batch")
	router.HandleFunc("/healthz", func(http.ResponseWriter, *http.Request) {})

	routes, err := Routes(router)
	if err != nil {
		t.Fatalf("Routes: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("routes = %+v", routes)
	}
	if routes[0] != (RouteInfo{Method: "POST", Path: "/api/batch", Name: "batch"}) {
		t.Errorf("routes[0] = %+v", routes[0])
	}
	if routes[1].Method != "*" || routes[1].Path != "/healthz" {
		t.Errorf("routes[1] = %+v", routes[1])
	}
}

func TestRouteGroup(t *testing.T) {
	tests := map[string]string{
		"/api/batch":            "api/batch",
		"/api/options/defaults": "api/options",
		"/healthz":              "healthz",
		"/":                     "",
		"/api":                  "api",
	}
	for in, want := range tests {
		if got := routeGroup(in); got != want {
			t.Errorf("routeGroup(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"abc":        "***",
		"minioadmin": "mini******",
	}
	for in, want := range tests {
		if got := maskSecret(in); got != want {
			t.Errorf("maskSecret(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLogFunctionsDoNotPanic(_ *testing.T) {
	cfg := &Config{
		Thumbnail: Thumbnail{Size: 512, Watermark: "x"},
		Storage:   Storage{Endpoint: "s3", BucketName: "b", AccessKey: "key12345"},
	}
	LogBanner()
	LogConfig(cfg, 4)
	LogHTTPRoutes(mux.NewRouter(), true)
	LogServerStarted(ServerConfig{Port: "8080", StartupDuration: time.Millisecond})
	LogShutdownInitiated("SIGTERM")
	LogShutdownStep("step")
	LogShutdownStepComplete("step")
	LogShutdownComplete()
}
