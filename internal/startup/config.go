package startup

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"thumbgen/internal/transform"
)

// EnvPrefix is prepended to every configuration key when read from the
// environment, with dots replaced by underscores: thumbnail.size is
// THUMBGEN_THUMBNAIL_SIZE.
const EnvPrefix = "THUMBGEN"

// Config holds all application configuration
type Config struct {
	Thumbnail   Thumbnail `mapstructure:"thumbnail"`
	Workers     int       `mapstructure:"workers"`
	DisablePool bool      `mapstructure:"disable_pool"`
	MaxPixels   int       `mapstructure:"max_pixels"`
	Output      Output    `mapstructure:"output"`
	Storage     Storage   `mapstructure:"storage"`
	Server      Server    `mapstructure:"server"`
	Memory      Memory    `mapstructure:"memory"`

	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `mapstructure:"-"`
}

// Thumbnail holds the processing options in their textual form.
type Thumbnail struct {
	Size      int    `mapstructure:"size"`
	Shape     string `mapstructure:"shape"`
	PadColor  string `mapstructure:"pad_color"`
	Format    string `mapstructure:"format"`
	Quality   int    `mapstructure:"quality"`
	Watermark string `mapstructure:"watermark"`
	Sharpen   bool   `mapstructure:"sharpen"`
}

// Output holds local sink configuration.
type Output struct {
	Dir         string `mapstructure:"dir"`
	ArchiveName string `mapstructure:"archive_name"`
	WriteFiles  bool   `mapstructure:"write_files"`
}

// Storage holds configuration for the S3-compatible bucket sink.
type Storage struct {
	Endpoint   string `mapstructure:"endpoint"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	BucketName string `mapstructure:"bucket_name"`
	Prefix     string `mapstructure:"prefix"`
	Region     string `mapstructure:"region"`
	UseSSL     bool   `mapstructure:"use_ssl"`
}

// BucketEnabled reports whether enough is configured to upload to a bucket.
func (s Storage) BucketEnabled() bool {
	return s.Endpoint != "" && s.BucketName != ""
}

// Memory holds the memory budget. Limit accepts "512MiB", "2GB" or bytes.
type Memory struct {
	Limit         string  `mapstructure:"limit"`
	Ratio         float64 `mapstructure:"ratio"`
	HighWater     float64 `mapstructure:"high_water"`
	CriticalWater float64 `mapstructure:"critical_water"`
}

// Server holds HTTP server-related configuration.
type Server struct {
	Port            string        `mapstructure:"port"`
	MaxUploadMB     int64         `mapstructure:"max_upload_mb"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	LogHealthChecks bool          `mapstructure:"log_health_checks"`
	MetricsInterval time.Duration `mapstructure:"metrics_interval"`
}

// Options converts the textual thumbnail settings into validated
// processing options.
func (t Thumbnail) Options() (transform.Options, error) {
	shape, err := transform.ParseShape(t.Shape)
	if err != nil {
		return transform.Options{}, err
	}
	format, err := transform.ParseFormat(t.Format)
	if err != nil {
		return transform.Options{}, err
	}
	opts := transform.Options{
		Size:      t.Size,
		Shape:     shape,
		PadColor:  t.PadColor,
		Format:    format,
		Quality:   t.Quality,
		Watermark: t.Watermark,
		Sharpen:   t.Sharpen,
	}
	if err := opts.Validate(); err != nil {
		return transform.Options{}, err
	}
	return opts, nil
}

// SetDefaults registers every key with its default so environment
// overrides and Unmarshal see the full key set.
func SetDefaults(v *viper.Viper) {
	d := transform.DefaultOptions()
	v.SetDefault("thumbnail.size", d.Size)
	v.SetDefault("thumbnail.shape", string(d.Shape))
	v.SetDefault("thumbnail.pad_color", d.PadColor)
	v.SetDefault("thumbnail.format", string(d.Format))
	v.SetDefault("thumbnail.quality", d.Quality)
	v.SetDefault("thumbnail.watermark", d.Watermark)
	v.SetDefault("thumbnail.sharpen", d.Sharpen)

	v.SetDefault("workers", 0)
	v.SetDefault("disable_pool", false)
	v.SetDefault("max_pixels", 0)

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.archive_name", "thumbnails.zip")
	v.SetDefault("output.write_files", false)

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.bucket_name", "")
	v.SetDefault("storage.prefix", "batches")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.use_ssl", true)

	v.SetDefault("memory.limit", "")
	v.SetDefault("memory.ratio", 0.85)
	v.SetDefault("memory.high_water", 0.7)
	v.SetDefault("memory.critical_water", 0.85)

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.max_upload_mb", 256)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.log_health_checks", false)
	v.SetDefault("server.metrics_interval", 15*time.Second)
}

// NewViper returns a viper instance with defaults and environment binding
// configured.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads configFile (or thumbgen.yaml from the working directory
// or $HOME/.config/thumbgen when configFile is empty), applies environment
// overrides, and validates the result. A missing default config file is
// not an error.
func LoadConfig(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("thumbgen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/thumbgen")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if _, err := cfg.Thumbnail.Options(); err != nil {
		return nil, err
	}
	if cfg.Output.ArchiveName == "" {
		return nil, fmt.Errorf("output.archive_name must not be empty")
	}
	if m := cfg.Memory; m.HighWater <= 0 || m.HighWater > m.CriticalWater || m.CriticalWater > 1 {
		return nil, fmt.Errorf("memory water marks must satisfy 0 < high_water <= critical_water <= 1, got %v and %v",
			m.HighWater, m.CriticalWater)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}

	return &cfg, nil
}
