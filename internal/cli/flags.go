package cli

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"thumbgen/internal/transform"
)

// flagKeys maps flag names onto configuration keys.
var flagKeys = map[string]string{
	"size":         "thumbnail.size",
	"shape":        "thumbnail.shape",
	"pad-color":    "thumbnail.pad_color",
	"format":       "thumbnail.format",
	"quality":      "thumbnail.quality",
	"watermark":    "thumbnail.watermark",
	"workers":      "workers",
	"out":          "output.dir",
	"archive-name": "output.archive_name",
	"files":        "output.write_files",
	"bucket":       "storage.bucket_name",
	"port":         "server.port",
}

// addThumbnailFlags registers the processing option flags.
func addThumbnailFlags(fs *pflag.FlagSet) {
	d := transform.DefaultOptions()
	fs.Int("size", d.Size, fmt.Sprintf("longest thumbnail edge in pixels (%d-%d)", transform.MinSize, transform.MaxSize))
	fs.String("shape", string(d.Shape), "fit, square-crop (crop) or square-pad (pad)")
	fs.String("pad-color", d.PadColor, "canvas color for square-pad, #RRGGBB or #RGB")
	fs.String("format", string(d.Format), "output format: auto, jpg or png")
	fs.Int("quality", d.Quality, "JPEG quality (1-100)")
	fs.String("watermark", d.Watermark, "text drawn in the bottom-right corner")
	fs.Bool("no-sharpen", false, "skip the post-resize sharpen pass")
	fs.Int("workers", 0, "worker pool size (0 = automatic)")
}

// addOutputFlags registers the sink flags.
func addOutputFlags(fs *pflag.FlagSet) {
	fs.StringP("out", "o", ".", "output directory")
	fs.String("archive-name", "thumbnails.zip", "archive file name")
	fs.Bool("files", false, "also write the manifest and thumbnails as loose files")
	fs.String("bucket", "", "also upload to this bucket (needs storage.endpoint)")
}

// bindFlags binds every known flag present in fs. Only changed flags
// override lower-precedence sources.
func bindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}

	if fs.Changed("no-sharpen") {
		noSharpen, err := fs.GetBool("no-sharpen")
		if err != nil {
			return err
		}
		v.Set("thumbnail.sharpen", !noSharpen)
	}
	return nil
}
