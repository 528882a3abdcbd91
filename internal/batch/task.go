package batch

import (
	"context"

	"thumbgen/internal/exif"
	"thumbgen/internal/model"
	"thumbgen/internal/transform"
)

// ThumbnailTask returns the standard per-item pipeline: read EXIF metadata,
// render the thumbnail upright, and name it.
func ThumbnailTask(engine *transform.Engine) Task {
	return func(_ context.Context, item model.SourceItem, opts transform.Options) model.ItemResult {
		meta := exif.Extract(item.Data)

		out, err := engine.Transform(item.Data, meta.Orientation, opts)
		if err != nil {
			return model.Failure(item.Name, err)
		}

		return model.ItemResult{
			Name:         item.Name,
			ThumbName:    transform.ThumbName(item.Name, out.Width, out.Height, opts.Shape, out.MIME),
			Width:        out.Width,
			Height:       out.Height,
			SizeBytes:    item.Size,
			ExifCamera:   meta.Camera(),
			ExifDateTime: meta.DateTimeOriginal,
			Data:         out.Data,
		}
	}
}
