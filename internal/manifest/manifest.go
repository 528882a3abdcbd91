// Package manifest turns per-item results into the batch manifest, the
// failure list, and the ordered file list that goes into the archive.
package manifest

import (
	"strconv"
	"strings"

	"thumbgen/internal/model"
	"thumbgen/internal/transform"
)

// Header is the first line of every manifest.
const Header = "original_name,thumb_name,width,height,mode,filesize_bytes,exif_camera,exif_datetime"

// Archive paths.
const (
	FileName    = "manifest.csv"
	ThumbPrefix = "thumbs/"
)

// Row is one manifest line, derived from a successful result.
type Row struct {
	OriginalName  string
	ThumbName     string
	Width         int
	Height        int
	Mode          string
	FileSizeBytes int64
	ExifCamera    string
	ExifDateTime  string
}

// Report is the aggregated view of a batch.
type Report struct {
	Rows     []Row
	Manifest string
	Failures []model.FailureEntry
	Files    []model.FileEntry
}

// Aggregate partitions results in publication order. Every success yields
// one manifest row and one thumbs/ file; every failure one FailureEntry.
func Aggregate(results []model.ItemResult) Report {
	var r Report
	var thumbs []model.FileEntry

	for _, res := range results {
		if !res.OK() {
			r.Failures = append(r.Failures, model.FailureEntry{Name: res.Name, Error: res.Err.Error()})
			continue
		}
		r.Rows = append(r.Rows, Row{
			OriginalName:  res.Name,
			ThumbName:     res.ThumbName,
			Width:         res.Width,
			Height:        res.Height,
			Mode:          transform.ModeFromThumbName(res.ThumbName),
			FileSizeBytes: res.SizeBytes,
			ExifCamera:    res.ExifCamera,
			ExifDateTime:  res.ExifDateTime,
		})
		thumbs = append(thumbs, model.FileEntry{Path: ThumbPrefix + res.ThumbName, Data: res.Data})
	}

	r.Manifest = Render(r.Rows)
	r.Files = make([]model.FileEntry, 0, len(thumbs)+1)
	r.Files = append(r.Files, model.FileEntry{Path: FileName, Data: []byte(r.Manifest)})
	r.Files = append(r.Files, thumbs...)
	return r
}

// Render joins the header and rows with "\n". There is no trailing newline.
func Render(rows []Row) string {
	var b strings.Builder
	b.WriteString(Header)
	for _, row := range rows {
		b.WriteByte('\n')
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, row Row) {
	b.WriteString(Quote(row.OriginalName))
	b.WriteByte(',')
	b.WriteString(Quote(row.ThumbName))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(row.Width))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(row.Height))
	b.WriteByte(',')
	b.WriteString(Quote(row.Mode))
	b.WriteByte(',')
	b.WriteString(strconv.FormatInt(row.FileSizeBytes, 10))
	b.WriteByte(',')
	b.WriteString(optional(row.ExifCamera))
	b.WriteByte(',')
	b.WriteString(optional(row.ExifDateTime))
}

// Quote wraps s in double quotes, doubling any embedded quote.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func optional(s string) string {
	if s == "" {
		return ""
	}
	return Quote(s)
}
