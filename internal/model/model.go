// Package model holds the values that move between pipeline stages: source
// items in, per-item results out, and the flat file list handed to sinks.
package model

// SourceItem is one input image. Data is handed to the processing task as-is;
// no stage copies or mutates it.
type SourceItem struct {
	Name string
	Size int64
	Data []byte
}

// NewSourceItem wraps a named buffer, deriving Size from its length.
func NewSourceItem(name string, data []byte) SourceItem {
	return SourceItem{Name: name, Size: int64(len(data)), Data: data}
}

// ItemResult is the outcome of processing one SourceItem. A nil Err means
// success and the thumbnail fields are populated; otherwise only Name and
// Err are meaningful.
type ItemResult struct {
	Name         string
	ThumbName    string
	Width        int
	Height       int
	SizeBytes    int64
	ExifCamera   string
	ExifDateTime string
	Data         []byte
	Err          error
}

// OK reports whether the item produced a thumbnail.
func (r ItemResult) OK() bool {
	return r.Err == nil
}

// Failure builds a failed result for name.
func Failure(name string, err error) ItemResult {
	return ItemResult{Name: name, Err: err}
}

// FailureEntry is a failed item as reported to callers.
type FailureEntry struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// FileEntry is one file of a batch outcome, addressed by its archive path.
type FileEntry struct {
	Path string
	Data []byte
}
