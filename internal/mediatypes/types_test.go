package mediatypes

import (
	"testing"
)

func TestGetFileType(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		want FileType
	}{
		{
			name: "JPEG image",
			ext:  ".jpg",
			want: FileTypeImage,
		},
		{
			name: "PNG image",
			ext:  ".png",
			want: FileTypeImage,
		},
		{
			name: "WebP image",
			ext:  ".webp",
			want: FileTypeImage,
		},
		{
			name: "TIFF image",
			ext:  ".tif",
			want: FileTypeImage,
		},
		{
			name: "Video is not a source",
			ext:  ".mp4",
			want: FileTypeOther,
		},
		{
			name: "Unknown extension",
			ext:  ".xyz",
			want: FileTypeOther,
		},
		{
			name: "Empty extension",
			ext:  "",
			want: FileTypeOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetFileType(tt.ext)
			if got != tt.want {
				t.Errorf("GetFileType(%q) = %v, want %v", tt.ext, got, tt.want)
			}
		})
	}
}

func TestGetMimeType(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".jpg", "image/jpeg"},
		{".jpeg", "image/jpeg"},
		{".png", "image/png"},
		{".zip", "application/zip"},
		{".csv", "text/csv"},
		{".xyz", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := GetMimeType(tt.ext); got != tt.want {
				t.Errorf("GetMimeType(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}

func TestIsImageFile(t *testing.T) {
	tests := map[string]bool{
		"photo.JPG":       true,
		"dir/scan.tiff":   true,
		"anim.gif":        true,
		"notes.txt":       false,
		"noext":           false,
		"archive.jpg.zip": false,
		".png":            true,
	}
	for name, want := range tests {
		if got := IsImageFile(name); got != want {
			t.Errorf("IsImageFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10}, FormatJPEG},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0}, FormatPNG},
		{"gif89", []byte("GIF89a....."), FormatGIF},
		{"gif87", []byte("GIF87a"), FormatGIF},
		{"webp", []byte("RIFF\x10\x00\x00\x00WEBPVP8 "), FormatWebP},
		{"riff but not webp", []byte("RIFF\x10\x00\x00\x00AVI LIST"), FormatUnknown},
		{"tiff le", []byte{'I', 'I', 0x2A, 0, 8, 0, 0, 0}, FormatTIFF},
		{"tiff be", []byte{'M', 'M', 0, 0x2A, 0, 0, 0, 8}, FormatTIFF},
		{"bmp", []byte("BM\x00\x00"), FormatBMP},
		{"short jpeg", []byte{0xFF, 0xD8}, FormatUnknown},
		{"empty", nil, FormatUnknown},
		{"text", []byte("hello"), FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.data); got != tt.want {
				t.Errorf("DetectFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}
