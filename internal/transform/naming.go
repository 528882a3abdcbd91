package transform

import (
	"fmt"
	"strings"
)

// BaseName strips the final extension from name. A trailing dot with nothing
// after it is kept, as is a name with no dot at all.
func BaseName(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return name
	}
	return name[:i]
}

// Extension returns the file extension used for an output MIME type.
func Extension(mime string) string {
	if mime == MIMEPNG {
		return "png"
	}
	return "jpg"
}

// ThumbName builds "<base>__w<W>_h<H>__<mode>.<ext>" for a thumbnail of the
// source called name.
func ThumbName(name string, width, height int, shape Shape, mime string) string {
	return fmt.Sprintf("%s__w%d_h%d__%s.%s", BaseName(name), width, height, shape.Mode(), Extension(mime))
}

// ModeFromThumbName recovers the shape label from a generated thumbnail name.
func ModeFromThumbName(thumb string) string {
	switch {
	case strings.Contains(thumb, "__crop."):
		return "crop"
	case strings.Contains(thumb, "__pad."):
		return "pad"
	default:
		return "fit"
	}
}
