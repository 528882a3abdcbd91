// Package mediatypes provides shared type definitions and utilities for
// recognising source images across thumbgen.
//
// This package exists as a dependency-free foundation that can be imported by other
// packages without creating import cycles. It contains primitive types, constants,
// and pure utility functions with no external dependencies beyond the standard library.
//
// # Extension Detection
//
// Use IsImageFile to filter directory listings and multipart uploads:
//
//	if mediatypes.IsImageFile(entry.Name()) {
//	    // queue it
//	}
//
// # Content Detection
//
// DetectFormat inspects magic bytes and is used to label decode metrics:
//
//	format := mediatypes.DetectFormat(data) // e.g., "jpeg"
//
// # MIME Types
//
// Use GetMimeType to get the appropriate MIME type for HTTP responses:
//
//	ext := strings.ToLower(filepath.Ext(filename))
//	mimeType := mediatypes.GetMimeType(ext) // e.g., "image/jpeg"
package mediatypes
