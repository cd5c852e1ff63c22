// Package model defines the core domain models used throughout the application.
package model

import "path/filepath"

// ImageRef identifies one input image for a pipeline run.
// Filename is the join key against label and prediction tables.
type ImageRef struct {
	Filename string
	Path     string
}

// NewImageRef builds an ImageRef for a file inside dir.
func NewImageRef(dir, filename string) ImageRef {
	return ImageRef{
		Filename: filename,
		Path:     filepath.Join(dir, filename),
	}
}
