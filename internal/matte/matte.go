// Package matte turns decoded images into foreground alpha mattes by
// preprocessing pixels into model-ready tensors, invoking an inference
// backend, and postprocessing the raw output back to the source resolution.
package matte

import (
	"errors"
	"image"
)

var (
	// ErrInvalidImageDimensions reports a source image with zero width or height.
	ErrInvalidImageDimensions = errors.New("invalid image dimensions")
	// ErrTensorShape reports an output tensor incompatible with the model's
	// expected output kind.
	ErrTensorShape = errors.New("tensor shape mismatch")
)

// Matte is a single-channel foreground map at the source image's resolution,
// one intensity byte per pixel.
type Matte struct {
	gray *image.Gray
}

// Image returns the matte as a grayscale image, ready for encoding.
func (m *Matte) Image() *image.Gray {
	return m.gray
}

// Width returns the matte width in pixels.
func (m *Matte) Width() int {
	return m.gray.Rect.Dx()
}

// Height returns the matte height in pixels.
func (m *Matte) Height() int {
	return m.gray.Rect.Dy()
}

// Pix returns the raw intensity bytes in row-major order.
func (m *Matte) Pix() []uint8 {
	return m.gray.Pix
}
