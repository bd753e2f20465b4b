package matte

import (
	"fmt"
	"image"
	"image/color"

	"github.com/nfnt/resize"

	"github.com/segmatte/segmatte/internal/model"
	"github.com/segmatte/segmatte/internal/tensor"
)

// Prepare converts a decoded image into the NCHW float32 input tensor the
// model expects: bilinear resize to InputSize x InputSize, alpha dropped,
// each channel normalized as (v/255 - mean) / std.
//
// The resize stretches to a fixed square without preserving aspect ratio.
// That matches the regime the reference weights were trained with, so no
// letterboxing is applied.
func Prepare(img image.Image, spec model.Spec) (*tensor.Tensor, error) {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%dx%d source image: %w", bounds.Dx(), bounds.Dy(), ErrInvalidImageDimensions)
	}

	size := spec.InputSize
	resized := resizeSquare(img, size)

	plane := size * size
	data := make([]float32, 3*plane)
	min := resized.Bounds().Min
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			// Straight-alpha samples: the alpha channel is dropped, not
			// premultiplied into the color.
			px := color.NRGBAModel.Convert(resized.At(min.X+x, min.Y+y)).(color.NRGBA)

			idx := y*size + x
			data[idx] = (float32(px.R)/255 - spec.Mean[0]) / spec.Std[0]
			data[plane+idx] = (float32(px.G)/255 - spec.Mean[1]) / spec.Std[1]
			data[2*plane+idx] = (float32(px.B)/255 - spec.Mean[2]) / spec.Std[2]
		}
	}

	return tensor.FromData(data, 1, 3, int64(size), int64(size))
}

// resizeSquare stretches img to size x size with bilinear interpolation. An
// image already at the target size passes through unchanged.
func resizeSquare(img image.Image, size int) image.Image {
	if img.Bounds().Dx() == size && img.Bounds().Dy() == size {
		return img
	}
	return resize.Resize(uint(size), uint(size), img, resize.Bilinear)
}
