package matte

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/segmatte/segmatte/internal/model"
	"github.com/segmatte/segmatte/internal/tensor"
)

// Finalize converts a raw model output into a matte at the original image
// resolution. Rank-4 (1,C,H,W) and rank-3 (1,H,W) outputs are accepted; some
// U^2-Net exports declare the batch-collapsed form. The matte channel is
// selected per the spec's output kind, values are clamped to [0,1] and
// rounded to bytes, then the map is resized back with the same bilinear
// policy the preprocessor uses.
func Finalize(out *tensor.Tensor, spec model.Spec, origWidth, origHeight int) (*Matte, error) {
	var channels, height, width int64
	switch out.Dims() {
	case 4:
		if out.Dim(0) != 1 {
			return nil, fmt.Errorf("batch size %d, expected 1: %w", out.Dim(0), ErrTensorShape)
		}
		channels, height, width = out.Dim(1), out.Dim(2), out.Dim(3)
	case 3:
		if out.Dim(0) != 1 {
			return nil, fmt.Errorf("batch size %d, expected 1: %w", out.Dim(0), ErrTensorShape)
		}
		channels, height, width = 1, out.Dim(1), out.Dim(2)
	default:
		return nil, fmt.Errorf("output has %d dimensions, expected 3 or 4: %w", out.Dims(), ErrTensorShape)
	}

	if channels < 1 || height < 1 || width < 1 {
		return nil, fmt.Errorf("output shape %v has an empty dimension: %w", out.Shape(), ErrTensorShape)
	}
	if spec.OutputKind == model.MatteDirect && channels != 1 {
		return nil, fmt.Errorf("%d output channels for a single-channel matte: %w", channels, ErrTensorShape)
	}

	// Channel 0 is the matte plane for both output kinds; extra channels of
	// multi-map exports are ignored.
	plane := out.Data()[:height*width]

	gray := image.NewGray(image.Rect(0, 0, int(width), int(height)))
	for i, v := range plane {
		gray.Pix[i] = clampByte(v)
	}

	if int(width) != origWidth || int(height) != origHeight {
		scaled := image.NewGray(image.Rect(0, 0, origWidth, origHeight))
		draw.BiLinear.Scale(scaled, scaled.Bounds(), gray, gray.Bounds(), draw.Src, nil)
		gray = scaled
	}

	return &Matte{gray: gray}, nil
}

// clampByte maps a matte value to [0,255], clamping before scaling so
// out-of-range model outputs saturate instead of wrapping.
func clampByte(v float32) uint8 {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return uint8(math.Round(float64(v) * 255))
}
