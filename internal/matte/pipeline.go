package matte

import (
	"fmt"
	"image"

	"github.com/segmatte/segmatte/internal/model"
	"github.com/segmatte/segmatte/internal/tensor"
)

// Backend runs a loaded model's forward pass. Implementations are not
// required to be safe for concurrent Run calls; callers needing concurrent
// segmentation use one backend per goroutine or serialize access.
type Backend interface {
	Run(input *tensor.Tensor) (*tensor.Tensor, error)
}

// Pipeline orchestrates preprocess, inference, and postprocess for one model
// variant. It performs no I/O itself; decoding, encoding, and session loading
// belong to the caller.
type Pipeline struct {
	spec    model.Spec
	backend Backend
}

// NewPipeline binds a model spec to its inference backend.
func NewPipeline(spec model.Spec, backend Backend) *Pipeline {
	return &Pipeline{spec: spec, backend: backend}
}

// Segment produces a foreground matte for img at its original resolution.
// The stages run strictly in order and the first failure ends the run; there
// is no retrying or substitution of partial results.
func (p *Pipeline) Segment(img image.Image) (*Matte, error) {
	input, err := Prepare(img, p.spec)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}

	output, err := p.backend.Run(input)
	if err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}

	bounds := img.Bounds()
	result, err := Finalize(output, p.spec, bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, fmt.Errorf("postprocess: %w", err)
	}
	return result, nil
}
