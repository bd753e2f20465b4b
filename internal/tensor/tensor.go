// Package tensor provides the float32 buffer type passed between the
// segmentation pipeline stages.
package tensor

import "fmt"

// Tensor is an owned, contiguous float32 buffer with channel-first shape
// metadata. Ownership moves forward through the pipeline: once a stage hands
// a tensor on, it keeps no reference to it.
type Tensor struct {
	shape []int64
	data  []float32
}

// New allocates a zero-filled tensor with the given shape.
func New(shape ...int64) (*Tensor, error) {
	n, err := elems(shape)
	if err != nil {
		return nil, err
	}
	return &Tensor{
		shape: append([]int64(nil), shape...),
		data:  make([]float32, n),
	}, nil
}

// FromData adopts an existing buffer. The buffer length must equal the
// product of the shape dimensions.
func FromData(data []float32, shape ...int64) (*Tensor, error) {
	n, err := elems(shape)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) != n {
		return nil, fmt.Errorf("buffer has %d values, shape %v needs %d", len(data), shape, n)
	}
	return &Tensor{
		shape: append([]int64(nil), shape...),
		data:  data,
	}, nil
}

// Shape returns the tensor's dimensions.
func (t *Tensor) Shape() []int64 {
	return t.shape
}

// Dims returns the number of dimensions.
func (t *Tensor) Dims() int {
	return len(t.shape)
}

// Dim returns the size of dimension i.
func (t *Tensor) Dim(i int) int64 {
	return t.shape[i]
}

// Data returns the underlying buffer.
func (t *Tensor) Data() []float32 {
	return t.data
}

// Elems returns the total number of values.
func (t *Tensor) Elems() int64 {
	return int64(len(t.data))
}

func elems(shape []int64) (int64, error) {
	if len(shape) == 0 {
		return 0, fmt.Errorf("tensor shape must have at least one dimension")
	}
	n := int64(1)
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("tensor shape %v has a negative dimension", shape)
		}
		n *= d
	}
	return n, nil
}
