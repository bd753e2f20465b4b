package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tr, err := New(1, 3, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 4, 4}, tr.Shape())
	assert.Equal(t, 4, tr.Dims())
	assert.Equal(t, int64(3), tr.Dim(1))
	assert.Equal(t, int64(48), tr.Elems())
	assert.Len(t, tr.Data(), 48)
}

func TestNewRejectsBadShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		shape []int64
	}{
		{name: "empty shape", shape: nil},
		{name: "negative dimension", shape: []int64{1, -3, 4}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.shape...)
			assert.Error(t, err)
		})
	}
}

func TestFromData(t *testing.T) {
	t.Parallel()

	data := []float32{1, 2, 3, 4, 5, 6}
	tr, err := FromData(data, 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, data, tr.Data())
	assert.Equal(t, int64(6), tr.Elems())
}

func TestFromDataLengthMismatch(t *testing.T) {
	t.Parallel()

	_, err := FromData(make([]float32, 5), 1, 2, 3)
	assert.Error(t, err)
}

func TestFromDataZeroDimension(t *testing.T) {
	t.Parallel()

	// Backends can hand back degenerate shapes; the tensor itself only
	// enforces length == product.
	tr, err := FromData(nil, 1, 0, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(0), tr.Elems())
	assert.Equal(t, int64(0), tr.Dim(1))
}

func TestShapeIsCopied(t *testing.T) {
	t.Parallel()

	shape := []int64{1, 3, 2, 2}
	tr, err := New(shape...)
	require.NoError(t, err)

	shape[0] = 9
	assert.Equal(t, int64(1), tr.Dim(0))
}
