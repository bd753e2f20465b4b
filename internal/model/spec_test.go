package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    Kind
		wantErr bool
	}{
		{name: "modnet", want: MODNet},
		{name: "u2net", want: U2Net},
		{name: "birefnet", wantErr: true},
		{name: "", wantErr: true},
		{name: "MODNET", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseKind(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpecFor(t *testing.T) {
	t.Parallel()

	modnet := SpecFor(MODNet)
	assert.Equal(t, 512, modnet.InputSize)
	assert.Equal(t, MatteDirect, modnet.OutputKind)
	assert.Equal(t, "modnet.onnx", modnet.WeightsFile)
	assert.Equal(t, [3]float32{0.5, 0.5, 0.5}, modnet.Mean)
	assert.Equal(t, [3]float32{0.5, 0.5, 0.5}, modnet.Std)

	u2net := SpecFor(U2Net)
	assert.Equal(t, 320, u2net.InputSize)
	assert.Equal(t, SalientFirstChannel, u2net.OutputKind)
	assert.Equal(t, "u2net.onnx", u2net.WeightsFile)
	assert.InDelta(t, 0.485, u2net.Mean[0], 1e-6)
	assert.InDelta(t, 0.229, u2net.Std[0], 1e-6)
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "modnet", MODNet.String())
	assert.Equal(t, "u2net", U2Net.String())
}
