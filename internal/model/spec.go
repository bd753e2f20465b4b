// Package model describes the shipped segmentation model variants.
package model

import "fmt"

// Kind selects one of the supported model variants.
type Kind int

const (
	// MODNet targets human subject matting.
	MODNet Kind = iota
	// U2Net targets general salient object detection.
	U2Net
)

func (k Kind) String() string {
	switch k {
	case MODNet:
		return "modnet"
	case U2Net:
		return "u2net"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a CLI model name to its Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "modnet":
		return MODNet, nil
	case "u2net":
		return U2Net, nil
	default:
		return 0, fmt.Errorf("unknown model %q (expected modnet or u2net)", name)
	}
}

// OutputKind describes how a model's raw output maps to a matte.
type OutputKind int

const (
	// MatteDirect means the output is a single-channel matte already in [0,1].
	MatteDirect OutputKind = iota
	// SalientFirstChannel means channel 0 of a possibly multi-channel map is
	// the salient-object mask.
	SalientFirstChannel
)

// Spec carries the per-variant constants the pipeline dispatches on. The
// input size and normalization constants are fixed by the shipped weight
// files and are not user-configurable.
type Spec struct {
	Kind        Kind
	InputSize   int
	Mean        [3]float32
	Std         [3]float32
	OutputKind  OutputKind
	WeightsFile string
}

// SpecFor returns the constants for a model variant.
func SpecFor(k Kind) Spec {
	switch k {
	case U2Net:
		return Spec{
			Kind:      U2Net,
			InputSize: 320,
			// ImageNet statistics, matching the published U^2-Net exports.
			Mean:        [3]float32{0.485, 0.456, 0.406},
			Std:         [3]float32{0.229, 0.224, 0.225},
			OutputKind:  SalientFirstChannel,
			WeightsFile: "u2net.onnx",
		}
	default:
		return Spec{
			Kind:      MODNet,
			InputSize: 512,
			// MODNet normalizes to [-1,1]: (v/255 - 0.5) / 0.5.
			Mean:        [3]float32{0.5, 0.5, 0.5},
			Std:         [3]float32{0.5, 0.5, 0.5},
			OutputKind:  MatteDirect,
			WeightsFile: "modnet.onnx",
		}
	}
}
