// Package onnx runs segmentation model graphs through ONNX Runtime.
package onnx

import (
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/segmatte/segmatte/internal/model"
	"github.com/segmatte/segmatte/internal/tensor"
)

var (
	// ErrModelLoad reports weights that are missing, unreadable, or
	// shape-incompatible with the selected model variant.
	ErrModelLoad = errors.New("model load failed")
	// ErrInference reports a runtime failure during the forward pass.
	ErrInference = errors.New("inference failed")
)

// sharedLibEnv optionally points ONNX Runtime at its shared library when it
// is not on the default search path.
const sharedLibEnv = "ONNXRUNTIME_SHARED_LIB"

// The runtime environment is process-wide and onnxruntime_go rejects a
// second InitializeEnvironment call, so sessions share it through a
// refcount: the first Open initializes, the last Close destroys.
var (
	envMu   sync.Mutex
	envRefs int

	initEnvironment    = ort.InitializeEnvironment
	destroyEnvironment = func() { ort.DestroyEnvironment() }
	envInitialized     = ort.IsInitialized
)

func acquireEnvironment() error {
	envMu.Lock()
	defer envMu.Unlock()
	if envRefs == 0 && !envInitialized() {
		if lib := os.Getenv(sharedLibEnv); lib != "" {
			ort.SetSharedLibraryPath(lib)
		}
		if err := initEnvironment(); err != nil {
			return err
		}
	}
	envRefs++
	return nil
}

func releaseEnvironment() {
	envMu.Lock()
	defer envMu.Unlock()
	if envRefs == 0 {
		return
	}
	envRefs--
	if envRefs == 0 {
		destroyEnvironment()
	}
}

// Option adjusts session creation.
type Option func(*config)

type config struct {
	threads int
}

// WithThreads sets the number of intra-op threads the runtime may use for
// one forward pass.
func WithThreads(n int) Option {
	return func(c *config) {
		c.threads = n
	}
}

// Session wraps a loaded model graph bound to one model variant. A Session
// is not safe for concurrent Run calls; create one per concurrent caller.
type Session struct {
	spec    model.Spec
	session *ort.DynamicAdvancedSession
}

// Open loads the weights at weightsPath and validates the graph's declared
// input shape against the variant's input size.
func Open(spec model.Spec, weightsPath string, opts ...Option) (*Session, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	info, err := os.Stat(weightsPath)
	if err != nil {
		return nil, fmt.Errorf("weights %s: %v: %w", weightsPath, err, ErrModelLoad)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("weights %s is a directory: %w", weightsPath, ErrModelLoad)
	}

	if err := acquireEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %v: %w", err, ErrModelLoad)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(weightsPath)
	if err != nil {
		releaseEnvironment()
		return nil, fmt.Errorf("failed to read model graph info: %v: %w", err, ErrModelLoad)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		releaseEnvironment()
		return nil, fmt.Errorf("model declares %d inputs and %d outputs: %w", len(inputs), len(outputs), ErrModelLoad)
	}
	if err := checkInputShape(inputs[0].Dimensions, spec); err != nil {
		releaseEnvironment()
		return nil, err
	}

	var options *ort.SessionOptions
	if cfg.threads > 0 {
		options, err = ort.NewSessionOptions()
		if err != nil {
			releaseEnvironment()
			return nil, fmt.Errorf("failed to create session options: %v: %w", err, ErrModelLoad)
		}
		defer options.Destroy()
		if err := options.SetIntraOpNumThreads(cfg.threads); err != nil {
			releaseEnvironment()
			return nil, fmt.Errorf("failed to set intra-op threads: %v: %w", err, ErrModelLoad)
		}
	}

	// U^2-Net exports list side outputs d1..d6 after the fused map; only the
	// first output is bound.
	session, err := ort.NewDynamicAdvancedSession(weightsPath,
		[]string{inputs[0].Name}, []string{outputs[0].Name}, options)
	if err != nil {
		releaseEnvironment()
		return nil, fmt.Errorf("failed to create ONNX session: %v: %w", err, ErrModelLoad)
	}

	return &Session{spec: spec, session: session}, nil
}

// checkInputShape rejects graphs whose statically declared input dimensions
// disagree with the variant. Dynamic dimensions (-1 or 0) are accepted.
func checkInputShape(dims []int64, spec model.Spec) error {
	if len(dims) != 4 {
		return fmt.Errorf("model input has %d dimensions, expected 4: %w", len(dims), ErrModelLoad)
	}
	if dims[1] > 0 && dims[1] != 3 {
		return fmt.Errorf("model input has %d channels, expected 3: %w", dims[1], ErrModelLoad)
	}
	size := int64(spec.InputSize)
	if (dims[2] > 0 && dims[2] != size) || (dims[3] > 0 && dims[3] != size) {
		return fmt.Errorf("model input is %dx%d, %s expects %dx%d: %w",
			dims[3], dims[2], spec.Kind, size, size, ErrModelLoad)
	}
	return nil
}

// Run executes one forward pass. The output is copied into an owned tensor
// so no runtime-managed memory escapes the call.
func (s *Session) Run(input *tensor.Tensor) (*tensor.Tensor, error) {
	inputTensor, err := ort.NewTensor(ort.NewShape(input.Shape()...), input.Data())
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %v: %w", err, ErrInference)
	}
	defer inputTensor.Destroy()

	outputs := []ort.ArbitraryTensor{nil}
	if err := s.session.Run([]ort.ArbitraryTensor{inputTensor}, outputs); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInference)
	}
	outputTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		outputs[0].Destroy()
		return nil, fmt.Errorf("model produced %T, expected a float32 tensor: %w", outputs[0], ErrInference)
	}
	defer outputTensor.Destroy()

	data := make([]float32, len(outputTensor.GetData()))
	copy(data, outputTensor.GetData())
	out, err := tensor.FromData(data, outputTensor.GetShape()...)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInference)
	}
	return out, nil
}

// Close destroys the session and releases its hold on the runtime
// environment. The environment itself is destroyed only when the last open
// session closes.
func (s *Session) Close() {
	if s.session == nil {
		return
	}
	s.session.Destroy()
	s.session = nil
	releaseEnvironment()
}
