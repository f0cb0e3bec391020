// Package inference loads the neural_analytics ONNX classifier and
// turns a signal window into a color label.
package inference

import (
	"context"
	"fmt"
	"sync"

	"github.com/neirth/neuralanalytics-go/internal/domain"
	"github.com/neirth/neuralanalytics-go/internal/logger"
	ort "github.com/yalue/onnxruntime_go"
)

// DefaultModelPath is the embedded classifier asset location (§6).
const DefaultModelPath = "assets/neural_analytics.onnx"

// onnxInit guards process-wide ONNX Runtime environment setup: the
// runtime may only be initialized once per process (§5 "process-wide
// state... re-initialization not supported").
var onnxInit sync.Once

// Option configures an Engine.
type Option func(*Engine)

// WithModelPath overrides the default asset path.
func WithModelPath(path string) Option {
	return func(e *Engine) { e.modelPath = path }
}

// WithOnnxLibPath overrides the ONNX Runtime shared library path.
func WithOnnxLibPath(path string) Option {
	return func(e *Engine) { e.onnxLibPath = path }
}

// Engine holds an optional pre-loaded ONNX graph for color prediction.
type Engine struct {
	log         *logger.Logger
	modelPath   string
	onnxLibPath string

	mu      sync.Mutex
	loaded  bool
	session *ort.AdvancedSession
	in      *ort.Tensor[float32]
	out     *ort.Tensor[float32]
}

// New constructs an Engine and tries to load the model from its
// default (or overridden) asset path. Load failure is non-fatal: the
// engine simply reports IsModelLoaded() == false.
func New(log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		log:       log,
		modelPath: DefaultModelPath,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.load(); err != nil {
		log.Warn("inference: model not loaded: %v", err)
	}
	return e
}

func (e *Engine) load() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.onnxLibPath != "" {
		ort.SetSharedLibraryPath(e.onnxLibPath)
	}
	var initErr error
	onnxInit.Do(func() {
		initErr = ort.InitializeEnvironment()
	})
	if initErr != nil {
		return fmt.Errorf("initializing onnx runtime: %w", initErr)
	}

	in, err := ort.NewEmptyTensor[float32](ort.NewShape(1, resizedSamples, int64(len(domain.Electrodes))))
	if err != nil {
		return fmt.Errorf("allocating input tensor: %w", err)
	}

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(domain.Labels))))
	if err != nil {
		in.Destroy()
		return fmt.Errorf("allocating output tensor: %w", err)
	}

	inInfo, outInfo, err := ort.GetInputOutputInfo(e.modelPath)
	if err != nil {
		in.Destroy()
		out.Destroy()
		return fmt.Errorf("reading model io info: %w", err)
	}

	sess, err := ort.NewAdvancedSession(
		e.modelPath,
		[]string{inInfo[0].Name}, []string{outInfo[0].Name},
		[]ort.Value{in}, []ort.Value{out},
		nil,
	)
	if err != nil {
		in.Destroy()
		out.Destroy()
		return fmt.Errorf("creating session: %w", err)
	}

	e.session = sess
	e.in = in
	e.out = out
	e.loaded = true
	e.log.Info("inference: loaded model from %s", e.modelPath)
	return nil
}

// IsModelLoaded reports whether a usable graph is loaded.
func (e *Engine) IsModelLoaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// PredictColor runs the preprocessing pipeline and the model on the
// given signal window, returning a color label.
func (e *Engine) PredictColor(_ context.Context, window domain.SignalWindow) (domain.ColorLabel, error) {
	tensor, err := preprocess(window)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return "", domain.ErrModelNotLoaded
	}

	copy(e.in.GetData(), tensor)
	if err := e.session.Run(); err != nil {
		return "", fmt.Errorf("inference: run failed: %w", err)
	}

	logits := e.out.GetData()
	probs := softmax(logits[:len(domain.Labels)])
	idx := argmax(probs)
	label, err := decodeLabel(idx)
	if err != nil {
		return "", err
	}
	e.log.Debug("inference: predicted %s (probs=%v)", label, probs)
	return label, nil
}

// Close releases the ONNX session and tensors.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		e.session.Destroy()
	}
	if e.in != nil {
		e.in.Destroy()
	}
	if e.out != nil {
		e.out.Destroy()
	}
	e.loaded = false
}

var _ domain.InferenceEngine = (*Engine)(nil)
