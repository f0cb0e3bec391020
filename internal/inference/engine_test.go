package inference

import (
	"context"
	"errors"
	"testing"

	"github.com/neirth/neuralanalytics-go/internal/domain"
	"github.com/neirth/neuralanalytics-go/internal/logger"
)

func TestNewWithMissingModelIsNonFatal(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	e := New(log, WithModelPath("testdata/does-not-exist.onnx"))

	if e.IsModelLoaded() {
		t.Fatal("expected IsModelLoaded() == false for a missing model file")
	}
}

func TestPredictColorWithoutModelErrors(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	e := New(log, WithModelPath("testdata/does-not-exist.onnx"))

	window := domain.SignalWindow{
		"T3": make([]float32, 62),
		"T4": make([]float32, 62),
		"O1": make([]float32, 62),
		"O2": make([]float32, 62),
	}
	_, err := e.PredictColor(context.Background(), window)
	if !errors.Is(err, domain.ErrModelNotLoaded) {
		t.Fatalf("expected ErrModelNotLoaded, got %v", err)
	}
}

func TestPredictColorValidatesWindowBeforeModelCheck(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	e := New(log, WithModelPath("testdata/does-not-exist.onnx"))

	_, err := e.PredictColor(context.Background(), domain.SignalWindow{})
	if err == nil || errors.Is(err, domain.ErrModelNotLoaded) {
		t.Fatalf("expected a window validation error for an empty signal window, got %v", err)
	}
}
