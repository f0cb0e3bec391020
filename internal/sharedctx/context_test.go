package sharedctx

import (
	"context"
	"testing"

	"github.com/neirth/neuralanalytics-go/internal/domain"
	"github.com/neirth/neuralanalytics-go/internal/logger"
)

type noopEEG struct{}

func (noopEEG) Connect(context.Context) error     { return nil }
func (noopEEG) IsConnected(context.Context) bool  { return true }
func (noopEEG) Disconnect(context.Context) error  { return nil }
func (noopEEG) GetWorkMode() domain.WorkMode      { return domain.ModeInitialized }
func (noopEEG) ChangeWorkMode(context.Context, domain.WorkMode) error {
	return nil
}
func (noopEEG) ExtractImpedanceData(context.Context) (domain.Impedance, error) {
	return nil, nil
}
func (noopEEG) ExtractRawData(context.Context) (domain.SignalWindow, error) {
	return nil, nil
}

type noopBulb struct{}

func (noopBulb) ChangeState(context.Context, domain.BulbState) error { return nil }

type noopInfer struct{}

func (noopInfer) IsModelLoaded() bool { return true }
func (noopInfer) PredictColor(context.Context, domain.SignalWindow) (domain.ColorLabel, error) {
	return domain.ColorUnknown, nil
}

func newTestContext() *Context {
	log := logger.New(logger.LevelOff, nil)
	return New(log, noopEEG{}, noopBulb{}, noopInfer{})
}

func TestSetSignalWindowClearsImpedance(t *testing.T) {
	sc := newTestContext()
	sc.SetImpedance(domain.Impedance{"T3": 1})

	sc.SetSignalWindow(domain.SignalWindow{"T3": {1, 2, 3}})

	if _, ok := sc.Impedance(); ok {
		t.Fatal("expected impedance to be cleared after setting a signal window (I1)")
	}
	if _, ok := sc.SignalWindow(); !ok {
		t.Fatal("expected signal window to be set")
	}
}

func TestSetImpedanceClearsSignalWindow(t *testing.T) {
	sc := newTestContext()
	sc.SetSignalWindow(domain.SignalWindow{"T3": {1, 2, 3}})

	sc.SetImpedance(domain.Impedance{"T3": 1})

	if _, ok := sc.SignalWindow(); ok {
		t.Fatal("expected signal window to be cleared after setting impedance (I1)")
	}
	if _, ok := sc.Impedance(); !ok {
		t.Fatal("expected impedance to be set")
	}
}

func TestEmptyContextHasNeitherField(t *testing.T) {
	sc := newTestContext()
	if _, ok := sc.SignalWindow(); ok {
		t.Fatal("expected no signal window on a fresh context")
	}
	if _, ok := sc.Impedance(); ok {
		t.Fatal("expected no impedance on a fresh context")
	}
}

func TestPushPredictionAndEffectiveLabel(t *testing.T) {
	sc := newTestContext()
	for i := 0; i < domain.BufferCapacity; i++ {
		sc.PushPrediction(domain.ColorGreen)
	}
	if got := sc.EffectiveLabel(); got != domain.ColorGreen {
		t.Fatalf("EffectiveLabel() = %s, want %s", got, domain.ColorGreen)
	}
}

var _ domain.EEGSource = noopEEG{}
var _ domain.BulbSink = noopBulb{}
var _ domain.InferenceEngine = noopInfer{}
