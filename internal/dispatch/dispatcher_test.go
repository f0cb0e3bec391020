package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/neirth/neuralanalytics-go/internal/domain"
	"github.com/neirth/neuralanalytics-go/internal/logger"
	"github.com/neirth/neuralanalytics-go/internal/sharedctx"
)

type stubEEG struct {
	connected bool
	mode      domain.WorkMode
	impedance domain.Impedance
	window    domain.SignalWindow
}

func (s *stubEEG) Connect(context.Context) error    { s.connected = true; return nil }
func (s *stubEEG) IsConnected(context.Context) bool { return s.connected }
func (s *stubEEG) Disconnect(context.Context) error { s.connected = false; return nil }
func (s *stubEEG) GetWorkMode() domain.WorkMode     { return s.mode }
func (s *stubEEG) ChangeWorkMode(_ context.Context, m domain.WorkMode) error {
	s.mode = m
	return nil
}
func (s *stubEEG) ExtractImpedanceData(context.Context) (domain.Impedance, error) {
	return s.impedance, nil
}
func (s *stubEEG) ExtractRawData(context.Context) (domain.SignalWindow, error) {
	return s.window, nil
}

type stubBulb struct{ state domain.BulbState }

func (s *stubBulb) ChangeState(_ context.Context, st domain.BulbState) error {
	s.state = st
	return nil
}

type stubInfer struct {
	loaded bool
	label  domain.ColorLabel
}

func (s *stubInfer) IsModelLoaded() bool { return s.loaded }
func (s *stubInfer) PredictColor(context.Context, domain.SignalWindow) (domain.ColorLabel, error) {
	return s.label, nil
}

func newDispatchTestContext() *sharedctx.Context {
	log := logger.New(logger.LevelOff, nil)
	return sharedctx.New(log, &stubEEG{connected: true, mode: domain.ModeCalibration, impedance: domain.Impedance{"T3": 1, "T4": 1, "O1": 1, "O2": 1}}, &stubBulb{}, &stubInfer{loaded: true, label: domain.ColorGreen})
}

func TestExecuteUnknownCommand(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	d := New(log)
	sc := newDispatchTestContext()

	_, err := d.Execute(context.Background(), sc, domain.Command{Kind: domain.CommandKind(99)})
	if !errors.Is(err, domain.ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestExecuteAppliesCalibrationMutation(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	d := New(log)
	sc := newDispatchTestContext()

	if _, err := d.Execute(context.Background(), sc, domain.Command{Kind: domain.CommandReadCalibration}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	sc.Lock()
	imp, ok := sc.Impedance()
	_, hasWindow := sc.SignalWindow()
	sc.Unlock()

	if !ok {
		t.Fatal("expected impedance to be set on shared context")
	}
	if hasWindow {
		t.Fatal("expected signal window to be cleared by I1")
	}
	if len(imp) != 4 {
		t.Fatalf("expected 4 channels, got %d", len(imp))
	}
}

func TestExecuteAppliesSignalMutationClearingImpedance(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	d := New(log)
	sc := newDispatchTestContext()

	if _, err := d.Execute(context.Background(), sc, domain.Command{Kind: domain.CommandReadCalibration}); err != nil {
		t.Fatalf("Execute(read-calibration): %v", err)
	}

	eeg := sc.EEG().(*stubEEG)
	eeg.window = domain.SignalWindow{"T3": {1, 2, 3}}

	if _, err := d.Execute(context.Background(), sc, domain.Command{Kind: domain.CommandReadSignal}); err != nil {
		t.Fatalf("Execute(read-signal): %v", err)
	}

	sc.Lock()
	_, hasImpedance := sc.Impedance()
	_, hasWindow := sc.SignalWindow()
	sc.Unlock()

	if hasImpedance {
		t.Fatal("expected impedance to be cleared by I1")
	}
	if !hasWindow {
		t.Fatal("expected signal window to be set")
	}
}

func TestExecutePushesPrediction(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	d := New(log)
	sc := newDispatchTestContext()
	sc.SetSignalWindow(domain.SignalWindow{"T3": {1, 2, 3}})

	if _, err := d.Execute(context.Background(), sc, domain.Command{Kind: domain.CommandPredict}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	sc.Lock()
	effective := sc.EffectiveLabel()
	sc.Unlock()

	if effective != domain.ColorGreen {
		t.Fatalf("expected the single pushed label as consensus, got %s", effective)
	}
}
