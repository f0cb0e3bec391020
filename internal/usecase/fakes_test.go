package usecase

import (
	"context"

	"github.com/neirth/neuralanalytics-go/internal/domain"
)

// fakeEEG is a hand-written domain.EEGSource test double. Each field can
// be set by a test to force a particular return value or error.
type fakeEEG struct {
	connected     bool
	mode          domain.WorkMode
	impedance     domain.Impedance
	window        domain.SignalWindow
	connectErr    error
	extractImpErr error
	extractSigErr error
	changeModeErr error
}

func (f *fakeEEG) Connect(context.Context) error {
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakeEEG) IsConnected(context.Context) bool { return f.connected }

func (f *fakeEEG) Disconnect(context.Context) error {
	f.connected = false
	return nil
}

func (f *fakeEEG) GetWorkMode() domain.WorkMode { return f.mode }

func (f *fakeEEG) ChangeWorkMode(_ context.Context, target domain.WorkMode) error {
	if f.changeModeErr != nil {
		return f.changeModeErr
	}
	f.mode = target
	return nil
}

func (f *fakeEEG) ExtractImpedanceData(context.Context) (domain.Impedance, error) {
	if f.extractImpErr != nil {
		return nil, f.extractImpErr
	}
	return f.impedance, nil
}

func (f *fakeEEG) ExtractRawData(context.Context) (domain.SignalWindow, error) {
	if f.extractSigErr != nil {
		return nil, f.extractSigErr
	}
	return f.window, nil
}

var _ domain.EEGSource = (*fakeEEG)(nil)

// fakeBulb is a hand-written domain.BulbSink test double.
type fakeBulb struct {
	state    domain.BulbState
	changeErr error
}

func (f *fakeBulb) ChangeState(_ context.Context, state domain.BulbState) error {
	if f.changeErr != nil {
		return f.changeErr
	}
	f.state = state
	return nil
}

var _ domain.BulbSink = (*fakeBulb)(nil)

// fakeInfer is a hand-written domain.InferenceEngine test double.
type fakeInfer struct {
	loaded  bool
	label   domain.ColorLabel
	predErr error
}

func (f *fakeInfer) IsModelLoaded() bool { return f.loaded }

func (f *fakeInfer) PredictColor(context.Context, domain.SignalWindow) (domain.ColorLabel, error) {
	if f.predErr != nil {
		return "", f.predErr
	}
	return f.label, nil
}

var _ domain.InferenceEngine = (*fakeInfer)(nil)
