// Package sharedctx owns the Shared Context (C4): the single mutable
// record the state machine and dispatcher serialize all access through.
package sharedctx

import (
	"os"
	"sync"

	"github.com/neirth/neuralanalytics-go/internal/domain"
	"github.com/neirth/neuralanalytics-go/internal/eeg"
	"github.com/neirth/neuralanalytics-go/internal/logger"
)

// EnvUseMockHeadset selects the mock EEG source when unset or "true".
const EnvUseMockHeadset = "USE_MOCK_HEADSET"

// SelectEEGSource builds the real or mock EEG source per
// USE_MOCK_HEADSET (default true).
func SelectEEGSource(log *logger.Logger) domain.EEGSource {
	v, set := os.LookupEnv(EnvUseMockHeadset)
	if !set || v == "" || v == "true" {
		return eeg.NewMock(log)
	}
	return eeg.NewDriver(log)
}

// Context is the single mutable record of §3/§4.4. All access to its
// mutable fields, and to the collaborators reached through it, must
// happen while holding its lock — this is the one lock the dispatcher
// and state machine serialize every command through (§4.5, §5).
type Context struct {
	log *logger.Logger

	eegSource domain.EEGSource
	bulbSink  domain.BulbSink
	infer     domain.InferenceEngine

	mu           sync.Mutex
	signalWindow domain.SignalWindow
	impedance    domain.Impedance
	predBuf      domain.PredictionBuffer
}

// New builds a Shared Context around exactly one instance each of the
// three collaborators (I5).
func New(log *logger.Logger, eegSource domain.EEGSource, bulbSink domain.BulbSink, infer domain.InferenceEngine) *Context {
	return &Context{
		log:       log,
		eegSource: eegSource,
		bulbSink:  bulbSink,
		infer:     infer,
	}
}

// Lock acquires the context's single mutual-exclusion lock. Callers
// (the dispatcher, on behalf of a use-case handler) must hold it for
// the full duration of a command execution (§4.5).
func (c *Context) Lock() { c.mu.Lock() }

// Unlock releases the lock acquired by Lock.
func (c *Context) Unlock() { c.mu.Unlock() }

// EEG returns the owned EEG source. Callers must hold the lock.
func (c *Context) EEG() domain.EEGSource { return c.eegSource }

// Bulb returns the owned bulb sink. Callers must hold the lock.
func (c *Context) Bulb() domain.BulbSink { return c.bulbSink }

// Infer returns the owned inference engine. Callers must hold the lock.
func (c *Context) Infer() domain.InferenceEngine { return c.infer }

// SignalWindow returns the current signal window, if any. Callers must
// hold the lock.
func (c *Context) SignalWindow() (domain.SignalWindow, bool) {
	if c.signalWindow == nil {
		return nil, false
	}
	return c.signalWindow, true
}

// Impedance returns the current impedance sample, if any. Callers must
// hold the lock.
func (c *Context) Impedance() (domain.Impedance, bool) {
	if c.impedance == nil {
		return nil, false
	}
	return c.impedance, true
}

// SetSignalWindow stores a fresh signal window and clears the
// impedance field, enforcing invariant I1. Callers must hold the lock.
func (c *Context) SetSignalWindow(w domain.SignalWindow) {
	c.signalWindow = w
	c.impedance = nil
}

// SetImpedance stores a fresh impedance sample and clears the signal
// window field, enforcing invariant I1. Callers must hold the lock.
func (c *Context) SetImpedance(imp domain.Impedance) {
	c.impedance = imp
	c.signalWindow = nil
}

// PushPrediction appends a color label to the prediction buffer (I2).
// Callers must hold the lock.
func (c *Context) PushPrediction(label domain.ColorLabel) {
	c.predBuf.Push(label)
}

// EffectiveLabel returns the prediction buffer's consensus label.
// Callers must hold the lock.
func (c *Context) EffectiveLabel() domain.ColorLabel {
	return c.predBuf.EffectiveLabel()
}

// Log returns the context's logger, for handlers that need to log.
func (c *Context) Log() *logger.Logger { return c.log }
