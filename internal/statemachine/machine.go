// Package statemachine implements the State Machine (C7): the four
// lifecycle states that sequence connection, calibration, and
// continuous capture, invoking use-case handlers through the Command
// Dispatcher and posting domain events through the Event Surface.
//
// Transition table and entry-action ordering are grounded on
// state_machine.rs in the reference implementation; the prediction
// buffer consensus used in the capturing state is this module's own
// addition per the data model (§3).
package statemachine

import (
	"context"
	"strings"
	"sync"

	"github.com/neirth/neuralanalytics-go/internal/dispatch"
	"github.com/neirth/neuralanalytics-go/internal/domain"
	"github.com/neirth/neuralanalytics-go/internal/events"
	"github.com/neirth/neuralanalytics-go/internal/logger"
	"github.com/neirth/neuralanalytics-go/internal/sharedctx"
)

// State is one of the four reachable lifecycle states (§8: the
// reachable-state set is exactly these four).
type State int

const (
	StateInitializeApplication State = iota
	StateAwaitingHeadsetConnection
	StateAwaitingHeadsetCalibration
	StateCapturingHeadsetData
)

func (s State) String() string {
	switch s {
	case StateInitializeApplication:
		return "initialize-application"
	case StateAwaitingHeadsetConnection:
		return "awaiting-headset-connection"
	case StateAwaitingHeadsetCalibration:
		return "awaiting-headset-calibration"
	case StateCapturingHeadsetData:
		return "capturing-headset-data"
	default:
		return "unknown"
	}
}

// Machine orchestrates the four lifecycle states. A single ticking
// task delivers BackgroundTick events by calling Tick repeatedly; the
// machine never runs two entry actions concurrently because it has
// exactly one caller driving Tick (§5, §4.7).
type Machine struct {
	log  *logger.Logger
	disp *dispatch.Dispatcher
	sc   *sharedctx.Context

	mu    sync.Mutex
	state State
}

// New builds a Machine in its initial state, InitializeApplication.
func New(log *logger.Logger, disp *dispatch.Dispatcher, sc *sharedctx.Context) *Machine {
	return &Machine{
		log:   log,
		disp:  disp,
		sc:    sc,
		state: StateInitializeApplication,
	}
}

// State reports the machine's current state. Safe to call from another
// goroutine (e.g. tests) while the ticking task runs.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// Tick re-executes the current state's entry action once. This is the
// BackgroundTick delivery of §4.7: each state treats a tick as a
// request to re-run its entry logic.
func (m *Machine) Tick(ctx context.Context) {
	switch m.State() {
	case StateInitializeApplication:
		m.setState(m.onInitializeApplication(ctx))
	case StateAwaitingHeadsetConnection:
		m.setState(m.onAwaitingHeadsetConnection(ctx))
	case StateAwaitingHeadsetCalibration:
		m.setState(m.onAwaitingHeadsetCalibration(ctx))
	case StateCapturingHeadsetData:
		m.setState(m.onCapturingHeadsetData(ctx))
	}
}

func (m *Machine) post(name domain.EventName, payload domain.EventPayload) {
	events.Post(domain.Event{Name: name, Payload: payload})
}

// onInitializeApplication posts InitializedCore and moves on. Posting
// through the Event Surface is best-effort and cannot itself fail from
// the state machine's point of view (§4.8), so there is no "emit-fail"
// branch to retry here — this resolves the one apparent tension between
// §4.7's "on emit-fail: retry self" and §4.8's "a failing sink is
// logged but never aborts the state machine" in favor of the latter,
// which is the binding invariant.
func (m *Machine) onInitializeApplication(_ context.Context) State {
	m.post(domain.EventInitializedCore, domain.EventPayload{})
	return StateAwaitingHeadsetConnection
}

func (m *Machine) onAwaitingHeadsetConnection(ctx context.Context) State {
	if _, err := m.disp.Execute(ctx, m.sc, domain.Command{Kind: domain.CommandDisconnect}); err != nil {
		m.log.Debug("statemachine: idempotent disconnect returned: %v", err)
	}

	if _, err := m.disp.Execute(ctx, m.sc, domain.Command{Kind: domain.CommandConnect}); err != nil {
		m.log.Warn("statemachine: connect failed: %v", err)
		m.post(domain.EventHeadsetDisconnected, domain.EventPayload{})
		return StateAwaitingHeadsetConnection
	}

	m.post(domain.EventHeadsetConnected, domain.EventPayload{})
	return StateAwaitingHeadsetCalibration
}

func (m *Machine) onAwaitingHeadsetCalibration(ctx context.Context) State {
	event, err := m.disp.Execute(ctx, m.sc, domain.Command{Kind: domain.CommandReadCalibration})
	if err != nil {
		m.log.Warn("statemachine: read-calibration failed: %v", err)
		m.post(domain.EventHeadsetDisconnected, domain.EventPayload{})
		return StateAwaitingHeadsetConnection
	}

	imp := event.Impedance
	if !imp.Complete() {
		m.post(domain.EventHeadsetCalibrating, domain.EventPayload{Impedance: imp})
		return StateAwaitingHeadsetCalibration
	}

	m.post(domain.EventHeadsetCalibrated, domain.EventPayload{})
	return StateCapturingHeadsetData
}

func (m *Machine) onCapturingHeadsetData(ctx context.Context) State {
	signalEvent, err := m.disp.Execute(ctx, m.sc, domain.Command{Kind: domain.CommandReadSignal})
	if err != nil {
		m.log.Warn("statemachine: read-signal failed: %v", err)
		m.post(domain.EventHeadsetDisconnected, domain.EventPayload{})
		return StateAwaitingHeadsetConnection
	}

	_, err = m.disp.Execute(ctx, m.sc, domain.Command{Kind: domain.CommandPredict})
	if err != nil {
		if strings.Contains(err.Error(), "has no data") {
			m.log.Warn("statemachine: predict failed with missing channel data: %v", err)
			m.post(domain.EventHeadsetDisconnected, domain.EventPayload{})
			return StateAwaitingHeadsetConnection
		}
		m.log.Debug("statemachine: predict failed, retrying: %v", err)
		return StateCapturingHeadsetData
	}

	effective := m.effectiveLabel()
	isGreen := effective == domain.ColorGreen
	if _, err := m.disp.Execute(ctx, m.sc, domain.Command{Kind: domain.CommandSetLight, SetLightOn: isGreen}); err != nil {
		m.log.Warn("statemachine: set-light failed: %v", err)
	}

	m.post(domain.EventCapturedHeadsetData, domain.EventPayload{
		SignalWindow:  signalEvent.SignalWindow,
		ColorThinking: effective,
	})
	return StateCapturingHeadsetData
}

// effectiveLabel reads the prediction buffer's consensus label under
// the context's lock (§3, §4.4).
func (m *Machine) effectiveLabel() domain.ColorLabel {
	m.sc.Lock()
	defer m.sc.Unlock()
	return m.sc.EffectiveLabel()
}
