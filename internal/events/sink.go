// Package events implements the Event Surface (C8): the single
// process-wide sink the core posts structured events through to reach
// the external UI collaborator (§4.8, §6). This is the one
// process-wide mutable global spec.md §9 permits.
package events

import (
	"sync"

	"github.com/neirth/neuralanalytics-go/internal/domain"
	"github.com/neirth/neuralanalytics-go/internal/logger"
)

// Sink is the shape of the external event callback (§6): given a name
// and payload, it returns an error string on failure.
type Sink func(name domain.EventName, payload domain.EventPayload) error

var (
	mu  sync.Mutex
	fn  Sink
	log *logger.Logger
)

// Install registers the process-wide sink. Exactly one sink may be
// installed at a time (§4.8); a second call returns
// ErrSinkAlreadyInstalled without replacing the existing sink.
func Install(l *logger.Logger, sink Sink) error {
	mu.Lock()
	defer mu.Unlock()
	if fn != nil {
		return domain.ErrSinkAlreadyInstalled
	}
	fn = sink
	log = l
	return nil
}

// Reset clears the installed sink. Exposed for tests only; production
// code never re-initializes the sink (§5 "re-initialization is not
// supported").
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	fn = nil
	log = nil
}

// Post delivers an event to the installed sink. Best-effort: with no
// sink installed Post does nothing, and a failing sink is logged but
// its error never propagates to the caller, so a
// stalled or misbehaving UI can never abort the state machine (§4.8,
// §7 taxonomy item 4).
func Post(event domain.Event) {
	mu.Lock()
	sink, l := fn, log
	mu.Unlock()

	if sink == nil {
		return
	}
	if err := sink(event.Name, event.Payload); err != nil {
		if l != nil {
			l.Warn("events: sink rejected %s: %v", event.Name, err)
		}
	}
}

// StdoutSink is a minimal sink standing in for the external UI
// collaborator (§6 "UI front-end: consumes the event sink only"); it
// prints one line per event. Good enough for a headless run of the
// core; a real front-end installs its own sink instead.
func StdoutSink(printf func(format string, a ...any)) Sink {
	return func(name domain.EventName, payload domain.EventPayload) error {
		switch name {
		case domain.EventHeadsetCalibrating:
			printf("[%s] impedance=%v", name, payload.Impedance)
		case domain.EventCapturedHeadsetData:
			printf("[%s] color=%s", name, payload.ColorThinking)
		default:
			printf("[%s]", name)
		}
		return nil
	}
}
