// Package dispatch implements the Command Dispatcher (C5): a single
// entry point that looks up a use-case handler by command kind,
// invokes it against the Shared Context, and applies the §3 invariant
// I1 state-update rule for whatever handler event comes back.
package dispatch

import (
	"context"
	"fmt"

	"github.com/neirth/neuralanalytics-go/internal/domain"
	"github.com/neirth/neuralanalytics-go/internal/logger"
	"github.com/neirth/neuralanalytics-go/internal/sharedctx"
	"github.com/neirth/neuralanalytics-go/internal/usecase"
)

// Dispatcher is a typed registry mapping command kind to handler. It
// owns its handlers by composition (§9 "lifetime of handlers"), not by
// static references.
type Dispatcher struct {
	log      *logger.Logger
	handlers map[domain.CommandKind]usecase.Handler
}

// New builds a Dispatcher around the standard six-handler registry.
func New(log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		log:      log,
		handlers: usecase.Registry(),
	}
}

// Execute looks up the handler for cmd.Kind, runs it against sc while
// holding sc's lock for the full duration (§4.5, §5), and applies the
// I1 context-mutation rule for any handler event returned. No more than
// one command may execute against a given context at a time; that
// serialization comes for free from sc's own lock.
func (d *Dispatcher) Execute(ctx context.Context, sc *sharedctx.Context, cmd domain.Command) (*domain.HandlerEvent, error) {
	handler, ok := d.handlers[cmd.Kind]
	if !ok {
		return nil, fmt.Errorf("dispatcher: %w: %s", domain.ErrUnknownCommand, cmd.Kind)
	}

	sc.Lock()
	defer sc.Unlock()

	event, err := handler(ctx, sc, cmd)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, nil
	}

	switch event.Kind {
	case domain.ReceivedCalibrationData:
		sc.SetImpedance(event.Impedance)
	case domain.ReceivedGeneralistData:
		sc.SetSignalWindow(event.SignalWindow)
	case domain.ReceivedPredictColorThinkingData:
		sc.PushPrediction(event.ColorThinking)
	default:
		d.log.Warn("dispatcher: unrecognized handler event kind %d from %s", event.Kind, cmd.Kind)
	}

	return event, nil
}
