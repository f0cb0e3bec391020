// Package core implements the Core Runtime (C9): construction of the
// state machine, installation of the event sink, and the background
// ticking task that keeps the state machine advancing without blocking
// the caller (§4.9).
package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/neirth/neuralanalytics-go/internal/dispatch"
	"github.com/neirth/neuralanalytics-go/internal/domain"
	"github.com/neirth/neuralanalytics-go/internal/events"
	"github.com/neirth/neuralanalytics-go/internal/logger"
	"github.com/neirth/neuralanalytics-go/internal/sharedctx"
	"github.com/neirth/neuralanalytics-go/internal/statemachine"
)

// defaultTickInterval paces the ticking loop so a disconnected headset
// does not busy-loop the CPU (§9 "back-pressure").
const defaultTickInterval = 50 * time.Millisecond

// Option configures a Runtime.
type Option func(*Runtime)

// WithTickInterval overrides the background ticking cadence.
func WithTickInterval(d time.Duration) Option {
	return func(r *Runtime) { r.tickInterval = d }
}

// Runtime is the Core Runtime (C9): it owns the state machine and the
// goroutine that keeps ticking it.
type Runtime struct {
	log          *logger.Logger
	machine      *statemachine.Machine
	tickInterval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New builds a Runtime around exactly one instance each of an EEG
// source, a bulb sink, and an inference engine (I5), installs sink as
// the process-wide event sink, and returns a Runtime ready to Start.
// A second call in the same process returns ErrAlreadyInitialized: the
// event sink is itself one of the process-wide singletons §5 names, so
// its own already-installed guard doubles as the runtime's re-init
// guard, matching the reference implementation's once-initialized
// singleton registry (di.rs / singletons.rs) made explicit as a
// returned error instead of silent undefined behavior.
func New(log *logger.Logger, eegSource domain.EEGSource, bulbSink domain.BulbSink, infer domain.InferenceEngine, sink events.Sink, opts ...Option) (*Runtime, error) {
	if err := events.Install(log, sink); err != nil {
		return nil, fmt.Errorf("core: %w", domain.ErrAlreadyInitialized)
	}

	sc := sharedctx.New(log, eegSource, bulbSink, infer)
	disp := dispatch.New(log)
	machine := statemachine.New(log, disp, sc)

	r := &Runtime{
		log:          log,
		machine:      machine,
		tickInterval: defaultTickInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Start spawns the background ticking task and returns immediately; it
// does not block the caller for hardware readiness (§4.9).
func (r *Runtime) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		r.log.Warn("core: runtime already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true

	go r.loop(childCtx)
	r.log.Info("core: runtime started (tick=%s)", r.tickInterval)
}

// Stop cooperatively shuts the ticking task down. The bulb's
// background connect goroutine is simply abandoned and the EEG
// source's session is left to the process exit path, matching the
// "drop of the owning handles" shutdown semantics of §4.9 — this
// module has no finalizers to run beyond canceling the ticker.
func (r *Runtime) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	r.cancel()
	r.running = false
	r.log.Info("core: runtime stopped")
}

// Machine exposes the underlying state machine for introspection
// (tests, diagnostics). Not part of the external contract.
func (r *Runtime) Machine() *statemachine.Machine { return r.machine }

func (r *Runtime) loop(ctx context.Context) {
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	// Tick once immediately so InitializeApplication posts its event
	// without waiting a full tickInterval, matching "spawns the
	// ticking task. It returns once the background task is running"
	// (§4.9) — the caller sees the effect promptly, the call itself
	// still never blocks for it.
	r.machine.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.machine.Tick(ctx)
		}
	}
}
