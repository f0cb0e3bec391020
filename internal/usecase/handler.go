// Package usecase implements the six atomic Use-Case Handlers (C6).
// Each handler is a small function over the Shared Context plus a
// command record; handlers assume the context's lock is already held
// by the caller (the dispatcher).
package usecase

import (
	"context"

	"github.com/neirth/neuralanalytics-go/internal/domain"
	"github.com/neirth/neuralanalytics-go/internal/sharedctx"
)

// Handler is the shape every use-case function implements. It returns
// a handler-internal event when the operation produced context-mutating
// data, or nil when there is nothing to apply.
type Handler func(ctx context.Context, sc *sharedctx.Context, cmd domain.Command) (*domain.HandlerEvent, error)

// Registry builds the CommandKind -> Handler map the dispatcher uses.
func Registry() map[domain.CommandKind]Handler {
	return map[domain.CommandKind]Handler{
		domain.CommandConnect:         Connect,
		domain.CommandDisconnect:      Disconnect,
		domain.CommandReadCalibration: ReadCalibration,
		domain.CommandReadSignal:      ReadSignal,
		domain.CommandPredict:         Predict,
		domain.CommandSetLight:        SetLight,
	}
}
