package usecase

import (
	"context"
	"fmt"

	"github.com/neirth/neuralanalytics-go/internal/domain"
	"github.com/neirth/neuralanalytics-go/internal/sharedctx"
)

// Connect is H1: connect the headband. Idempotent when already
// connected; no events are ever emitted by this handler.
func Connect(ctx context.Context, sc *sharedctx.Context, _ domain.Command) (*domain.HandlerEvent, error) {
	if sc.EEG().IsConnected(ctx) {
		sc.Log().Debug("usecase connect: already connected")
		return nil, nil
	}

	if err := sc.EEG().Connect(ctx); err != nil {
		return nil, fmt.Errorf("usecase connect: %w", err)
	}
	if !sc.EEG().IsConnected(ctx) {
		return nil, fmt.Errorf("usecase connect: %w", domain.ErrNotConnected)
	}
	sc.Log().Info("usecase connect: headband connected")
	return nil, nil
}
