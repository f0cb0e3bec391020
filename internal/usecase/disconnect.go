package usecase

import (
	"context"

	"github.com/neirth/neuralanalytics-go/internal/domain"
	"github.com/neirth/neuralanalytics-go/internal/sharedctx"
)

// Disconnect is H2: disconnect the headband. Idempotent when already
// disconnected.
func Disconnect(ctx context.Context, sc *sharedctx.Context, _ domain.Command) (*domain.HandlerEvent, error) {
	if !sc.EEG().IsConnected(ctx) {
		sc.Log().Debug("usecase disconnect: already disconnected")
		return nil, nil
	}
	if err := sc.EEG().Disconnect(ctx); err != nil {
		return nil, err
	}
	sc.Log().Info("usecase disconnect: headband disconnected")
	return nil, nil
}
