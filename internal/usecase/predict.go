package usecase

import (
	"context"
	"fmt"

	"github.com/neirth/neuralanalytics-go/internal/domain"
	"github.com/neirth/neuralanalytics-go/internal/sharedctx"
)

// Predict is H5: run the inference engine against the context's current
// signal window. Precondition: a signal window is present. Engine
// errors are wrapped with %w, so an error whose message contains
// "has no data" (the preprocessing contract's per-channel guard) keeps
// that substring and the state machine can tell it apart from a
// merely-unloaded model and treat it as a disconnect.
func Predict(ctx context.Context, sc *sharedctx.Context, _ domain.Command) (*domain.HandlerEvent, error) {
	window, ok := sc.SignalWindow()
	if !ok {
		return nil, fmt.Errorf("usecase predict: %w", domain.ErrNoSignalWindow)
	}

	label, err := sc.Infer().PredictColor(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("usecase predict: %w", err)
	}

	sc.Log().Info("usecase predict: thinking of %s", label)
	return &domain.HandlerEvent{
		Kind:          domain.ReceivedPredictColorThinkingData,
		ColorThinking: label,
	}, nil
}
