package usecase

import (
	"context"
	"fmt"

	"github.com/neirth/neuralanalytics-go/internal/domain"
	"github.com/neirth/neuralanalytics-go/internal/sharedctx"
)

// ReadSignal is H4: read one signal window burst. Precondition: the
// headband is connected. Switches the source into Extraction mode
// first if it isn't already there.
func ReadSignal(ctx context.Context, sc *sharedctx.Context, _ domain.Command) (*domain.HandlerEvent, error) {
	if !sc.EEG().IsConnected(ctx) {
		return nil, fmt.Errorf("usecase read-signal: %w", domain.ErrNotConnected)
	}

	if sc.EEG().GetWorkMode() != domain.ModeExtraction {
		if err := sc.EEG().ChangeWorkMode(ctx, domain.ModeExtraction); err != nil {
			return nil, fmt.Errorf("usecase read-signal: switching mode: %w", err)
		}
	}

	window, err := sc.EEG().ExtractRawData(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase read-signal: %w", err)
	}

	sc.Log().Debug("usecase read-signal: captured %d channels", len(window))
	return &domain.HandlerEvent{
		Kind:         domain.ReceivedGeneralistData,
		SignalWindow: window,
	}, nil
}
