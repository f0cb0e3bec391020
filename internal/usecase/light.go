package usecase

import (
	"context"
	"fmt"

	"github.com/neirth/neuralanalytics-go/internal/domain"
	"github.com/neirth/neuralanalytics-go/internal/sharedctx"
)

// SetLight is H6: translate cmd.SetLightOn into a bulb On/Off command.
// Errors are surfaced to the caller but are non-fatal to the pipeline —
// the state machine logs and continues rather than treating a bulb
// failure as a headset disconnect.
func SetLight(ctx context.Context, sc *sharedctx.Context, cmd domain.Command) (*domain.HandlerEvent, error) {
	state := domain.BulbOff
	if cmd.SetLightOn {
		state = domain.BulbOn
	}

	if err := sc.Bulb().ChangeState(ctx, state); err != nil {
		return nil, fmt.Errorf("usecase set-light: %w", err)
	}

	sc.Log().Debug("usecase set-light: bulb set to %s", state)
	return nil, nil
}
