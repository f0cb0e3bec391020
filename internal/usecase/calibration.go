package usecase

import (
	"context"
	"fmt"

	"github.com/neirth/neuralanalytics-go/internal/domain"
	"github.com/neirth/neuralanalytics-go/internal/sharedctx"
)

// ReadCalibration is H3: read one impedance sample. Precondition: the
// headband is connected. Switches the source into Calibration mode
// first if it isn't already there.
func ReadCalibration(ctx context.Context, sc *sharedctx.Context, _ domain.Command) (*domain.HandlerEvent, error) {
	if !sc.EEG().IsConnected(ctx) {
		return nil, fmt.Errorf("usecase read-calibration: %w", domain.ErrNotConnected)
	}

	if sc.EEG().GetWorkMode() != domain.ModeCalibration {
		if err := sc.EEG().ChangeWorkMode(ctx, domain.ModeCalibration); err != nil {
			return nil, fmt.Errorf("usecase read-calibration: switching mode: %w", err)
		}
	}

	imp, err := sc.EEG().ExtractImpedanceData(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase read-calibration: %w", err)
	}

	for _, ch := range domain.Electrodes {
		v, ok := imp[ch]
		if !ok {
			continue
		}
		sc.Log().Debug("usecase read-calibration: %s = %dkOhm (%s)", ch, v, domain.StatusOf(v))
	}

	return &domain.HandlerEvent{
		Kind:      domain.ReceivedCalibrationData,
		Impedance: imp,
	}, nil
}
