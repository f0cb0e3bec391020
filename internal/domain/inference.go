package domain

import "context"

// ColorLabel is the classifier's output alphabet.
type ColorLabel string

const (
	ColorRed   ColorLabel = "red"
	ColorGreen ColorLabel = "green"
	ColorTrash ColorLabel = "trash"
	// ColorUnknown is never returned by the inference engine itself; it
	// is the prediction buffer's consensus label when the buffer is
	// non-unanimous. Kept here so both layers share one alphabet.
	ColorUnknown ColorLabel = "unknown"
)

// Labels is the fixed argmax-index -> label mapping the model output
// is decoded against, in index order.
var Labels = [3]ColorLabel{ColorRed, ColorGreen, ColorTrash}

// InferenceEngine holds an optional pre-loaded classifier graph.
type InferenceEngine interface {
	IsModelLoaded() bool
	PredictColor(ctx context.Context, window SignalWindow) (ColorLabel, error)
}
