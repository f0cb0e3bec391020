package inference

import (
	"fmt"
	"math"

	"github.com/neirth/neuralanalytics-go/internal/domain"
)

// resizedSamples is S in §4.3: the fixed per-channel sample count the
// model's input tensor expects.
const resizedSamples = 62

// tensorLen is S * len(domain.Electrodes), the flattened input length.
const tensorLen = resizedSamples * len(domain.Electrodes)

// preprocess turns a signal window into the model's 1xSx4 input tensor,
// flattened time-major: [c0_t0, c1_t0, c2_t0, c3_t0, c0_t1, ...].
func preprocess(window domain.SignalWindow) ([]float32, error) {
	channels := make([][]float32, len(domain.Electrodes))
	for i, ch := range domain.Electrodes {
		samples, ok := window[ch]
		if !ok || len(samples) == 0 {
			return nil, fmt.Errorf("inference: channel %s has no data", ch)
		}
		channels[i] = resize(standardize(samples))
	}

	out := make([]float32, tensorLen)
	for t := 0; t < resizedSamples; t++ {
		for c, samples := range channels {
			out[t*len(domain.Electrodes)+c] = samples[t]
		}
	}
	return out, nil
}

// standardize applies (x - mean) / (stddev + 1e-6) per channel.
func standardize(samples []float32) []float32 {
	var sum float64
	for _, v := range samples {
		sum += float64(v)
	}
	mean := sum / float64(len(samples))

	var variance float64
	for _, v := range samples {
		d := float64(v) - mean
		variance += d * d
	}
	variance /= float64(len(samples))
	stddev := math.Sqrt(variance)

	out := make([]float32, len(samples))
	for i, v := range samples {
		out[i] = float32((float64(v) - mean) / (stddev + 1e-6))
	}
	return out
}

// resize pads (repeating the last value) or truncates to exactly S
// samples.
func resize(samples []float32) []float32 {
	if len(samples) == resizedSamples {
		return samples
	}
	out := make([]float32, resizedSamples)
	if len(samples) > resizedSamples {
		copy(out, samples[:resizedSamples])
		return out
	}
	copy(out, samples)
	last := samples[len(samples)-1]
	for i := len(samples); i < resizedSamples; i++ {
		out[i] = last
	}
	return out
}

// softmax applies a numerically stable softmax over logits.
func softmax(logits []float32) []float32 {
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}
	exps := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		e := math.Exp(float64(v) - float64(max))
		exps[i] = e
		sum += e
	}
	out := make([]float32, len(logits))
	for i, e := range exps {
		out[i] = float32(e / sum)
	}
	return out
}

// argmax returns the index of the largest value.
func argmax(values []float32) int {
	best := 0
	for i, v := range values[1:] {
		if v > values[best] {
			best = i + 1
		}
	}
	return best
}

// decodeLabel maps an argmax index to a color label per the fixed
// [red, green, trash] label vector.
func decodeLabel(idx int) (domain.ColorLabel, error) {
	if idx < 0 || idx >= len(domain.Labels) {
		return "", fmt.Errorf("inference: label index %d out of range", idx)
	}
	return domain.Labels[idx], nil
}
