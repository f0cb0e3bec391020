// Package eeg provides EEG Source Port implementations: a deterministic
// mock for development and tests, and a real headband driver.
package eeg

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/neirth/neuralanalytics-go/internal/domain"
	"github.com/neirth/neuralanalytics-go/internal/logger"
)

const samplesPerChannel = 500

// Mock is a deterministic synthesizer standing in for a real headband.
// It starts already connected and in Calibration mode, and perturbs
// its signal and impedance state a little on every read, the way the
// reference mock adapter does.
type Mock struct {
	mu          sync.Mutex
	log         *logger.Logger
	rng         *rand.Rand
	connected   bool
	mode        domain.WorkMode
	signal      map[string][]float32
	impedance   map[string]int
	runningMin  map[string]float32
	runningMax  map[string]float32
}

// NewMock builds a mock EEG source seeded with plausible channel data:
// impedances in [1, 15] kOhm, voltages drifting in [-100, 100] uV.
func NewMock(log *logger.Logger) *Mock {
	log.Info("eeg: constructing mock headset source")
	m := &Mock{
		log:        log,
		rng:        rand.New(rand.NewSource(1)),
		connected:  true,
		mode:       domain.ModeCalibration,
		signal:     make(map[string][]float32, len(domain.Electrodes)),
		impedance:  make(map[string]int, len(domain.Electrodes)),
		runningMin: make(map[string]float32, len(domain.Electrodes)),
		runningMax: make(map[string]float32, len(domain.Electrodes)),
	}
	for _, ch := range domain.Electrodes {
		buf := make([]float32, samplesPerChannel)
		for i := range buf {
			buf[i] = m.uniform(-100, 100)
		}
		m.signal[ch] = buf
		m.impedance[ch] = 1 + m.rng.Intn(15)
		m.runningMin[ch] = -100
		m.runningMax[ch] = 100
	}
	return m
}

func (m *Mock) uniform(lo, hi float32) float32 {
	return lo + m.rng.Float32()*(hi-lo)
}

// refreshData mutates the simulated buffers the way the reference
// adapter's refresh_data does: a bounded random walk on every channel,
// plus a 10% chance of a small impedance perturbation.
func (m *Mock) refreshData() {
	for _, ch := range domain.Electrodes {
		buf := m.signal[ch]
		last := buf[len(buf)-1]
		next := last + m.uniform(-5, 5)
		if next > 100 {
			next = 100
		}
		if next < -100 {
			next = -100
		}
		buf = append(buf[1:], next)
		m.signal[ch] = buf
		if next < m.runningMin[ch] {
			m.runningMin[ch] = next
		}
		if next > m.runningMax[ch] {
			m.runningMax[ch] = next
		}
	}
	if m.rng.Float32() < 0.1 {
		for _, ch := range domain.Electrodes {
			delta := m.rng.Intn(5) - 2
			v := m.impedance[ch] + delta
			if v < 1 {
				v = 1
			}
			if v > 20 {
				v = 20
			}
			m.impedance[ch] = v
		}
	}
}

func (m *Mock) Connect(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connected {
		m.log.Warn("eeg mock: already connected")
		return nil
	}
	m.log.Info("eeg mock: connecting to simulated device")
	m.connected = true
	return nil
}

func (m *Mock) IsConnected(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *Mock) Disconnect(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		m.log.Warn("eeg mock: already disconnected")
		return nil
	}
	m.log.Info("eeg mock: disconnecting simulated device")
	m.connected = false
	return nil
}

func (m *Mock) GetWorkMode() domain.WorkMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

func (m *Mock) ChangeWorkMode(_ context.Context, target domain.WorkMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode == target {
		m.log.Debug("eeg mock: already in %s mode", target)
		return nil
	}
	m.log.Info("eeg mock: changing from %s mode to %s", m.mode, target)
	m.mode = target
	return nil
}

func (m *Mock) ExtractImpedanceData(_ context.Context) (domain.Impedance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode != domain.ModeCalibration {
		return nil, fmt.Errorf("eeg mock: %w", domain.ErrWrongWorkMode)
	}
	if !m.connected {
		return nil, domain.ErrNotConnected
	}
	m.refreshData()
	out := make(domain.Impedance, len(m.impedance))
	for k, v := range m.impedance {
		out[k] = v
	}
	m.log.Debug("eeg mock: extracted impedance %v", out)
	return out, nil
}

func (m *Mock) ExtractRawData(_ context.Context) (domain.SignalWindow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode != domain.ModeExtraction {
		return nil, fmt.Errorf("eeg mock: %w", domain.ErrWrongWorkMode)
	}
	if !m.connected {
		return nil, domain.ErrNotConnected
	}
	m.refreshData()
	out := make(domain.SignalWindow, len(m.signal))
	for ch, buf := range m.signal {
		span := m.runningMax[ch] - m.runningMin[ch]
		scaled := make([]float32, len(buf))
		for i, v := range buf {
			if span == 0 {
				scaled[i] = 0
				continue
			}
			scaled[i] = (v - m.runningMin[ch]) / span
		}
		out[ch] = scaled
	}
	m.log.Debug("eeg mock: extracted raw data from %d channels", len(out))
	return out, nil
}

var _ domain.EEGSource = (*Mock)(nil)
