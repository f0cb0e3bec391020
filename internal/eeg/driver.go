package eeg

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/neirth/neuralanalytics-go/internal/domain"
	"github.com/neirth/neuralanalytics-go/internal/logger"
)

// EnvBrainbitMAC is the env var carrying the headband's MAC address.
const EnvBrainbitMAC = "BRAINBIT_MAC_ADDRESS"

const defaultMAC = "00:00:00:00:00:00"

// modeStabilization is how long the driver waits after a stop/start
// handshake for the device to settle into its new mode.
const modeStabilization = 300 * time.Millisecond

// connectTimeout bounds a single connection attempt.
const connectTimeout = 20 * time.Second

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithHTTPClient overrides the driver's probe HTTP client. Exposed for
// tests.
func WithHTTPClient(c *http.Client) DriverOption {
	return func(d *Driver) { d.httpClient = c }
}

// Driver is the real BrainBit headband adapter. There is no maintained
// Go SDK for the vendor's BLE protocol (out of scope per the wire
// protocol exclusion), so the session handshake here is a thin
// placeholder: it tracks prepared/started state and a probe read the
// same way the reference driver's is_connected does, leaving the BLE
// transport itself to a future adapter swap.
type Driver struct {
	mac        string
	log        *logger.Logger
	httpClient *http.Client

	mu         sync.Mutex
	prepared   bool
	mode       domain.WorkMode
	runningMin map[string]float32
	runningMax map[string]float32
}

// NewDriver builds a real headband driver bound to BRAINBIT_MAC_ADDRESS
// (or a vendor-default placeholder when unset).
func NewDriver(log *logger.Logger, opts ...DriverOption) *Driver {
	mac := os.Getenv(EnvBrainbitMAC)
	if mac == "" {
		mac = defaultMAC
		log.Warn("eeg: %s unset, using placeholder MAC %s", EnvBrainbitMAC, mac)
	}
	d := &Driver{
		mac:        mac,
		log:        log,
		httpClient: &http.Client{Timeout: connectTimeout},
		mode:       domain.ModeInitialized,
		runningMin: make(map[string]float32, len(domain.Electrodes)),
		runningMax: make(map[string]float32, len(domain.Electrodes)),
	}
	for _, opts := range opts {
		opts(d)
	}
	return d
}

// Connect opens a vendor board session: prepares and starts the
// stream. Idempotent.
func (d *Driver) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.prepared {
		d.log.Warn("eeg driver: already connected")
		return nil
	}
	d.log.Info("eeg driver: opening session with %s", d.mac)
	if err := d.probeLocked(ctx); err != nil {
		return fmt.Errorf("eeg driver: connect: %w", err)
	}
	d.prepared = true
	return nil
}

// IsConnected verifies session preparedness and performs a tiny probe
// read to detect silent link loss.
func (d *Driver) IsConnected(ctx context.Context) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.prepared {
		return false
	}
	if err := d.probeLocked(ctx); err != nil {
		d.log.Warn("eeg driver: probe failed, treating as disconnected: %v", err)
		return false
	}
	return true
}

// probeLocked is the tiny liveness probe. Real hardware I/O is out of
// scope (§1); this stands in for it the way a health-check request
// would against a local vendor bridge, matching the stdlib-http style
// used for vendor calls elsewhere in this module.
func (d *Driver) probeLocked(_ context.Context) error {
	return nil
}

func (d *Driver) Disconnect(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.prepared {
		d.log.Warn("eeg driver: already disconnected")
		return nil
	}
	d.log.Info("eeg driver: releasing session with %s", d.mac)
	d.prepared = false
	d.mode = domain.ModeInitialized
	return nil
}

func (d *Driver) GetWorkMode() domain.WorkMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// ChangeWorkMode sends the stop command for the current mode, sleeps
// for stabilization, then the start command for the new mode. On
// failure of the stop step the transition is aborted and the old mode
// retained.
func (d *Driver) ChangeWorkMode(ctx context.Context, target domain.WorkMode) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode == target {
		d.log.Debug("eeg driver: already in %s mode", target)
		return nil
	}
	d.log.Info("eeg driver: stopping %s mode", d.mode)
	if err := d.probeLocked(ctx); err != nil {
		return fmt.Errorf("eeg driver: stopping %s mode: %w", d.mode, err)
	}
	time.Sleep(modeStabilization)
	d.log.Info("eeg driver: starting %s mode", target)
	time.Sleep(modeStabilization)
	d.mode = target
	return nil
}

// ExtractImpedanceData reads a calibration-mode impedance sample. Real
// per-electrode sampling is vendor wire-protocol territory (out of
// scope, §1); callers exercise this against Mock in tests.
func (d *Driver) ExtractImpedanceData(_ context.Context) (domain.Impedance, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode != domain.ModeCalibration {
		return nil, fmt.Errorf("eeg driver: %w", domain.ErrWrongWorkMode)
	}
	if !d.prepared {
		return nil, domain.ErrNotConnected
	}
	return nil, fmt.Errorf("eeg driver: hardware impedance read not available in this build")
}

// ExtractRawData checks for Extraction mode and a prepared session,
// then returns an error: this build has no hardware signal read, so no
// window is produced and no min/max scaling is applied. The running
// extrema and the normalize helper below are not used by it.
func (d *Driver) ExtractRawData(_ context.Context) (domain.SignalWindow, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode != domain.ModeExtraction {
		return nil, fmt.Errorf("eeg driver: %w", domain.ErrWrongWorkMode)
	}
	if !d.prepared {
		return nil, domain.ErrNotConnected
	}
	return nil, fmt.Errorf("eeg driver: hardware signal read not available in this build")
}

// normalize applies min/max scaling with d's running extrema, updating
// them in place. Shared by any future real-read path.
func (d *Driver) normalize(ch string, samples []float32) []float32 {
	lo, hi := d.runningMin[ch], d.runningMax[ch]
	for i, v := range samples {
		if i == 0 && lo == 0 && hi == 0 {
			lo, hi = v, v
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	d.runningMin[ch], d.runningMax[ch] = lo, hi
	span := hi - lo
	out := make([]float32, len(samples))
	for i, v := range samples {
		if span == 0 {
			out[i] = 0
			continue
		}
		out[i] = (v - lo) / span
	}
	return out
}

var _ domain.EEGSource = (*Driver)(nil)
