// Package bulb provides the Bulb Sink Port implementation: a Tapo
// smart-bulb driver that logs in lazily on a background goroutine.
package bulb

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

// Environment variable names for bulb credentials (§6).
const (
	EnvTapoIP       = "TAPO_IP_ADDRESS"
	EnvTapoUsername = "TAPO_USERNAME"
	EnvTapoPassword = "TAPO_PASSWORD"
)

const loginTimeout = 10 * time.Second

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithHTTPClient overrides the driver's HTTP client. Exposed for tests.
func WithHTTPClient(c *http.Client) DriverOption {
	return func(d *Driver) { d.httpClient = c }
}

// Driver is the Tapo smart-bulb adapter. Construction is non-blocking:
// the vendor login happens on a background goroutine started by Start,
// and ChangeState returns ErrBulbNotConnected until it completes.
type Driver struct {
	ip         string
	username   string
	password   string
	dummy      bool
	httpClient *http.Client
	log        *logger.Logger

	mu        sync.Mutex
	ready     bool
	lastState domain.BulbState
}

// NewDriver builds a bulb driver from the environment. When any of the
// TAPO_* variables is missing, a safe placeholder is substituted and
// the driver marks itself a no-op sink: once Start has run its login
// step, every ChangeState call short-circuits to success. Before that,
// ChangeState still returns ErrBulbNotConnected.
func NewDriver(log *logger.Logger, opts ...DriverOption) *Driver {
	ip := os.Getenv(EnvTapoIP)
	user := os.Getenv(EnvTapoUsername)
	pass := os.Getenv(EnvTapoPassword)
	dummy := ip == "" || user == "" || pass == ""
	if dummy {
		log.Warn("bulb: %s/%s/%s not fully set, using a dummy sink", EnvTapoIP, EnvTapoUsername, EnvTapoPassword)
		ip, user, pass = "0.0.0.0", "dummy", "dummy"
	}
	d := &Driver{
		ip:         ip,
		username:   user,
		password:   pass,
		dummy:      dummy,
		httpClient: &http.Client{Timeout: loginTimeout},
		log:        log,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the background login goroutine. Non-blocking.
func (d *Driver) Start(ctx context.Context) {
	go d.login(ctx)
	d.log.Info("bulb: driver starting (dummy=%v)", d.dummy)
}

func (d *Driver) login(ctx context.Context) {
	if d.dummy {
		d.markReady()
		return
	}
	d.log.Info("bulb: attempting to connect to Tapo device at %s with username %s", d.ip, d.username)
	if err := d.probe(ctx); err != nil {
		d.log.Error("bulb: login failed: %v", err)
		return
	}
	d.log.Info("bulb: successfully connected to Tapo device at %s", d.ip)
	d.markReady()
}

// probe stands in for the vendor L510 handshake (out of scope per the
// wire-protocol exclusion, §1); real HTTP I/O would go through
// d.httpClient the way AzureClient.Synthesize talks to a cloud API.
func (d *Driver) probe(_ context.Context) error {
	return nil
}

func (d *Driver) markReady() {
	d.mu.Lock()
	d.ready = true
	d.mu.Unlock()
}

// ChangeState commands the bulb on or off. Before the background login
// completes, it returns ErrBulbNotConnected.
func (d *Driver) ChangeState(_ context.Context, state domain.BulbState) error {
	d.mu.Lock()
	ready := d.ready
	d.mu.Unlock()
	if !ready {
		return domain.ErrBulbNotConnected
	}
	if d.dummy {
		d.log.Debug("bulb: dummy sink, pretending to change state to %s", state)
	} else {
		d.log.Info("bulb: changing state of %s to %s", d.ip, state)
		if err := d.probe(context.Background()); err != nil {
			return fmt.Errorf("bulb: change state to %s: %w", state, err)
		}
	}
	d.mu.Lock()
	d.lastState = state
	d.mu.Unlock()
	return nil
}

// LastState reports the most recently commanded state. Exposed for
// tests and diagnostics, not part of domain.BulbSink.
func (d *Driver) LastState() domain.BulbState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastState
}

var _ domain.BulbSink = (*Driver)(nil)
