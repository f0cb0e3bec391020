package events

import (
	"errors"
	"testing"

	"github.com/neirth/neuralanalytics-go/internal/domain"
	"github.com/neirth/neuralanalytics-go/internal/logger"
)

func TestInstallThenInstallAgainFails(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	log := logger.New(logger.LevelOff, nil)

	if err := Install(log, func(domain.EventName, domain.EventPayload) error { return nil }); err != nil {
		t.Fatalf("first Install: %v", err)
	}
	if err := Install(log, func(domain.EventName, domain.EventPayload) error { return nil }); !errors.Is(err, domain.ErrSinkAlreadyInstalled) {
		t.Fatalf("expected ErrSinkAlreadyInstalled, got %v", err)
	}
}

func TestPostWithNoSinkInstalledIsNoOp(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	// Should not panic even with no sink installed.
	Post(domain.Event{Name: domain.EventInitializedCore})
}

func TestPostDeliversToInstalledSink(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	log := logger.New(logger.LevelOff, nil)

	var received domain.EventName
	if err := Install(log, func(name domain.EventName, _ domain.EventPayload) error {
		received = name
		return nil
	}); err != nil {
		t.Fatalf("Install: %v", err)
	}

	Post(domain.Event{Name: domain.EventHeadsetConnected})
	if received != domain.EventHeadsetConnected {
		t.Fatalf("expected sink to receive %s, got %s", domain.EventHeadsetConnected, received)
	}
}

func TestPostSwallowsSinkError(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	log := logger.New(logger.LevelOff, nil)

	if err := Install(log, func(domain.EventName, domain.EventPayload) error {
		return errors.New("sink exploded")
	}); err != nil {
		t.Fatalf("Install: %v", err)
	}

	// Must not panic or propagate; best-effort delivery.
	Post(domain.Event{Name: domain.EventHeadsetDisconnected})
}
