package influxdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/flotilla/internal/infrastructure/config"
)

func TestConnect_Disabled(t *testing.T) {
	cfg := config.InfluxDBConfig{Enabled: false}

	client, err := Connect(cfg)
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if client != nil {
		t.Fatal("expected nil client when disabled")
	}
}

func TestWrite_NotConnected(t *testing.T) {
	// Writes on a zero client must be silent no-ops so history
	// recording can call them unconditionally.
	c := &Client{}

	c.WriteStatusTransition("kitchen-sensor", "online", true)
	c.WriteFleetCounts(3, 2)
}

func TestHealthCheck_NotConnected(t *testing.T) {
	c := &Client{}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.HealthCheck(ctx); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}
