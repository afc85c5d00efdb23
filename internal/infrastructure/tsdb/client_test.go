package tsdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/jablotron-bridge/internal/infrastructure/config"
)

func TestConnect_Disabled(t *testing.T) {
	cfg := config.InfluxDBConfig{
		Enabled: false,
		URL:     "http://localhost:8086",
		Token:   "test-token",
	}

	client, err := Connect(cfg)
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want %v", err, ErrDisabled)
	}
	if client != nil {
		t.Error("Connect() returned non-nil client for disabled config")
	}
}

func TestConnect_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network timeout test in short mode")
	}

	cfg := config.InfluxDBConfig{
		Enabled: true,
		URL:     "http://127.0.0.1:1", // nothing listens here
		Token:   "test-token",
		Org:     "home",
		Bucket:  "jablotron",
	}

	client, err := Connect(cfg)
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want %v", err, ErrConnectionFailed)
	}
	if client != nil {
		t.Error("Connect() returned non-nil client for unreachable server")
	}
}

func TestClose_NeverConnected(t *testing.T) {
	var c *Client
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil client = %v, want nil", err)
	}

	c = &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on zero client = %v, want nil", err)
	}
}

func TestHealthCheck_NotConnected(t *testing.T) {
	c := &Client{}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want %v", err, ErrNotConnected)
	}
}

func TestWrites_NoOpWhenDisconnected(t *testing.T) {
	// Writes on a disconnected client must be silently dropped,
	// never panic or block the poll loop.
	c := &Client{}

	c.WriteTemperature(1234567, "THM-123456789", 21.5, time.Now())
	c.WritePoint("temperature", map[string]string{"device_id": "THM-1"}, map[string]interface{}{"celsius": 20.0})
	c.Flush()
}

func TestSetOnError(t *testing.T) {
	c := &Client{}

	called := false
	c.SetOnError(func(err error) { called = true })

	errorsCh := make(chan error, 1)
	errorsCh <- errors.New("write rejected")
	close(errorsCh)

	c.handleWriteErrors(errorsCh)
	if !called {
		t.Error("onError callback not invoked for async write error")
	}
}
