package influxdb

import (
	"context"
	"errors"
	"testing"

	"github.com/nvannote/litebridge/internal/infrastructure/config"
)

// These tests cover behaviour that needs no running InfluxDB server:
// the disabled path, state checks, and the no-op guarantees on a
// disconnected client.

// TestConnectDisabled verifies Connect refuses when the integration is off.
func TestConnectDisabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

// TestCloseWithoutConnect verifies Close is safe on a zero-value client.
func TestCloseWithoutConnect(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v, want nil", err)
	}
}

// TestHealthCheckDisconnected verifies the health check fails fast when
// there is no connection.
func TestHealthCheckDisconnected(t *testing.T) {
	c := &Client{}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

// TestWritesDisconnected verifies write helpers are silent no-ops when
// disconnected. A disabled telemetry target must never break an operation.
func TestWritesDisconnected(t *testing.T) {
	c := &Client{}

	c.WriteOperationMetric("data/app.db", "migrate", 0, true)
	c.WriteSchemaVersion("data/app.db", 2)
	c.WritePoint("custom", map[string]string{"k": "v"}, map[string]interface{}{"n": 1})
	c.Flush()

	if c.IsConnected() {
		t.Error("IsConnected() = true for zero-value client")
	}
}
