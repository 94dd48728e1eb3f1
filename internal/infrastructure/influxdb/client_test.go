package influxdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dannybabbev/totem/internal/infrastructure/config"
)

func TestConnectDisabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() with disabled config error = %v, want ErrDisabled", err)
	}
}

func TestCloseNil(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on zero client error = %v, want nil", err)
	}
}

func TestHealthCheckDisconnected(t *testing.T) {
	c := &Client{}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

func TestWritesNoOpWhenDisconnected(t *testing.T) {
	// A disconnected client drops writes instead of panicking on the
	// nil write API.
	c := &Client{}

	c.WriteCommandMetric("face", "set_expression", 3*time.Millisecond, true)
	c.WriteEventMetric("touch", "touched")
	c.WritePoint("custom", map[string]string{"a": "b"}, map[string]interface{}{"v": 1})
	c.Flush()
}

func TestSetOnError(t *testing.T) {
	c := &Client{}
	called := false
	c.SetOnError(func(error) { called = true })

	c.mu.RLock()
	cb := c.onError
	c.mu.RUnlock()
	if cb == nil {
		t.Fatal("onError callback not set")
	}
	cb(errors.New("test"))
	if !called {
		t.Error("callback was not invoked")
	}
}
