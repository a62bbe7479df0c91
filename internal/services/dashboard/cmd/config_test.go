package main

import (
	"testing"
	"time"

	"github.com/LeonardoBeccarini/sensor-dashboard/internal/model"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "GRPC_PORT", "GRAPHQL_URL", "FETCH_TIMEOUT_MS", "ALERT_COUNT_MODE", "CB_FAILS", "MQTT_HOST"} {
		t.Setenv(k, "")
	}
	cfg := loadConfig()

	if cfg.Port != "8080" || cfg.GRPCPort != "" {
		t.Fatalf("ports = %q/%q", cfg.Port, cfg.GRPCPort)
	}
	if cfg.GraphQLURL != "http://localhost:8000/graphql" {
		t.Fatalf("graphql url = %q", cfg.GraphQLURL)
	}
	if cfg.FetchTimeout != 0 {
		t.Fatalf("fetch timeout must default to none, got %s", cfg.FetchTimeout)
	}
	if cfg.CBFails != 3 || cfg.CBOpen != 10*time.Second {
		t.Fatalf("breaker defaults = %d/%s", cfg.CBFails, cfg.CBOpen)
	}
	if cfg.MQTTHost != "" {
		t.Fatalf("mqtt must be disabled by default, got %q", cfg.MQTTHost)
	}
	if p, err := cfg.Validate(); err != nil || p != model.AlertValidate {
		t.Fatalf("validate = %q, %v", p, err)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("GRAPHQL_URL", "http://historian:8000/graphql")
	t.Setenv("FETCH_TIMEOUT_MS", "2500")
	t.Setenv("ALERT_COUNT_MODE", "raw")
	t.Setenv("CB_FAILS", "not-a-number")
	t.Setenv("GRPC_PORT", "50051")

	cfg := loadConfig()
	if cfg.GraphQLURL != "http://historian:8000/graphql" {
		t.Fatalf("graphql url = %q", cfg.GraphQLURL)
	}
	if cfg.FetchTimeout != 2500*time.Millisecond {
		t.Fatalf("fetch timeout = %s", cfg.FetchTimeout)
	}
	if cfg.CBFails != 3 {
		t.Fatalf("invalid int must fall back to default, got %d", cfg.CBFails)
	}
	if cfg.GRPCPort != "50051" {
		t.Fatalf("grpc port = %q", cfg.GRPCPort)
	}
	if p, err := cfg.Validate(); err != nil || p != model.AlertRaw {
		t.Fatalf("validate = %q, %v", p, err)
	}
}

func TestValidateRejectsUnknownAlertMode(t *testing.T) {
	t.Setenv("ALERT_COUNT_MODE", "coerce")
	if _, err := loadConfig().Validate(); err == nil {
		t.Fatal("expected error for unknown alert mode")
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := newLogger("debug", format)
		if err != nil || l == nil {
			t.Fatalf("%s logger: %v", format, err)
		}
	}
	if _, err := newLogger("loud", "json"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
