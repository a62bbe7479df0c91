package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/LeonardoBeccarini/sensor-dashboard/internal/model"
)

type Config struct {
	Port     string
	GRPCPort string // empty disables the gRPC health server
	Title    string

	GraphQLURL   string
	FetchTimeout time.Duration
	AlertMode    string

	CBFails    int
	CBOpen     time.Duration
	CBInterval time.Duration

	LogLevel  string
	LogFormat string

	// MQTT snapshot publishing, enabled when MQTTHost is set
	MQTTHost      string
	MQTTPort      int
	MQTTUser      string
	MQTTPassword  string
	MQTTClientID  string
	SnapshotTopic string
	SnapshotTTL   time.Duration
}

func getenv(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return d
}

func getenvMs(k string, d int) time.Duration {
	return time.Duration(getenvInt(k, d)) * time.Millisecond
}

// loadConfig reads the environment, after loading .env when present.
func loadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Port:     getenv("PORT", "8080"),
		GRPCPort: strings.TrimSpace(os.Getenv("GRPC_PORT")),
		Title:    getenv("DASHBOARD_TITLE", "Sensor Dashboard"),

		GraphQLURL:   getenv("GRAPHQL_URL", "http://localhost:8000/graphql"),
		FetchTimeout: getenvMs("FETCH_TIMEOUT_MS", 0),
		AlertMode:    getenv("ALERT_COUNT_MODE", string(model.AlertValidate)),

		CBFails:    getenvInt("CB_FAILS", 3),
		CBOpen:     getenvMs("CB_OPEN_MS", 10000),
		CBInterval: getenvMs("CB_INTERVAL_MS", 60000),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),

		MQTTHost:      strings.TrimSpace(os.Getenv("MQTT_HOST")),
		MQTTPort:      getenvInt("MQTT_PORT", 1883),
		MQTTUser:      getenv("MQTT_USER", ""),
		MQTTPassword:  getenv("MQTT_PASSWORD", ""),
		MQTTClientID:  getenv("MQTT_CLIENT_ID", "sensor-dashboard"),
		SnapshotTopic: getenv("MQTT_SNAPSHOT_TOPIC", "dashboard/snapshot"),
		SnapshotTTL:   getenvMs("SNAPSHOT_DEDUP_TTL_MS", 600000),
	}
}

// Validate rejects settings that have no sensible fallback.
func (c Config) Validate() (model.AlertPolicy, error) {
	policy, err := model.ParseAlertPolicy(c.AlertMode)
	if err != nil {
		return "", err
	}
	if c.GraphQLURL == "" {
		return "", fmt.Errorf("GRAPHQL_URL is empty")
	}
	return policy, nil
}
