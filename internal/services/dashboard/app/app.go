package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/LeonardoBeccarini/sensor-dashboard/internal/model"
)

// HealthService is the gRPC health service name reported by the dashboard.
const HealthService = "dashboard"

const upstreamName = "historian"

// Config of a Dashboard; zero values fall back to defaults.
type Config struct {
	Title        string
	GraphQLURL   string
	FetchTimeout time.Duration
	AlertPolicy  model.AlertPolicy

	BreakerFailures int
	BreakerOpenFor  time.Duration
	BreakerInterval time.Duration

	Logger    *zap.Logger
	Metrics   *Metrics       // optional
	Health    *health.Server // optional
	Renderers []RenderFunc   // extra render sinks, e.g. the MQTT snapshot publisher
}

// Dashboard owns the current view and remounts it on demand.
type Dashboard struct {
	cfg      Config
	source   Source
	upstream *Upstream
	log      *zap.Logger

	mu   sync.RWMutex
	ctx  context.Context
	view *View
}

// NewDashboard wires the GraphQL upstream, its breaker and the render sinks.
// Nothing is mounted until Start.
func NewDashboard(cfg Config) *Dashboard {
	cfg = withDefaults(cfg)
	cb := NewCircuitBreaker(upstreamName, cfg.BreakerFailures, cfg.BreakerOpenFor, cfg.BreakerInterval,
		func(name string, from, to gobreaker.State) {
			cfg.Logger.Warn("circuit breaker state change",
				zap.String("upstream", name), zap.Stringer("from", from), zap.Stringer("to", to))
			if cfg.Metrics != nil {
				cfg.Metrics.SetBreakerState(name, to)
			}
		})
	up := NewUpstream(upstreamName, cfg.GraphQLURL, cfg.FetchTimeout, cb)
	d := newDashboard(cfg, NewMetricsClient(up))
	d.upstream = up
	return d
}

func newDashboard(cfg Config, src Source) *Dashboard {
	cfg = withDefaults(cfg)
	if cfg.Metrics != nil {
		cfg.Metrics.SetBreakerState(upstreamName, gobreaker.StateClosed)
	}
	return &Dashboard{cfg: cfg, source: src, log: cfg.Logger}
}

func withDefaults(cfg Config) Config {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Title == "" {
		cfg.Title = "Sensor Dashboard"
	}
	if cfg.AlertPolicy == "" {
		cfg.AlertPolicy = model.AlertValidate
	}
	return cfg
}

func (d *Dashboard) Title() string { return d.cfg.Title }

// Start mounts the first view. Views mounted later inherit ctx.
func (d *Dashboard) Start(ctx context.Context) error {
	d.mu.Lock()
	d.ctx = ctx
	d.mu.Unlock()
	_, err := d.Remount()
	return err
}

// Remount disposes of the current view and mounts a fresh one, which issues
// exactly one new query.
func (d *Dashboard) Remount() (*View, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx == nil {
		return nil, errors.New("dashboard not started")
	}
	if d.view != nil {
		d.view.Unmount()
	}

	renderers := append([]RenderFunc{d.logRender}, d.cfg.Renderers...)
	if d.cfg.Metrics != nil {
		renderers = append(renderers, d.cfg.Metrics.Observe)
	}
	v := NewView(d.source, ViewOptions{
		AlertPolicy: d.cfg.AlertPolicy,
		Logger:      d.log,
		Renderers:   renderers,
		OnLoad:      d.onLoad,
	})
	d.view = v
	d.setServing(false)

	if err := v.Mount(d.ctx); err != nil {
		return nil, err
	}
	d.log.Info("dashboard view mounted", zap.String("mount_id", v.ID()))
	return v, nil
}

// View is the currently mounted view, nil before Start.
func (d *Dashboard) View() *View {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.view
}

// Close unmounts the current view.
func (d *Dashboard) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.view != nil {
		d.view.Unmount()
	}
	d.setServing(false)
}

// BreakerState of the upstream; "closed" when the source has no breaker.
func (d *Dashboard) BreakerState() gobreaker.State {
	if d.upstream == nil {
		return gobreaker.StateClosed
	}
	return d.upstream.BreakerState()
}

func (d *Dashboard) onLoad(mountID string, outcome LoadOutcome) {
	if d.cfg.Metrics != nil {
		d.cfg.Metrics.ObserveLoad(mountID, outcome)
	}
	if outcome != LoadOK {
		return
	}
	// Remount and Close flip health under d.mu, so the check and the set
	// must not be split.
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.view != nil && d.view.ID() == mountID && !d.view.Unmounted() {
		d.setServing(true)
	}
}

func (d *Dashboard) setServing(ok bool) {
	if d.cfg.Health == nil {
		return
	}
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	d.cfg.Health.SetServingStatus(HealthService, st)
}

func (d *Dashboard) logRender(mountID string, st model.DisplayState) {
	d.log.Info("dashboard rendered",
		zap.String("mount_id", mountID),
		zap.Any("temperature", st.Temperature),
		zap.Any("humidity", st.Humidity),
		zap.Any("energy", st.Energy),
		zap.String("alerts", st.Alerts),
	)
}
