package app

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/sensor-dashboard/internal/model"
)

// ErrAlreadyMounted is returned by a second Mount on the same view.
var ErrAlreadyMounted = errors.New("view already mounted")

// LoadOutcome classifies how a mount's load ended.
type LoadOutcome string

const (
	LoadOK        LoadOutcome = "ok"
	LoadNoData    LoadOutcome = "no_data"
	LoadError     LoadOutcome = "error"
	LoadDiscarded LoadOutcome = "discarded"
)

// RenderFunc is notified once per state assignment with the new state.
type RenderFunc func(mountID string, st model.DisplayState)

type ViewOptions struct {
	AlertPolicy model.AlertPolicy
	Logger      *zap.Logger
	Renderers   []RenderFunc
	OnLoad      func(mountID string, outcome LoadOutcome)
}

// View is the dashboard's display state bound to one mount. It loads
// metrics exactly once, when mounted, and never again.
type View struct {
	id     string
	source Source
	opts   ViewOptions
	log    *zap.Logger

	// renderMu serialises state assignment plus fan-out against Unmount.
	renderMu sync.Mutex

	mu       sync.RWMutex
	state    model.DisplayState
	loaded   bool
	mounted  bool
	disposed bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewView creates an unmounted view with a fresh mount id.
func NewView(source Source, opts ViewOptions) *View {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.AlertPolicy == "" {
		opts.AlertPolicy = model.AlertValidate
	}
	id := uuid.NewString()
	return &View{
		id:     id,
		source: source,
		opts:   opts,
		log:    opts.Logger.With(zap.String("mount_id", id)),
		done:   make(chan struct{}),
	}
}

// ID is the mount id, unique per view.
func (v *View) ID() string { return v.id }

// Mount starts the view's single load. The load runs until it completes,
// ctx ends, or the view is unmounted.
func (v *View) Mount(ctx context.Context) error {
	v.mu.Lock()
	if v.mounted {
		v.mu.Unlock()
		return ErrAlreadyMounted
	}
	v.mounted = true
	ctx, v.cancel = context.WithCancel(ctx)
	v.mu.Unlock()

	v.log.Debug("view mounted")
	go v.loadMetrics(ctx)
	return nil
}

// Unmount cancels an in-flight load; a response arriving afterwards is dropped.
// It waits for a fan-out already in progress, so no renderer sees this view
// after Unmount returns.
func (v *View) Unmount() {
	v.renderMu.Lock()
	v.mu.Lock()
	v.disposed = true
	cancel := v.cancel
	v.mu.Unlock()
	v.renderMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Done is closed once the mount's load has finished, whatever its outcome.
func (v *View) Done() <-chan struct{} { return v.done }

// State returns a copy of the current display state.
func (v *View) State() model.DisplayState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Loaded reports whether a successful response has been applied.
func (v *View) Loaded() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loaded
}

// Unmounted reports whether Unmount has been called.
func (v *View) Unmounted() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.disposed
}

func (v *View) loadMetrics(ctx context.Context) {
	defer close(v.done)

	res, err := v.source.FetchMetrics(ctx)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoData):
			v.log.Warn("dashboard query returned no data", zap.Error(err))
			v.reportLoad(LoadNoData)
		case ctx.Err() != nil:
			v.log.Debug("dashboard load cancelled", zap.Error(err))
			v.reportLoad(LoadDiscarded)
		default:
			v.log.Error("error fetching dashboard data", zap.Error(err))
			v.reportLoad(LoadError)
		}
		return
	}

	next := model.NewDisplayState(res, v.opts.AlertPolicy)

	v.renderMu.Lock()
	v.mu.Lock()
	if v.disposed {
		v.mu.Unlock()
		v.renderMu.Unlock()
		v.log.Debug("dropping response for unmounted view")
		v.reportLoad(LoadDiscarded)
		return
	}
	v.state = next
	v.loaded = true
	v.mu.Unlock()

	for _, render := range v.opts.Renderers {
		render(v.id, next)
	}
	v.renderMu.Unlock()

	v.reportLoad(LoadOK)
}

func (v *View) reportLoad(outcome LoadOutcome) {
	if v.opts.OnLoad != nil {
		v.opts.OnLoad(v.id, outcome)
	}
}
