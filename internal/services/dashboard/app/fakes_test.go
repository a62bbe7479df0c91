package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/LeonardoBeccarini/sensor-dashboard/internal/model"
)

func fp(v float64) *float64 { return &v }

// fullResult is the decoded form of the reference response used across tests.
func fullResult() model.QueryResult {
	return model.QueryResult{
		Readings: map[model.MetricType]model.Reading{
			model.Temperature: model.Some(model.MetricSummary{Min: fp(10), Avg: fp(15.333), Max: fp(20)}),
			model.Humidity:    model.Some(model.MetricSummary{Min: fp(40), Avg: fp(55), Max: fp(70)}),
			model.Energy:      model.Some(model.MetricSummary{Min: fp(1), Avg: fp(2.5), Max: fp(5)}),
		},
		AlertCount: &model.AlertCount{Count: float64(3)},
	}
}

var fullState = model.DisplayState{
	Temperature: model.MetricDisplay{Min: "10.00", Avg: "15.33", Max: "20.00"},
	Humidity:    model.MetricDisplay{Min: "40.00", Avg: "55.00", Max: "70.00"},
	Energy:      model.MetricDisplay{Min: "1.00", Avg: "2.50", Max: "5.00"},
	Alerts:      "3",
}

type fakeSource struct {
	mu    sync.Mutex
	calls int
	res   model.QueryResult
	err   error

	// block, when set, holds every fetch until closed.
	block chan struct{}
	// ignoreCtx keeps a blocked fetch waiting even after cancellation.
	ignoreCtx bool
}

func (f *fakeSource) FetchMetrics(ctx context.Context) (model.QueryResult, error) {
	f.mu.Lock()
	f.calls++
	block, res, err, ignoreCtx := f.block, f.res, f.err, f.ignoreCtx
	f.mu.Unlock()

	if block != nil {
		if ignoreCtx {
			<-block
		} else {
			select {
			case <-block:
			case <-ctx.Done():
				return model.QueryResult{}, ctx.Err()
			}
		}
	}
	return res, err
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func waitDone(t *testing.T, v *View) {
	t.Helper()
	select {
	case <-v.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("load did not finish")
	}
}

type renderRecorder struct {
	mu     sync.Mutex
	states []model.DisplayState
}

func (r *renderRecorder) Render(_ string, st model.DisplayState) {
	r.mu.Lock()
	r.states = append(r.states, st)
	r.mu.Unlock()
}

func (r *renderRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

type outcomeRecorder struct {
	mu       sync.Mutex
	outcomes []LoadOutcome
}

func (o *outcomeRecorder) OnLoad(_ string, outcome LoadOutcome) {
	o.mu.Lock()
	o.outcomes = append(o.outcomes, outcome)
	o.mu.Unlock()
}

func (o *outcomeRecorder) Last() LoadOutcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.outcomes) == 0 {
		return ""
	}
	return o.outcomes[len(o.outcomes)-1]
}
