package app

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LeonardoBeccarini/sensor-dashboard/internal/model"
	"github.com/LeonardoBeccarini/sensor-dashboard/pkg/dedup"
)

type fakePublisher struct {
	err  error
	msgs [][]byte
}

func (p *fakePublisher) PublishMessage(payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, payload)
	return nil
}

func (p *fakePublisher) Topic() string { return "dashboard/snapshot" }

func TestSnapshotPublish(t *testing.T) {
	pub := &fakePublisher{}
	s := NewSnapshotPublisher(pub, dedup.New(time.Minute, 16), nil)
	s.now = func() time.Time { return time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC) }

	s.Publish("mount-1", fullState)
	if len(pub.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(pub.msgs))
	}
	var got Snapshot
	if err := json.Unmarshal(pub.msgs[0], &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.MountID != "mount-1" || got.State != fullState || got.Time != "2024-06-01T08:30:00Z" {
		t.Fatalf("unexpected snapshot %+v", got)
	}
}

func TestSnapshotDedup(t *testing.T) {
	pub := &fakePublisher{}
	s := NewSnapshotPublisher(pub, dedup.New(time.Minute, 16), nil)

	s.Publish("mount-1", fullState)
	s.Publish("mount-2", fullState)
	if len(pub.msgs) != 1 {
		t.Fatalf("identical state must be published once, got %d", len(pub.msgs))
	}

	changed := fullState
	changed.Alerts = "4"
	s.Publish("mount-3", changed)
	if len(pub.msgs) != 2 {
		t.Fatalf("changed state must be published, got %d", len(pub.msgs))
	}
}

func TestSnapshotPublishFailureIsRetriedOnNextRender(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	s := NewSnapshotPublisher(pub, dedup.New(time.Minute, 16), nil)

	s.Publish("mount-1", model.DisplayState{Alerts: "1"})
	pub.err = nil
	s.Publish("mount-2", model.DisplayState{Alerts: "1"})
	if len(pub.msgs) != 1 {
		t.Fatalf("state must be published after a failed attempt, got %d", len(pub.msgs))
	}
}
