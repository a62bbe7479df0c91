package app

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/sensor-dashboard/internal/model"
	"github.com/LeonardoBeccarini/sensor-dashboard/pkg/dedup"
	"github.com/LeonardoBeccarini/sensor-dashboard/pkg/rabbitmq"
)

// Snapshot is the message published for each rendered state.
type Snapshot struct {
	MountID string             `json:"mount_id"`
	State   model.DisplayState `json:"state"`
	Time    string             `json:"time"` // RFC3339
}

// SnapshotPublisher forwards rendered states to MQTT, skipping states
// already published within the deduper's ttl.
type SnapshotPublisher struct {
	pub   rabbitmq.IPublisher
	dedup *dedup.Deduper
	log   *zap.Logger
	now   func() time.Time
}

func NewSnapshotPublisher(pub rabbitmq.IPublisher, d *dedup.Deduper, logger *zap.Logger) *SnapshotPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotPublisher{pub: pub, dedup: d, log: logger, now: time.Now}
}

// Publish is a RenderFunc. Failures are logged only.
func (s *SnapshotPublisher) Publish(mountID string, st model.DisplayState) {
	stateJSON, err := json.Marshal(st)
	if err != nil {
		s.log.Error("snapshot encode failed", zap.Error(err))
		return
	}
	key := dedup.Key(stateJSON)
	if s.dedup != nil && !s.dedup.ShouldProcess(key) {
		s.log.Debug("snapshot unchanged, not published", zap.String("mount_id", mountID))
		return
	}

	msg, err := json.Marshal(Snapshot{
		MountID: mountID,
		State:   st,
		Time:    s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.log.Error("snapshot encode failed", zap.Error(err))
		return
	}
	if err := s.pub.PublishMessage(msg); err != nil {
		if s.dedup != nil {
			s.dedup.Forget(key)
		}
		s.log.Error("snapshot publish failed", zap.String("topic", s.pub.Topic()), zap.Error(err))
		return
	}
	s.log.Info("snapshot published", zap.String("topic", s.pub.Topic()), zap.String("mount_id", mountID))
}
