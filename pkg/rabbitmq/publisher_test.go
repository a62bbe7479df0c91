package rabbitmq

import (
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t doneToken) Error() error { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// recordingClient overrides Publish; any other method panics on the nil embedded client.
type recordingClient struct {
	mqtt.Client
	err  error
	sent []published
}

func (c *recordingClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.sent = append(c.sent, published{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	return doneToken{err: c.err}
}

func TestPublishMessage(t *testing.T) {
	c := &recordingClient{}
	p := NewPublisher(c, "dashboard/snapshot", true)

	if err := p.PublishMessage([]byte(`{"alerts":"3"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.sent) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(c.sent))
	}
	got := c.sent[0]
	if got.topic != "dashboard/snapshot" || !got.retained || got.qos != 0 {
		t.Fatalf("unexpected publish %+v", got)
	}
	if string(got.payload) != `{"alerts":"3"}` {
		t.Fatalf("unexpected payload %s", got.payload)
	}
}

func TestPublishMessageError(t *testing.T) {
	boom := errors.New("broker gone")
	p := NewPublisher(&recordingClient{err: boom}, "dashboard/snapshot", false)
	if err := p.PublishMessage([]byte("x")); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped broker error, got %v", err)
	}
}

func TestPublishMessageNoClient(t *testing.T) {
	p := NewPublisher(nil, "dashboard/snapshot", false)
	if err := p.PublishMessage([]byte("x")); err == nil {
		t.Fatal("expected error without client")
	}
}
