package rabbitmq

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IPublisher publishes payloads on a fixed topic.
type IPublisher interface {
	PublishMessage(payload []byte) error
	Topic() string
}

type Publisher struct {
	client   mqtt.Client
	topic    string
	qos      byte
	retained bool
}

// NewPublisher publishes on topic with QoS 0. Retained messages let a
// late subscriber see the last snapshot.
func NewPublisher(client mqtt.Client, topic string, retained bool) *Publisher {
	return &Publisher{client: client, topic: topic, retained: retained}
}

func (p *Publisher) Topic() string { return p.topic }

func (p *Publisher) PublishMessage(payload []byte) error {
	if p.client == nil {
		return fmt.Errorf("publish on %s: no mqtt client", p.topic)
	}
	token := p.client.Publish(p.topic, p.qos, p.retained, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish on %s: %w", p.topic, err)
	}
	return nil
}
