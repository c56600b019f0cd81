package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
)

var ErrNotConnected = errors.New("nats connection is not established")

// NATSPublisher publishes events as JSON on <prefix>.<event type>.
type NATSPublisher struct {
	nc     *nats.Conn
	prefix string
}

func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("postboard-api"))
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSPublisher{nc: nc, prefix: prefix}, nil
}

func (p *NATSPublisher) Subject(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "." + eventType
}

func (p *NATSPublisher) Publish(_ context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.nc.Publish(p.Subject(event.Type), data)
}

func (p *NATSPublisher) IsConnected() bool {
	return p.nc != nil && p.nc.Status() == nats.CONNECTED
}

// Check reports ErrNotConnected while the connection is down or reconnecting.
func (p *NATSPublisher) Check() error {
	if !p.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	_ = p.nc.Drain()
}
