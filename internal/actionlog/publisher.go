package actionlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"growth-intel/internal/shared/telemetry"
)

// SubjectPrefix namespaces action events; the action type is appended.
const SubjectPrefix = "growth.actions."

// Publisher fans recorded entries out to realtime consumers.
type Publisher interface {
	Publish(ctx context.Context, entry Entry) error
	Close()
}

// NopPublisher drops every entry.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, entry Entry) error { return nil }
func (NopPublisher) Close()                                         {}

type natsConn interface {
	Publish(subject string, data []byte) error
	Close()
}

// NATSPublisher publishes entries as JSON on SubjectPrefix+actionType.
type NATSPublisher struct {
	conn natsConn
}

// NewNATSPublisher connects to url, retrying in the background if the server is not up yet.
func NewNATSPublisher(url, token string) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("growth-intel"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				telemetry.Warn("nats.disconnected", map[string]any{"error": err})
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			telemetry.Info("nats.reconnected", nil)
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSPublisher{conn: nc}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal action entry: %w", err)
	}
	return p.conn.Publish(SubjectPrefix+entry.ActionType, payload)
}

func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
