package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// NatsPublisher публикует события бронирований в NATS.
// Subject события: <prefix>.<type>, например rooms.booking.created
type NatsPublisher struct {
	conn   *nats.Conn
	prefix string
}

// NewNatsPublisher подключается к NATS
func NewNatsPublisher(url string, prefix string, timeout time.Duration) (*NatsPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("room-booking-service"),
		nats.Timeout(timeout),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	return &NatsPublisher{conn: conn, prefix: prefix}, nil
}

// Publish публикует событие; отправка асинхронная, ctx проверяется до отправки
func (p *NatsPublisher) Publish(ctx context.Context, event BookingEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrPublish, event.Type, err)
	}

	if err := p.conn.Publish(subject(p.prefix, event.Type), data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPublish, event.Type, err)
	}

	return nil
}

// Close дожидается отправки буфера и закрывает соединение
func (p *NatsPublisher) Close() error {
	return p.conn.Drain()
}

// NopPublisher используется, когда публикация событий выключена
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, BookingEvent) error { return nil }

func (NopPublisher) Close() error { return nil }

func subject(prefix, eventType string) string {
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}
