// Package events publishes booking lifecycle events to a RabbitMQ topic
// exchange. Delivery problems are surfaced to the caller but callers treat
// publication as best-effort: a booking never fails because the broker is
// down.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	exchangeName = "frontdesk.events"
	exchangeType = "topic"

	EventBookingConfirmed  = "booking.confirmed"
	EventBookingCheckedOut = "booking.checked_out"

	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

type Event struct {
	EventID   string         `json:"event_id"`
	EventType string         `json:"event_type"`
	Timestamp string         `json:"timestamp"`
	Payload   map[string]any `json:"payload"`
}

type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     zerolog.Logger
}

func NewPublisher(url string, log zerolog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		exchangeName,
		exchangeType,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	// publisher confirms so a dropped event is at least visible
	if err := channel.Confirm(false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}

	return &Publisher{conn: conn, channel: channel, log: log}, nil
}

func (p *Publisher) Publish(ctx context.Context, eventType string, payload map[string]any) error {
	ev := Event{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	backoff := initialBackoff
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}

		confirm, err := p.channel.PublishWithDeferredConfirmWithContext(ctx,
			exchangeName,
			eventType, // routing key
			false,     // mandatory
			false,     // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    ev.EventID,
				Timestamp:    time.Now().UTC(),
				Body:         body,
			})
		if err != nil {
			lastErr = err
			continue
		}
		if ok, err := confirm.WaitContext(ctx); err != nil {
			return err
		} else if !ok {
			lastErr = fmt.Errorf("broker nacked event %s", ev.EventID)
			continue
		}

		p.log.Debug().Str("event_id", ev.EventID).Str("type", eventType).Msg("event published")
		return nil
	}
	return fmt.Errorf("publish %s after %d attempts: %w", eventType, maxRetries+1, lastErr)
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Nop is the publisher used when AMQP_URL is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, map[string]any) error { return nil }
