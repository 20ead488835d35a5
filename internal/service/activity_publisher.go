// Package service publishes activity events to RabbitMQ. Publishing is
// best-effort: errors are logged and returned so callers can ignore
// them without interrupting the request.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/learning-mentor/internal/logger"
	"github.com/iliyamo/learning-mentor/internal/model"
	q "github.com/iliyamo/learning-mentor/internal/queue"
)

// PublishTimeout bounds one publish, dial included.
const PublishTimeout = 3 * time.Second

// ActivityPublisher dials the broker for each event. A disabled
// publisher drops events silently.
type ActivityPublisher struct {
	Enabled bool
	URL     string
	Log     *logger.Logger

	now func() time.Time
}

func NewActivityPublisher(enabled bool, url string, log *logger.Logger) *ActivityPublisher {
	return &ActivityPublisher{Enabled: enabled, URL: url, Log: log, now: time.Now}
}

// Publish stamps OccurredAt when empty and sends ev to the activity
// queue as a persistent JSON message.
func (p *ActivityPublisher) Publish(ctx context.Context, ev q.ActivityEvent) error {
	if p == nil || !p.Enabled {
		return nil
	}
	body, err := p.encode(ev)
	if err != nil {
		p.Log.Warn("rabbitmq: marshal event failed", "type", ev.Type, "error", err)
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, PublishTimeout)
	defer cancel()

	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(PublishTimeout),
	})
	if err != nil {
		p.Log.Warn("rabbitmq: dial failed", "type", ev.Type, "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.Warn("rabbitmq: channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(q.ActivityQueue, true, false, false, false, nil); err != nil {
		p.Log.Warn("rabbitmq: queue declare failed", "error", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.ActivityQueue, false, false, pub); err != nil {
		p.Log.Warn("rabbitmq: publish failed", "type", ev.Type, "error", err)
		return err
	}
	return nil
}

func (p *ActivityPublisher) encode(ev q.ActivityEvent) ([]byte, error) {
	if ev.OccurredAt == "" {
		now := time.Now
		if p.now != nil {
			now = p.now
		}
		ev.OccurredAt = model.FormatTime(now())
	}
	return json.Marshal(ev)
}
