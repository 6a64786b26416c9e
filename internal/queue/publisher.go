package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// dialTimeout keeps a down broker from stalling the request that
// triggered the event.
const dialTimeout = 2 * time.Second

// Publisher sends domain events to RabbitMQ. Each call dials its own
// connection so the server holds no long-lived broker state; errors are
// logged and returned so the caller can choose to ignore them.
type Publisher struct {
	URL string
	Log *zap.Logger
}

func NewPublisher(url string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{URL: url, Log: log}
}

// PublishUserRegistered publishes ev to the user.registered queue as a
// persistent JSON message.
func (p *Publisher) PublishUserRegistered(ctx context.Context, ev UserRegisteredEvent) error {
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		p.Log.Warn("rabbitmq: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.Warn("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		UserRegisteredQueue, // name
		true,                // durable
		false,               // autoDelete
		false,               // exclusive
		false,               // noWait
		nil,                 // args
	); err != nil {
		p.Log.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", UserRegisteredQueue, false, false, pub); err != nil {
		p.Log.Warn("rabbitmq: publish failed", zap.Error(err), zap.String("event_id", ev.EventID))
		return err
	}
	return nil
}
