// Package service holds the application services that sit between the
// handlers and the infrastructure: activity event publishing and catalog
// seeding.
package service

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    q "github.com/iliyamo/movielist/internal/queue"
)

// ActivityPublisher publishes movie activity events.
type ActivityPublisher interface {
    PublishActivity(ctx context.Context, event q.MovieActivityEvent) error
}

// NopPublisher drops every event.  It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishActivity(context.Context, q.MovieActivityEvent) error { return nil }

// AMQPPublisher publishes events to the movie.activity queue on RabbitMQ.
// A connection is opened per event; activity is low-volume and this keeps
// the publisher free of reconnect state.
type AMQPPublisher struct {
    URL         string
    DialTimeout time.Duration
}

// NewAMQPPublisher returns a publisher for url, or NopPublisher when url is empty.
func NewAMQPPublisher(url string) ActivityPublisher {
    if url == "" {
        return NopPublisher{}
    }
    return &AMQPPublisher{URL: url, DialTimeout: 2 * time.Second}
}

// PublishActivity publishes event as a persistent JSON message.  Errors are
// returned so the caller can log and carry on.
func (p *AMQPPublisher) PublishActivity(ctx context.Context, event q.MovieActivityEvent) error {
    body, err := json.Marshal(event)
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }

    conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(p.DialTimeout)})
    if err != nil {
        return fmt.Errorf("rabbitmq dial: %w", err)
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("rabbitmq channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        q.ActivityQueueName, // name
        true,                // durable
        false,               // autoDelete
        false,               // exclusive
        false,               // noWait
        nil,                 // args
    ); err != nil {
        return fmt.Errorf("rabbitmq queue declare: %w", err)
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx,
        "",                  // default exchange
        q.ActivityQueueName, // routing key = queue name
        false,               // mandatory
        false,               // immediate
        pub,
    ); err != nil {
        return fmt.Errorf("rabbitmq publish: %w", err)
    }
    return nil
}

// NewActivityEvent stamps an event with the current UTC time.
func NewActivityEvent(action string, movieID uint64, title string, review *string) q.MovieActivityEvent {
    return q.MovieActivityEvent{
        Action:     action,
        MovieID:    movieID,
        Title:      title,
        Review:     review,
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    }
}
