// Package service publishes booking audit events to RabbitMQ.  Publishing
// is best effort: failures are logged and returned, and callers never fail
// a booking or refund because of them.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/queue"
)

// Publisher sends booking audit events.
type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, ev q.BookingConfirmedEvent) error
	PublishBookingRefunded(ctx context.Context, ev q.BookingRefundedEvent) error
}

// NopPublisher drops every event.  It is used when the audit queue is
// disabled.
type NopPublisher struct{}

func (NopPublisher) PublishBookingConfirmed(context.Context, q.BookingConfirmedEvent) error { return nil }
func (NopPublisher) PublishBookingRefunded(context.Context, q.BookingRefundedEvent) error   { return nil }

// AMQPPublisher dials the broker for each event.  Bookings are rare enough
// that a long-lived connection is not worth its reconnect handling.
type AMQPPublisher struct {
	URL string
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{URL: url} }

// PublishBookingConfirmed publishes ev to the booking.confirmed queue.
func (p *AMQPPublisher) PublishBookingConfirmed(ctx context.Context, ev q.BookingConfirmedEvent) error {
	return p.publish(ctx, q.QueueBookingConfirmed, ev)
}

// PublishBookingRefunded publishes ev to the booking.refunded queue.
func (p *AMQPPublisher) PublishBookingRefunded(ctx context.Context, ev q.BookingRefundedEvent) error {
	return p.publish(ctx, q.QueueBookingRefunded, ev)
}

// publish declares the durable queue and sends event as a persistent JSON
// message on the default exchange.
func (p *AMQPPublisher) publish(ctx context.Context, queue string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		log.Printf("rabbitmq: queue declare %s failed: %v", queue, err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish to %s failed: %v", queue, err)
		return err
	}
	return nil
}
