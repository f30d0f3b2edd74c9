// Package queue carries notification delivery jobs over RabbitMQ. Email and
// SMS deliveries are queued rather than sent inline so a slow or failing
// provider never stalls request handling.
package queue

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DeliveryQueueName is the durable queue holding pending deliveries
const DeliveryQueueName = "notifications.delivery"

// DeliveryJob is one email or SMS delivery for one notification
type DeliveryJob struct {
	JobID          string `json:"job_id"`
	NotificationID uint   `json:"notification_id"`
	RecipientID    uint   `json:"recipient_id"`
	Method         string `json:"method"` // email or sms
	Address        string `json:"address"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Priority       string `json:"priority"`
	EnqueuedAt     string `json:"enqueued_at"`
}

// normalize fills the job's identity and enqueue time when the caller left
// them empty
func (j *DeliveryJob) normalize() {
	if j.JobID == "" {
		j.JobID = uuid.NewString()
	}
	if j.EnqueuedAt == "" {
		j.EnqueuedAt = time.Now().UTC().Format(time.RFC3339)
	}
}

// DeliveryPublisher enqueues delivery jobs
type DeliveryPublisher interface {
	PublishDelivery(ctx context.Context, job DeliveryJob) error
}

// AMQPPublisher publishes delivery jobs to RabbitMQ over one long-lived
// connection. The connection is dialed lazily and redialed after a broker
// failure; errors are logged and returned so callers can ignore failures
// without interrupting the main request flow.
type AMQPPublisher struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher creates an AMQPPublisher for the given broker URL
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url}
}

// channel returns the live channel, dialing the broker and declaring the
// durable queue when needed. Callers must hold mu.
func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.closeLocked()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if _, err := ch.QueueDeclare(
		DeliveryQueueName, // name
		true,              // durable
		false,             // autoDelete
		false,             // exclusive
		false,             // noWait
		nil,               // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	p.conn = conn
	p.ch = ch
	return ch, nil
}

// PublishDelivery publishes the job as a persistent message. A publish that
// fails on a stale channel is retried once on a fresh connection.
func (p *AMQPPublisher) PublishDelivery(ctx context.Context, job DeliveryJob) error {
	job.normalize()

	body, err := json.Marshal(job)
	if err != nil {
		log.Printf("rabbitmq: marshal job failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    job.JobID,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.publishLocked(ctx, pub)
	if err != nil {
		p.closeLocked()
		err = p.publishLocked(ctx, pub)
	}
	if err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

func (p *AMQPPublisher) publishLocked(ctx context.Context, pub amqp.Publishing) error {
	ch, err := p.channel()
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx,
		"",                // default exchange
		DeliveryQueueName, // routing key = queue name
		false,             // mandatory
		false,             // immediate
		pub,
	)
}

// Close tears down the broker connection
func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
}

func (p *AMQPPublisher) closeLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
