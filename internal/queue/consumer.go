package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/civic-connect/backend/internal/models"
	"github.com/civic-connect/backend/internal/repositories"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Sender performs one email or SMS delivery
type Sender interface {
	Send(job DeliveryJob) error
}

// LogSender writes deliveries to the process log instead of an external
// provider. TODO: replace with SMTP/SMS gateway transports once provider
// credentials are provisioned.
type LogSender struct{}

// Send logs the delivery
func (LogSender) Send(job DeliveryJob) error {
	log.Printf("[%s] to=%d address=%q title=%q", job.Method, job.RecipientID, job.Address, job.Title)
	return nil
}

// StartDeliveryConsumer connects to RabbitMQ, declares the durable delivery
// queue and consumes jobs, marking each notification's delivery method sent
// or failed. It runs a reconnect loop with backoff and never returns under
// normal operation; bad messages are rejected without requeue so a poison
// message cannot wedge the queue.
func StartDeliveryConsumer(url string, notifications repositories.NotificationRepository, sender Sender) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("delivery-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, notifications, sender); err != nil {
			log.Printf("delivery-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, notifications repositories.NotificationRepository, sender Sender) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("delivery-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(DeliveryQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(DeliveryQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleDelivery(d.Body, notifications, sender); err != nil {
			log.Printf("delivery-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleDelivery(body []byte, notifications repositories.NotificationRepository, sender Sender) error {
	var job DeliveryJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	status := models.DeliverySent
	errMsg := ""
	if sendErr := sender.Send(job); sendErr != nil {
		log.Printf("delivery-consumer: %s delivery for notification %d failed: %v", job.Method, job.NotificationID, sendErr)
		status = models.DeliveryFailed
		errMsg = sendErr.Error()
	}

	// A send failure is still a handled message once the outcome is recorded
	if err := markDelivery(notifications, job, status, errMsg); err != nil {
		return fmt.Errorf("mark delivery: %w", err)
	}
	return nil
}

// markDelivery records the outcome on the notification's delivery method
func markDelivery(notifications repositories.NotificationRepository, job DeliveryJob, status, errMsg string) error {
	notification, err := notifications.GetForRecipient(job.NotificationID, job.RecipientID)
	if err != nil {
		return err
	}

	state := notification.MethodState(job.Method)
	if state == nil {
		return fmt.Errorf("notification %d has no %s delivery method", job.NotificationID, job.Method)
	}
	now := time.Now()
	state.Status = status
	state.SentAt = &now
	state.Error = errMsg

	return notifications.UpdateDeliveryMethods(notification.ID, notification.DeliveryMethods)
}
