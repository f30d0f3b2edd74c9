package services

import (
	"context"
	"log"
	"time"

	"github.com/civic-connect/backend/internal/models"
	"github.com/civic-connect/backend/internal/queue"
	"github.com/civic-connect/backend/internal/realtime"
	"github.com/civic-connect/backend/internal/repositories"
)

// NotificationService is the dispatcher: it selects delivery methods from
// the recipient's preferences, persists the notification, pushes the in-app
// copy in real time and queues email/SMS deliveries. Push and queue
// failures are advisory: they are logged and never surfaced to callers.
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	pusher        realtime.Pusher
	publisher     queue.DeliveryPublisher
}

// NewNotificationService creates a NotificationService
func NewNotificationService(
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	pusher realtime.Pusher,
	publisher queue.DeliveryPublisher,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		pusher:        pusher,
		publisher:     publisher,
	}
}

// Notify creates and dispatches a notification to one recipient. The in-app
// method is selected unless the recipient disabled it; email and SMS are
// opt-in. Every selected method starts pending; in-app flips to sent once
// the real-time push succeeds, and stays pending otherwise.
func (s *NotificationService) Notify(ctx context.Context, recipientID uint, data models.NotificationData) (*models.Notification, error) {
	user, err := s.users.GetUserByID(recipientID)
	if err != nil {
		return nil, err
	}

	var methods []models.DeliveryMethod
	if user.NotifyInApp {
		methods = append(methods, models.DeliveryMethod{Method: models.MethodInApp, Status: models.DeliveryPending})
	}
	if user.NotifyEmail {
		methods = append(methods, models.DeliveryMethod{Method: models.MethodEmail, Status: models.DeliveryPending})
	}
	if user.NotifySMS {
		methods = append(methods, models.DeliveryMethod{Method: models.MethodSMS, Status: models.DeliveryPending})
	}

	priority := data.Priority
	if priority == "" {
		priority = models.NotifyPriorityNormal
	}

	notification := &models.Notification{
		RecipientID:     recipientID,
		Type:            data.Type,
		Title:           data.Title,
		Message:         data.Message,
		EntityType:      data.EntityType,
		EntityID:        data.EntityID,
		URL:             data.URL,
		DeliveryMethods: methods,
		Priority:        priority,
	}
	if err := s.notifications.CreateNotification(notification); err != nil {
		return nil, err
	}

	s.pushInApp(ctx, user, notification)
	s.queueDeliveries(ctx, user, notification)

	return notification, nil
}

// pushInApp sends the real-time copy and marks the in-app method sent on
// success. Failure is logged; the method stays pending.
func (s *NotificationService) pushInApp(ctx context.Context, user *models.User, notification *models.Notification) {
	state := notification.MethodState(models.MethodInApp)
	if state == nil {
		return
	}

	err := s.pusher.PushToUser(ctx, user, "notification", map[string]interface{}{
		"id":         notification.ID,
		"type":       notification.Type,
		"title":      notification.Title,
		"message":    notification.Message,
		"created_at": notification.CreatedAt,
	})
	if err != nil {
		log.Printf("notification push to user %d failed: %v", user.ID, err)
		return
	}

	now := time.Now()
	state.Status = models.DeliverySent
	state.SentAt = &now
	if err := s.notifications.UpdateDeliveryMethods(notification.ID, notification.DeliveryMethods); err != nil {
		log.Printf("marking in-app delivery sent for notification %d failed: %v", notification.ID, err)
	}
}

// queueDeliveries enqueues one job per selected email/SMS method
func (s *NotificationService) queueDeliveries(ctx context.Context, user *models.User, notification *models.Notification) {
	for _, m := range notification.DeliveryMethods {
		var address string
		switch m.Method {
		case models.MethodEmail:
			address = user.Email
		case models.MethodSMS:
			address = user.Phone
		default:
			continue
		}

		job := queue.DeliveryJob{
			NotificationID: notification.ID,
			RecipientID:    user.ID,
			Method:         m.Method,
			Address:        address,
			Title:          notification.Title,
			Message:        notification.Message,
			Priority:       notification.Priority,
		}
		if err := s.publisher.PublishDelivery(ctx, job); err != nil {
			log.Printf("queueing %s delivery for notification %d failed: %v", m.Method, notification.ID, err)
		}
	}
}

// BulkNotify dispatches to each recipient independently. A failure for one
// recipient is skipped silently; only the successes are returned.
func (s *NotificationService) BulkNotify(ctx context.Context, recipientIDs []uint, data models.NotificationData) []models.Notification {
	var sent []models.Notification
	for _, id := range recipientIDs {
		notification, err := s.Notify(ctx, id, data)
		if err != nil {
			log.Printf("bulk notify: skipping recipient %d: %v", id, err)
			continue
		}
		sent = append(sent, *notification)
	}
	return sent
}

// NotifySubscribers resolves the active users subscribed to the category at
// call time and fans out to them. This is a point-in-time fan-out, not a
// durable topic subscription.
func (s *NotificationService) NotifySubscribers(ctx context.Context, category string, data models.NotificationData) ([]models.Notification, error) {
	subscribers, err := s.users.FindActiveSubscribers(category)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(subscribers))
	for _, u := range subscribers {
		ids = append(ids, u.ID)
	}
	return s.BulkNotify(ctx, ids, data), nil
}

// SweepExpired deletes notifications past their expiry
func (s *NotificationService) SweepExpired() {
	n, err := s.notifications.DeleteExpired(time.Now())
	if err != nil {
		log.Printf("notification expiry sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("notification expiry sweep removed %d rows", n)
	}
}
