// Package realtime is the best-effort push side channel. Publishers here
// never block request handling on delivery: failures are reported to the
// caller, which logs and moves on. The websocket gateway that fans messages
// out to browsers subscribes to the same Redis channels from its own
// process.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"github.com/civic-connect/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// Pusher delivers a real-time event to a single user
type Pusher interface {
	PushToUser(ctx context.Context, user *models.User, event string, payload interface{}) error
}

// envelope is the wire shape published on a user channel
type envelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// RedisPusher publishes events on the per-user Redis channel user:{id}
type RedisPusher struct {
	client *redis.Client
}

// NewRedisPusher creates a RedisPusher
func NewRedisPusher(client *redis.Client) *RedisPusher {
	return &RedisPusher{client: client}
}

// PushToUser publishes the event on the user's channel
func (p *RedisPusher) PushToUser(ctx context.Context, user *models.User, event string, payload interface{}) error {
	body, err := json.Marshal(envelope{Event: event, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}
	return p.client.Publish(ctx, fmt.Sprintf("user:%d", user.ID), body).Err()
}

// FCMPusher sends a data message to the user's registered device token
type FCMPusher struct {
	client *messaging.Client
}

// NewFCMPusher creates an FCMPusher
func NewFCMPusher(client *messaging.Client) *FCMPusher {
	return &FCMPusher{client: client}
}

// PushToUser sends the event via Firebase Cloud Messaging. Users without a
// device token are skipped without error.
func (p *FCMPusher) PushToUser(ctx context.Context, user *models.User, event string, payload interface{}) error {
	if user.DeviceToken == "" {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}
	_, err = p.client.Send(ctx, &messaging.Message{
		Token: user.DeviceToken,
		Data: map[string]string{
			"event":   event,
			"payload": string(body),
		},
	})
	return err
}

// MultiPusher fans a push out to several transports. It succeeds when at
// least one transport accepted the message.
type MultiPusher struct {
	pushers []Pusher
}

// NewMultiPusher creates a MultiPusher over the given transports
func NewMultiPusher(pushers ...Pusher) *MultiPusher {
	return &MultiPusher{pushers: pushers}
}

// PushToUser tries every transport and returns the last error only if none
// succeeded
func (p *MultiPusher) PushToUser(ctx context.Context, user *models.User, event string, payload interface{}) error {
	if len(p.pushers) == 0 {
		return fmt.Errorf("no push transports configured")
	}
	var lastErr error
	ok := false
	for _, pusher := range p.pushers {
		if err := pusher.PushToUser(ctx, user, event, payload); err != nil {
			lastErr = err
		} else {
			ok = true
		}
	}
	if ok {
		return nil
	}
	return lastErr
}

// NopPusher discards every push. Used when no transport is configured.
type NopPusher struct{}

// PushToUser does nothing
func (NopPusher) PushToUser(context.Context, *models.User, string, interface{}) error {
	return nil
}
