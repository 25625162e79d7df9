// Package service contains the business rules between the HTTP handlers and
// the repositories.
package service

import (
	"context"
	"encoding/json"

	"jotter/internal/middleware"
	"jotter/internal/models"
	"jotter/internal/notifications"
	"jotter/internal/repository"
)

type NotificationService struct {
	notificationRepo repository.NotificationRepository
	notifier         *notifications.Notifier
}

type ListNotificationsInput struct {
	RecipientID uint
	UnreadOnly  bool
	Limit       int
	Offset      int
}

type RegisterFCMTokenInput struct {
	UserID   uint
	Token    string
	Platform string
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	notifier *notifications.Notifier,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		notifier:         notifier,
	}
}

// Notify persists a notification and publishes it for realtime delivery.
// Persistence is authoritative; a publish failure is logged and swallowed so
// the triggering operation still succeeds.
func (s *NotificationService) Notify(ctx context.Context, n *models.Notification) error {
	// Actors never notify themselves.
	if n.SenderID != nil && *n.SenderID == n.RecipientID {
		return nil
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return err
	}
	if s.notifier != nil {
		payload, err := json.Marshal(n)
		if err == nil {
			err = s.notifier.PublishUser(ctx, n.RecipientID, string(n.Type), string(payload))
		}
		if err != nil {
			middleware.Logger.WarnContext(ctx, "notification publish failed",
				"recipient_id", n.RecipientID, "type", n.Type, "error", err)
		}
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, in ListNotificationsInput) ([]*models.Notification, int64, error) {
	return s.notificationRepo.ListByRecipient(ctx, in.RecipientID, in.UnreadOnly, in.Limit, in.Offset)
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	return s.notificationRepo.UnreadCount(ctx, recipientID)
}

func (s *NotificationService) MarkRead(ctx context.Context, recipientID, id uint) error {
	return s.notificationRepo.MarkRead(ctx, recipientID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	return s.notificationRepo.MarkAllRead(ctx, recipientID)
}

func (s *NotificationService) RegisterFCMToken(ctx context.Context, in RegisterFCMTokenInput) error {
	if in.Token == "" {
		return models.NewValidationError("Token is required")
	}
	switch in.Platform {
	case "", "ios", "android", "web":
		// valid
	default:
		return models.NewValidationError("Invalid platform")
	}
	token := &models.FCMToken{
		UserID:   in.UserID,
		Token:    in.Token,
		Platform: in.Platform,
	}
	return s.notificationRepo.RegisterFCMToken(ctx, token)
}

func (s *NotificationService) RemoveFCMToken(ctx context.Context, userID uint, token string) error {
	if token == "" {
		return models.NewValidationError("Token is required")
	}
	return s.notificationRepo.RemoveFCMToken(ctx, userID, token)
}
