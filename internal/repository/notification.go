package repository

import (
	"context"

	"jotter/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification and FCM token
// operations.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID uint, unreadOnly bool, limit, offset int) ([]*models.Notification, int64, error)
	UnreadCount(ctx context.Context, recipientID uint) (int64, error)
	MarkRead(ctx context.Context, recipientID, id uint) error
	MarkAllRead(ctx context.Context, recipientID uint) (int64, error)

	RegisterFCMToken(ctx context.Context, token *models.FCMToken) error
	RemoveFCMToken(ctx context.Context, userID uint, token string) error
	ListFCMTokens(ctx context.Context, userID uint) ([]*models.FCMToken, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uint, unreadOnly bool, limit, offset int) ([]*models.Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Notification{}).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var notifications []*models.Notification
	err := q.Preload("Sender").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return notifications, total, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// MarkRead flips is_read for a single notification. Scoped to the recipient
// so users cannot touch other users' notifications.
func (r *notificationRepository) MarkRead(ctx context.Context, recipientID, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		UpdateColumn("is_read", true)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		UpdateColumn("is_read", true)
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}

// RegisterFCMToken stores a device token. Re-registering an existing token is
// treated as success so clients can call it on every launch.
func (r *notificationRepository) RegisterFCMToken(ctx context.Context, token *models.FCMToken) error {
	err := r.db.WithContext(ctx).Create(token).Error
	if err != nil {
		if isDuplicateKey(err) {
			// Token exists; reassign to the current user so device handoffs work.
			err := r.db.WithContext(ctx).Model(&models.FCMToken{}).
				Where("token = ?", token.Token).
				UpdateColumn("user_id", token.UserID).Error
			if err != nil {
				return models.NewInternalError(err)
			}
			return nil
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationRepository) RemoveFCMToken(ctx context.Context, userID uint, token string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND token = ?", userID, token).Delete(&models.FCMToken{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Token", 0)
	}
	return nil
}

func (r *notificationRepository) ListFCMTokens(ctx context.Context, userID uint) ([]*models.FCMToken, error) {
	var tokens []*models.FCMToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&tokens).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tokens, nil
}
