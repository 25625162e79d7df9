package repository

import (
	"context"
	"errors"

	"jotter/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id uint, updates map[string]any) (*models.User, error)
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return models.NewConflictError("A user with that email or username already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateError(err, "User", id)
	}
	return &user, nil
}

// GetByEmail looks up a user by normalized email. Returns (nil, nil) when no
// such user exists so the caller can distinguish absence from failure.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, id uint, updates map[string]any) (*models.User, error) {
	if len(updates) > 0 {
		err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
		if err != nil {
			if isDuplicateKey(err) {
				return nil, models.NewConflictError("Username already taken")
			}
			return nil, models.NewInternalError(err)
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes the account and every row hanging off it. Follow rows are
// removed with the counterpart users' denormalized counters corrected in
// the same transaction.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Correct counters on the other side of every follow edge.
		if err := tx.Model(&models.User{}).
			Where("id IN (?)", tx.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", id)).
			UpdateColumn("followers_count", gorm.Expr("followers_count - ?", 1)).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).
			Where("id IN (?)", tx.Model(&models.Follow{}).Select("follower_id").Where("following_id = ?", id)).
			UpdateColumn("following_count", gorm.Expr("following_count - ?", 1)).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).
			Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.FCMToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipient_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
