package repository

import (
	"context"
	"time"

	"jotter/internal/models"

	"gorm.io/gorm"
)

// StoryRepository defines the interface for story operations. Expiry is
// evaluated against the expires_at column at read time; expired stories are
// never returned by the feed but remain rows until their owner deletes them.
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	GetByID(ctx context.Context, id uint) (*models.Story, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Story, error)
	ListActiveFeed(ctx context.Context, userID uint, now time.Time) ([]*models.Story, error)
	Delete(ctx context.Context, id uint) error
	RecordView(ctx context.Context, storyID, viewerID uint) (bool, error)
	ListViews(ctx context.Context, storyID uint, limit, offset int) ([]*models.StoryView, int64, error)
}

type storyRepository struct {
	db *gorm.DB
}

// NewStoryRepository creates a new StoryRepository
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(ctx context.Context, story *models.Story) error {
	if err := r.db.WithContext(ctx).Create(story).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *storyRepository) GetByID(ctx context.Context, id uint) (*models.Story, error) {
	var story models.Story
	if err := r.db.WithContext(ctx).Preload("User").First(&story, id).Error; err != nil {
		return nil, translateError(err, "Story", id)
	}
	return &story, nil
}

// ListByUser returns all of a user's stories, expired included, so owners
// can review and delete past stories.
func (r *storyRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Story, error) {
	var stories []*models.Story
	err := r.db.WithContext(ctx).Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&stories).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return stories, nil
}

// ListActiveFeed returns unexpired stories from users the viewer follows,
// plus the viewer's own, newest first.
func (r *storyRepository) ListActiveFeed(ctx context.Context, userID uint, now time.Time) ([]*models.Story, error) {
	followed := r.db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", userID)

	var stories []*models.Story
	err := r.db.WithContext(ctx).Preload("User").
		Where("(user_id IN (?) OR user_id = ?) AND expires_at > ?", followed, userID, now).
		Order("created_at DESC").
		Find(&stories).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return stories, nil
}

func (r *storyRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("story_id = ?", id).Delete(&models.StoryView{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Story{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// RecordView inserts a view row and bumps views_count once per viewer. A
// repeat view from the same user is a no-op and returns false.
func (r *storyRepository) RecordView(ctx context.Context, storyID, viewerID uint) (bool, error) {
	recorded := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		view := &models.StoryView{StoryID: storyID, ViewerID: viewerID}
		if err := tx.Create(view).Error; err != nil {
			if isDuplicateKey(err) {
				return nil
			}
			return err
		}
		recorded = true
		return tx.Model(&models.Story{}).Where("id = ?", storyID).
			UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return recorded, nil
}

func (r *storyRepository) ListViews(ctx context.Context, storyID uint, limit, offset int) ([]*models.StoryView, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.StoryView{}).
		Where("story_id = ?", storyID).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var views []*models.StoryView
	err := r.db.WithContext(ctx).Preload("Viewer").
		Where("story_id = ?", storyID).
		Order("viewed_at DESC").
		Limit(limit).Offset(offset).
		Find(&views).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return views, total, nil
}
