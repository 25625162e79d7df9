package repository

import (
	"context"
	"time"

	"jotter/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmotionRepository defines the interface for the emotion catalog and the
// per-user daily tracker.
type EmotionRepository interface {
	Create(ctx context.Context, emotion *models.Emotion) error
	GetByID(ctx context.Context, id uint) (*models.Emotion, error)
	GetBySlug(ctx context.Context, slug string) (*models.Emotion, error)
	List(ctx context.Context) ([]*models.Emotion, error)
	Update(ctx context.Context, id uint, updates map[string]any) error
	Delete(ctx context.Context, id uint) error
	CountTrackerRefs(ctx context.Context, emotionID uint) (int64, error)

	Track(ctx context.Context, userID, emotionID uint, day time.Time, note string) (*models.EmotionTracker, error)
	History(ctx context.Context, userID uint, from, to time.Time, limit, offset int) ([]*models.EmotionTracker, int64, error)
}

type emotionRepository struct {
	db *gorm.DB
}

// NewEmotionRepository creates a new EmotionRepository
func NewEmotionRepository(db *gorm.DB) EmotionRepository {
	return &emotionRepository{db: db}
}

func (r *emotionRepository) Create(ctx context.Context, emotion *models.Emotion) error {
	if err := r.db.WithContext(ctx).Create(emotion).Error; err != nil {
		if isDuplicateKey(err) {
			return models.NewConflictError("An emotion with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *emotionRepository) GetByID(ctx context.Context, id uint) (*models.Emotion, error) {
	var emotion models.Emotion
	if err := r.db.WithContext(ctx).First(&emotion, id).Error; err != nil {
		return nil, translateError(err, "Emotion", id)
	}
	return &emotion, nil
}

func (r *emotionRepository) GetBySlug(ctx context.Context, slug string) (*models.Emotion, error) {
	var emotion models.Emotion
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&emotion).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &emotion, nil
}

func (r *emotionRepository) List(ctx context.Context) ([]*models.Emotion, error) {
	var emotions []*models.Emotion
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&emotions).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return emotions, nil
}

func (r *emotionRepository) Update(ctx context.Context, id uint, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Emotion{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if isDuplicateKey(res.Error) {
			return models.NewConflictError("An emotion with this slug already exists")
		}
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Emotion", id)
	}
	return nil
}

func (r *emotionRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Emotion{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Emotion", id)
	}
	return nil
}

func (r *emotionRepository) CountTrackerRefs(ctx context.Context, emotionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EmotionTracker{}).
		Where("emotion_id = ?", emotionID).Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// Track upserts the user's emotion for the given day. A second track on the
// same day overwrites the earlier one.
func (r *emotionRepository) Track(ctx context.Context, userID, emotionID uint, day time.Time, note string) (*models.EmotionTracker, error) {
	entry := &models.EmotionTracker{
		UserID:    userID,
		EmotionID: emotionID,
		Date:      day,
		Note:      note,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"emotion_id", "note", "updated_at"}),
	}).Create(entry).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var saved models.EmotionTracker
	err = r.db.WithContext(ctx).Preload("Emotion").
		Where("user_id = ? AND date = ?", userID, day).
		First(&saved).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &saved, nil
}

func (r *emotionRepository) History(ctx context.Context, userID uint, from, to time.Time, limit, offset int) ([]*models.EmotionTracker, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.EmotionTracker{}).Where("user_id = ?", userID)
	if !from.IsZero() {
		q = q.Where("date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("date <= ?", to)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var entries []*models.EmotionTracker
	err := q.Preload("Emotion").
		Order("date DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return entries, total, nil
}
