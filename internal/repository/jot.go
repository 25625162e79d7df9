package repository

import (
	"context"
	"errors"

	"jotter/internal/models"

	"gorm.io/gorm"
)

// JotRepository defines the interface for jot and reaction data operations.
type JotRepository interface {
	Create(ctx context.Context, jot *models.Jot) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Jot, error)
	ListFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Jot, int64, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Jot, int64, error)
	Delete(ctx context.Context, id uint) error

	GetReaction(ctx context.Context, jotID, userID uint) (*models.JotReaction, error)
	React(ctx context.Context, reaction *models.JotReaction) error
	Unreact(ctx context.Context, jotID, userID uint) error
	ListReactions(ctx context.Context, jotID uint) ([]*models.JotReaction, error)
}

type jotRepository struct {
	db *gorm.DB
}

// NewJotRepository creates a new jot repository
func NewJotRepository(db *gorm.DB) JotRepository {
	return &jotRepository{db: db}
}

func (r *jotRepository) Create(ctx context.Context, jot *models.Jot) error {
	if err := r.db.WithContext(ctx).Create(jot).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *jotRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Jot, error) {
	var jot models.Jot
	if err := r.db.WithContext(ctx).Preload("User").First(&jot, id).Error; err != nil {
		return nil, translateError(err, "Jot", id)
	}
	if currentUserID != 0 {
		r.fillReactedWith(ctx, []*models.Jot{&jot}, currentUserID)
	}
	return &jot, nil
}

func (r *jotRepository) ListFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Jot, int64, error) {
	authorIDs := r.db.WithContext(ctx).Model(&models.Follow{}).
		Select("following_id").Where("follower_id = ?", userID)

	base := r.db.WithContext(ctx).Model(&models.Jot{}).
		Where("user_id IN (?) OR user_id = ?", authorIDs, userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var jots []*models.Jot
	err := r.db.WithContext(ctx).Preload("User").
		Where("user_id IN (?) OR user_id = ?", authorIDs, userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&jots).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	r.fillReactedWith(ctx, jots, userID)
	return jots, total, nil
}

func (r *jotRepository) ListByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Jot, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Jot{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var jots []*models.Jot
	err := r.db.WithContext(ctx).Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&jots).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	if currentUserID != 0 {
		r.fillReactedWith(ctx, jots, currentUserID)
	}
	return jots, total, nil
}

func (r *jotRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("jot_id = ?", id).Delete(&models.JotReaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("jot_id = ?", id).Delete(&models.JotComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Jot{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetReaction returns the caller's reaction on a jot, or (nil, nil) when
// there is none.
func (r *jotRepository) GetReaction(ctx context.Context, jotID, userID uint) (*models.JotReaction, error) {
	var reaction models.JotReaction
	err := r.db.WithContext(ctx).
		Where("jot_id = ? AND user_id = ?", jotID, userID).
		First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &reaction, nil
}

// React inserts the reaction row and bumps the jot's reactions_count in one
// transaction. A racing duplicate rolls both back and surfaces a conflict.
func (r *jotRepository) React(ctx context.Context, reaction *models.JotReaction) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reaction).Error; err != nil {
			return err
		}
		return tx.Model(&models.Jot{}).Where("id = ?", reaction.JotID).
			UpdateColumn("reactions_count", gorm.Expr("reactions_count + ?", 1)).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return models.NewConflictError("Already reacted to this jot")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Unreact removes the caller's reaction and decrements the counter only when
// a row was actually deleted.
func (r *jotRepository) Unreact(ctx context.Context, jotID, userID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("jot_id = ? AND user_id = ?", jotID, userID).
			Delete(&models.JotReaction{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Jot{}).Where("id = ?", jotID).
			UpdateColumn("reactions_count", gorm.Expr("reactions_count - ?", 1)).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *jotRepository) ListReactions(ctx context.Context, jotID uint) ([]*models.JotReaction, error) {
	var reactions []*models.JotReaction
	err := r.db.WithContext(ctx).Preload("User").
		Where("jot_id = ?", jotID).
		Order("created_at DESC").
		Find(&reactions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reactions, nil
}

// fillReactedWith annotates jots with the requesting user's reaction kind.
// Best-effort: a failure here only loses the annotation.
func (r *jotRepository) fillReactedWith(ctx context.Context, jots []*models.Jot, userID uint) {
	if len(jots) == 0 || userID == 0 {
		return
	}
	ids := make([]uint, len(jots))
	for i, j := range jots {
		ids[i] = j.ID
	}
	var reactions []models.JotReaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND jot_id IN ?", userID, ids).
		Find(&reactions).Error; err != nil {
		return
	}
	byJot := make(map[uint]models.ReactionKind, len(reactions))
	for _, rx := range reactions {
		byJot[rx.JotID] = rx.Kind
	}
	for _, j := range jots {
		j.ReactedWith = byJot[j.ID]
	}
}
