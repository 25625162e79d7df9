package repository

import (
	"context"

	"jotter/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for jot-comment operations.
// Create and Delete keep the parent jot's comments_count in sync inside the
// same transaction as the child row.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.JotComment) error
	GetByID(ctx context.Context, id uint) (*models.JotComment, error)
	ListByJot(ctx context.Context, jotID uint, limit, offset int) ([]*models.JotComment, int64, error)
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.JotComment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Jot{}).Where("id = ?", comment.JotID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1)).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.JotComment, error) {
	var comment models.JotComment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, translateError(err, "Comment", id)
	}
	return &comment, nil
}

func (r *commentRepository) ListByJot(ctx context.Context, jotID uint, limit, offset int) ([]*models.JotComment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.JotComment{}).
		Where("jot_id = ?", jotID).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var comments []*models.JotComment
	err := r.db.WithContext(ctx).Preload("User").
		Where("jot_id = ?", jotID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return comments, total, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.JotComment
		if err := tx.First(&comment, id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.JotComment{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Jot{}).Where("id = ?", comment.JotID).
			UpdateColumn("comments_count", gorm.Expr("comments_count - ?", 1)).Error
	})
	if err != nil {
		return translateError(err, "Comment", id)
	}
	return nil
}
