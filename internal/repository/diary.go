package repository

import (
	"context"

	"jotter/internal/models"

	"gorm.io/gorm"
)

// DiaryRepository defines the interface for diary and diary-entry operations.
// Entry tags are resolved (find-or-create per owner) inside the same
// transaction that writes the entry, so an over-limit tag list leaves nothing
// behind.
type DiaryRepository interface {
	CreateDiary(ctx context.Context, diary *models.Diary) error
	GetDiaryByID(ctx context.Context, id uint) (*models.Diary, error)
	ListDiariesByUser(ctx context.Context, userID uint, publicOnly bool, limit, offset int) ([]*models.Diary, int64, error)
	ListPublicDiaries(ctx context.Context, limit, offset int) ([]*models.Diary, int64, error)
	UpdateDiary(ctx context.Context, id uint, updates map[string]any) error
	DeleteDiary(ctx context.Context, id uint) error

	CreateEntry(ctx context.Context, entry *models.DiaryEntry, tagNames []string) error
	GetEntryByID(ctx context.Context, id uint) (*models.DiaryEntry, error)
	ListEntries(ctx context.Context, diaryID uint, limit, offset int) ([]*models.DiaryEntry, int64, error)
	UpdateEntry(ctx context.Context, entry *models.DiaryEntry, updates map[string]any, tagNames *[]string) error
	DeleteEntry(ctx context.Context, id uint) error

	ListTagsByUser(ctx context.Context, userID uint) ([]*models.Tag, error)
	ListEntriesByTag(ctx context.Context, userID, tagID uint, limit, offset int) ([]*models.DiaryEntry, int64, error)
}

type diaryRepository struct {
	db *gorm.DB
}

// NewDiaryRepository creates a new DiaryRepository
func NewDiaryRepository(db *gorm.DB) DiaryRepository {
	return &diaryRepository{db: db}
}

func (r *diaryRepository) CreateDiary(ctx context.Context, diary *models.Diary) error {
	if err := r.db.WithContext(ctx).Create(diary).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *diaryRepository) GetDiaryByID(ctx context.Context, id uint) (*models.Diary, error) {
	var diary models.Diary
	if err := r.db.WithContext(ctx).Preload("User").First(&diary, id).Error; err != nil {
		return nil, translateError(err, "Diary", id)
	}
	return &diary, nil
}

func (r *diaryRepository) ListDiariesByUser(ctx context.Context, userID uint, publicOnly bool, limit, offset int) ([]*models.Diary, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Diary{}).Where("user_id = ?", userID)
	if publicOnly {
		q = q.Where("is_public = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var diaries []*models.Diary
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&diaries).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return diaries, total, nil
}

// ListPublicDiaries is the site-wide browse feed of public diaries.
func (r *diaryRepository) ListPublicDiaries(ctx context.Context, limit, offset int) ([]*models.Diary, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Diary{}).Where("is_public = ?", true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var diaries []*models.Diary
	err := r.db.WithContext(ctx).Preload("User").
		Where("is_public = ?", true).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&diaries).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return diaries, total, nil
}

func (r *diaryRepository) UpdateDiary(ctx context.Context, id uint, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Diary{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Diary", id)
	}
	return nil
}

func (r *diaryRepository) DeleteDiary(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entryIDs := tx.Model(&models.DiaryEntry{}).Select("id").Where("diary_id = ?", id)
		if err := tx.Where("entry_id IN (?)", entryIDs).Delete(&models.DiaryEntryTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("diary_id = ?", id).Delete(&models.DiaryEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Diary{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// resolveTags finds or creates tags owned by userID for the given normalized
// names. Must run inside the caller's transaction.
func resolveTags(tx *gorm.DB, userID uint, names []string) ([]*models.Tag, error) {
	tags := make([]*models.Tag, 0, len(names))
	for _, name := range names {
		var tag models.Tag
		err := tx.Where("name = ? AND user_id = ?", name, userID).First(&tag).Error
		if err == gorm.ErrRecordNotFound {
			tag = models.Tag{Name: name, UserID: userID}
			if err := tx.Create(&tag).Error; err != nil {
				// Concurrent create of the same tag; fetch the winner.
				if isDuplicateKey(err) {
					if err := tx.Where("name = ? AND user_id = ?", name, userID).First(&tag).Error; err != nil {
						return nil, err
					}
				} else {
					return nil, err
				}
			}
		} else if err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	return tags, nil
}

func (r *diaryRepository) CreateEntry(ctx context.Context, entry *models.DiaryEntry, tagNames []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, entry.UserID, tagNames)
		if err != nil {
			return err
		}
		if err := tx.Omit("Tags").Create(entry).Error; err != nil {
			return err
		}
		for _, tag := range tags {
			link := models.DiaryEntryTag{EntryID: entry.ID, TagID: tag.ID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		entry.Tags = make([]models.Tag, len(tags))
		for i, tag := range tags {
			entry.Tags[i] = *tag
		}
		return nil
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *diaryRepository) GetEntryByID(ctx context.Context, id uint) (*models.DiaryEntry, error) {
	var entry models.DiaryEntry
	err := r.db.WithContext(ctx).Preload("Tags").Preload("User").First(&entry, id).Error
	if err != nil {
		return nil, translateError(err, "Diary entry", id)
	}
	return &entry, nil
}

func (r *diaryRepository) ListEntries(ctx context.Context, diaryID uint, limit, offset int) ([]*models.DiaryEntry, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.DiaryEntry{}).
		Where("diary_id = ?", diaryID).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var entries []*models.DiaryEntry
	err := r.db.WithContext(ctx).Preload("Tags").
		Where("diary_id = ?", diaryID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return entries, total, nil
}

// UpdateEntry applies scalar updates and, when tagNames is non-nil, replaces
// the entry's tag set, all within one transaction.
func (r *diaryRepository) UpdateEntry(ctx context.Context, entry *models.DiaryEntry, updates map[string]any, tagNames *[]string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.DiaryEntry{}).Where("id = ?", entry.ID).Updates(updates).Error; err != nil {
				return err
			}
		}
		if tagNames == nil {
			return nil
		}
		tags, err := resolveTags(tx, entry.UserID, *tagNames)
		if err != nil {
			return err
		}
		if err := tx.Where("entry_id = ?", entry.ID).Delete(&models.DiaryEntryTag{}).Error; err != nil {
			return err
		}
		for _, tag := range tags {
			link := models.DiaryEntryTag{EntryID: entry.ID, TagID: tag.ID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *diaryRepository) DeleteEntry(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", id).Delete(&models.DiaryEntryTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.DiaryEntry{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *diaryRepository) ListTagsByUser(ctx context.Context, userID uint) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

func (r *diaryRepository) ListEntriesByTag(ctx context.Context, userID, tagID uint, limit, offset int) ([]*models.DiaryEntry, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.DiaryEntry{}).
		Joins("JOIN diary_entry_tags det ON det.entry_id = diary_entries.id").
		Where("det.tag_id = ? AND diary_entries.user_id = ?", tagID, userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var entries []*models.DiaryEntry
	err := base.Preload("Tags").
		Order("diary_entries.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return entries, total, nil
}
