package service

import (
	"context"
	"strings"

	"jotter/internal/media"
	"jotter/internal/models"
	"jotter/internal/repository"
)

const (
	maxDiaryTitleLen = 150
	maxEntryTitleLen = 200
	maxEntryBodyLen  = 50000
)

type DiaryService struct {
	diaryRepo  repository.DiaryRepository
	mediaStore media.Store
}

type CreateDiaryInput struct {
	UserID      uint
	Title       string
	Description string
	IsPublic    bool
}

type UpdateDiaryInput struct {
	UserID  uint
	DiaryID uint
	Updates models.DiaryUpdate
}

type ListDiariesInput struct {
	OwnerID       uint
	CurrentUserID uint
	Limit         int
	Offset        int
}

type CreateEntryInput struct {
	UserID  uint
	DiaryID uint
	Title   string
	Body    string
	Mood    string
	Tags    []string

	// Optional cover image.
	Cover            []byte
	CoverContentType string
}

type UpdateEntryInput struct {
	UserID  uint
	EntryID uint
	Updates models.DiaryEntryUpdate
}

type ListEntriesInput struct {
	DiaryID       uint
	CurrentUserID uint
	Limit         int
	Offset        int
}

type ListEntriesByTagInput struct {
	UserID uint
	TagID  uint
	Limit  int
	Offset int
}

func NewDiaryService(diaryRepo repository.DiaryRepository, mediaStore media.Store) *DiaryService {
	return &DiaryService{diaryRepo: diaryRepo, mediaStore: mediaStore}
}

// normalizeTags trims, lower-cases, and dedupes tag names, dropping empties.
// Returns a MaxTagsError when more than MaxEntryTags distinct names remain.
func normalizeTags(names []string) ([]string, error) {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	if len(out) > models.MaxEntryTags {
		return nil, models.NewMaxTagsError(len(out))
	}
	return out, nil
}

func (s *DiaryService) CreateDiary(ctx context.Context, in CreateDiaryInput) (*models.Diary, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len([]rune(title)) > maxDiaryTitleLen {
		return nil, models.NewValidationError("Title too long (max 150 characters)")
	}

	diary := &models.Diary{
		UserID:      in.UserID,
		Title:       title,
		Description: in.Description,
		IsPublic:    in.IsPublic,
	}
	if err := s.diaryRepo.CreateDiary(ctx, diary); err != nil {
		return nil, err
	}
	return diary, nil
}

// GetDiary enforces visibility: private diaries are only readable by their
// owner, everyone else gets a 403.
func (s *DiaryService) GetDiary(ctx context.Context, diaryID, currentUserID uint) (*models.Diary, error) {
	diary, err := s.diaryRepo.GetDiaryByID(ctx, diaryID)
	if err != nil {
		return nil, err
	}
	if !diary.IsPublic && diary.UserID != currentUserID {
		return nil, models.NewAuthorizationError("This diary is private")
	}
	return diary, nil
}

func (s *DiaryService) ListDiaries(ctx context.Context, in ListDiariesInput) ([]*models.Diary, int64, error) {
	publicOnly := in.OwnerID != in.CurrentUserID
	return s.diaryRepo.ListDiariesByUser(ctx, in.OwnerID, publicOnly, in.Limit, in.Offset)
}

// ListPublicDiaries is the cross-user browse feed.
func (s *DiaryService) ListPublicDiaries(ctx context.Context, limit, offset int) ([]*models.Diary, int64, error) {
	return s.diaryRepo.ListPublicDiaries(ctx, limit, offset)
}

func (s *DiaryService) UpdateDiary(ctx context.Context, in UpdateDiaryInput) (*models.Diary, error) {
	diary, err := s.diaryRepo.GetDiaryByID(ctx, in.DiaryID)
	if err != nil {
		return nil, err
	}
	if diary.UserID != in.UserID {
		return nil, models.NewAuthorizationError("You can only update your own diaries")
	}

	updates := map[string]any{}
	if in.Updates.Title != nil {
		title := strings.TrimSpace(*in.Updates.Title)
		if title == "" {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		if len([]rune(title)) > maxDiaryTitleLen {
			return nil, models.NewValidationError("Title too long (max 150 characters)")
		}
		updates["title"] = title
	}
	if in.Updates.Description != nil {
		updates["description"] = *in.Updates.Description
	}
	if in.Updates.IsPublic != nil {
		updates["is_public"] = *in.Updates.IsPublic
	}
	if len(updates) > 0 {
		if err := s.diaryRepo.UpdateDiary(ctx, in.DiaryID, updates); err != nil {
			return nil, err
		}
	}
	return s.diaryRepo.GetDiaryByID(ctx, in.DiaryID)
}

func (s *DiaryService) DeleteDiary(ctx context.Context, diaryID, userID uint) error {
	diary, err := s.diaryRepo.GetDiaryByID(ctx, diaryID)
	if err != nil {
		return err
	}
	if diary.UserID != userID {
		return models.NewAuthorizationError("You can only delete your own diaries")
	}
	return s.diaryRepo.DeleteDiary(ctx, diaryID)
}

func (s *DiaryService) CreateEntry(ctx context.Context, in CreateEntryInput) (*models.DiaryEntry, error) {
	diary, err := s.diaryRepo.GetDiaryByID(ctx, in.DiaryID)
	if err != nil {
		return nil, err
	}
	if diary.UserID != in.UserID {
		return nil, models.NewAuthorizationError("You can only add entries to your own diaries")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len([]rune(title)) > maxEntryTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, models.NewValidationError("Body is required")
	}
	if len([]rune(body)) > maxEntryBodyLen {
		return nil, models.NewValidationError("Body too long (max 50000 characters)")
	}

	// Tag validation happens before any write so an over-limit list is a
	// clean no-op.
	tags, err := normalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	entry := &models.DiaryEntry{
		DiaryID: in.DiaryID,
		UserID:  in.UserID,
		Title:   title,
		Body:    body,
		Mood:    in.Mood,
	}

	if in.Cover != nil {
		asset, err := s.mediaStore.Upload(ctx, in.Cover, in.CoverContentType, "diaries")
		if err != nil {
			return nil, err
		}
		entry.CoverURL = asset.URL
		entry.CoverPublicID = asset.PublicID
	}

	if err := s.diaryRepo.CreateEntry(ctx, entry, tags); err != nil {
		media.DeleteQuietly(ctx, s.mediaStore, entry.CoverPublicID)
		return nil, err
	}
	return s.diaryRepo.GetEntryByID(ctx, entry.ID)
}

func (s *DiaryService) GetEntry(ctx context.Context, entryID, currentUserID uint) (*models.DiaryEntry, error) {
	entry, err := s.diaryRepo.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != currentUserID {
		diary, err := s.diaryRepo.GetDiaryByID(ctx, entry.DiaryID)
		if err != nil {
			return nil, err
		}
		if !diary.IsPublic {
			return nil, models.NewAuthorizationError("This diary is private")
		}
	}
	return entry, nil
}

func (s *DiaryService) ListEntries(ctx context.Context, in ListEntriesInput) ([]*models.DiaryEntry, int64, error) {
	if _, err := s.GetDiary(ctx, in.DiaryID, in.CurrentUserID); err != nil {
		return nil, 0, err
	}
	return s.diaryRepo.ListEntries(ctx, in.DiaryID, in.Limit, in.Offset)
}

func (s *DiaryService) UpdateEntry(ctx context.Context, in UpdateEntryInput) (*models.DiaryEntry, error) {
	entry, err := s.diaryRepo.GetEntryByID(ctx, in.EntryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != in.UserID {
		return nil, models.NewAuthorizationError("You can only update your own entries")
	}

	updates := map[string]any{}
	if in.Updates.Title != nil {
		title := strings.TrimSpace(*in.Updates.Title)
		if title == "" {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		if len([]rune(title)) > maxEntryTitleLen {
			return nil, models.NewValidationError("Title too long (max 200 characters)")
		}
		updates["title"] = title
	}
	if in.Updates.Body != nil {
		body := strings.TrimSpace(*in.Updates.Body)
		if body == "" {
			return nil, models.NewValidationError("Body cannot be empty")
		}
		if len([]rune(body)) > maxEntryBodyLen {
			return nil, models.NewValidationError("Body too long (max 50000 characters)")
		}
		updates["body"] = body
	}
	if in.Updates.Mood != nil {
		updates["mood"] = *in.Updates.Mood
	}

	var tagNames *[]string
	if in.Updates.Tags != nil {
		normalized, err := normalizeTags(*in.Updates.Tags)
		if err != nil {
			return nil, err
		}
		tagNames = &normalized
	}

	if err := s.diaryRepo.UpdateEntry(ctx, entry, updates, tagNames); err != nil {
		return nil, err
	}
	return s.diaryRepo.GetEntryByID(ctx, in.EntryID)
}

func (s *DiaryService) DeleteEntry(ctx context.Context, entryID, userID uint) error {
	entry, err := s.diaryRepo.GetEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.UserID != userID {
		return models.NewAuthorizationError("You can only delete your own entries")
	}
	if err := s.diaryRepo.DeleteEntry(ctx, entryID); err != nil {
		return err
	}
	media.DeleteQuietly(ctx, s.mediaStore, entry.CoverPublicID)
	return nil
}

func (s *DiaryService) ListTags(ctx context.Context, userID uint) ([]*models.Tag, error) {
	return s.diaryRepo.ListTagsByUser(ctx, userID)
}

func (s *DiaryService) ListEntriesByTag(ctx context.Context, in ListEntriesByTagInput) ([]*models.DiaryEntry, int64, error) {
	return s.diaryRepo.ListEntriesByTag(ctx, in.UserID, in.TagID, in.Limit, in.Offset)
}
