package service

import (
	"context"
	"time"

	"jotter/internal/media"
	"jotter/internal/models"
	"jotter/internal/repository"
)

const maxStoryCaptionLen = 200

type StoryService struct {
	storyRepo  repository.StoryRepository
	mediaStore media.Store

	// now is swappable for tests.
	now func() time.Time
}

type CreateStoryInput struct {
	UserID           uint
	Caption          string
	Media            []byte
	MediaContentType string
}

type ListStoryViewsInput struct {
	StoryID uint
	UserID  uint
	Limit   int
	Offset  int
}

func NewStoryService(storyRepo repository.StoryRepository, mediaStore media.Store) *StoryService {
	return &StoryService{
		storyRepo:  storyRepo,
		mediaStore: mediaStore,
		now:        time.Now,
	}
}

func (s *StoryService) CreateStory(ctx context.Context, in CreateStoryInput) (*models.Story, error) {
	if in.Media == nil {
		return nil, models.NewValidationError("Media is required")
	}
	if len([]rune(in.Caption)) > maxStoryCaptionLen {
		return nil, models.NewValidationError("Caption too long (max 200 characters)")
	}

	asset, err := s.mediaStore.Upload(ctx, in.Media, in.MediaContentType, "stories")
	if err != nil {
		return nil, err
	}

	now := s.now()
	story := &models.Story{
		UserID:        in.UserID,
		Caption:       in.Caption,
		MediaURL:      asset.URL,
		MediaPublicID: asset.PublicID,
		ExpiresAt:     now.Add(models.StoryLifetime),
	}
	if err := s.storyRepo.Create(ctx, story); err != nil {
		media.DeleteQuietly(ctx, s.mediaStore, asset.PublicID)
		return nil, err
	}
	story.Active = true
	return story, nil
}

// GetStory hides expired stories from everyone but their owner, who still
// needs to see them to delete them.
func (s *StoryService) GetStory(ctx context.Context, storyID, currentUserID uint) (*models.Story, error) {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if story.Expired(now) && story.UserID != currentUserID {
		return nil, models.NewNotFoundError("Story", storyID)
	}
	story.Active = !story.Expired(now)
	return story, nil
}

// MyStories returns the caller's stories, expired ones included, each
// flagged with its current active state.
func (s *StoryService) MyStories(ctx context.Context, userID uint) ([]*models.Story, error) {
	stories, err := s.storyRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for _, story := range stories {
		story.Active = !story.Expired(now)
	}
	return stories, nil
}

func (s *StoryService) Feed(ctx context.Context, currentUserID uint) ([]*models.Story, error) {
	stories, err := s.storyRepo.ListActiveFeed(ctx, currentUserID, s.now())
	if err != nil {
		return nil, err
	}
	for _, story := range stories {
		story.Active = true
	}
	return stories, nil
}

func (s *StoryService) DeleteStory(ctx context.Context, storyID, userID uint) error {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return err
	}
	if story.UserID != userID {
		return models.NewAuthorizationError("You can only delete your own stories")
	}
	if err := s.storyRepo.Delete(ctx, storyID); err != nil {
		return err
	}
	media.DeleteQuietly(ctx, s.mediaStore, story.MediaPublicID)
	return nil
}

// RecordView marks a story as seen by the viewer. The first view inserts a
// row and bumps the counter; repeat views are a no-op. Either way the story
// is returned with a fresh count.
func (s *StoryService) RecordView(ctx context.Context, storyID, viewerID uint) (*models.Story, error) {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.Expired(s.now()) {
		return nil, models.NewValidationError("Story has expired")
	}
	if _, err := s.storyRepo.RecordView(ctx, storyID, viewerID); err != nil {
		return nil, err
	}
	story, err = s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	story.Active = true
	return story, nil
}

// ListViews is owner-only.
func (s *StoryService) ListViews(ctx context.Context, in ListStoryViewsInput) ([]*models.StoryView, int64, error) {
	story, err := s.storyRepo.GetByID(ctx, in.StoryID)
	if err != nil {
		return nil, 0, err
	}
	if story.UserID != in.UserID {
		return nil, 0, models.NewAuthorizationError("You can only see views of your own stories")
	}
	return s.storyRepo.ListViews(ctx, in.StoryID, in.Limit, in.Offset)
}
