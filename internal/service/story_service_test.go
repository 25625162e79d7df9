package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"jotter/internal/models"
)

func TestStoryServiceCreateRequiresMedia(t *testing.T) {
	svc := NewStoryService(noopStoryRepo(), &fakeMediaStore{})
	_, err := svc.CreateStory(context.Background(), CreateStoryInput{UserID: 1, Caption: "hi"})
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("expected validation app error, got %#v", err)
	}
}

func TestStoryServiceCreateSetsExpiry(t *testing.T) {
	stories := noopStoryRepo()
	var created *models.Story
	stories.createFn = func(_ context.Context, story *models.Story) error {
		created = story
		return nil
	}

	svc := NewStoryService(stories, &fakeMediaStore{})
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	story, err := svc.CreateStory(context.Background(), CreateStoryInput{
		UserID:           1,
		Media:            []byte{1},
		MediaContentType: "image/png",
	})
	if err != nil {
		t.Fatalf("CreateStory: %v", err)
	}
	if !story.Active {
		t.Fatal("a fresh story should be active")
	}
	if !created.ExpiresAt.Equal(fixed.Add(models.StoryLifetime)) {
		t.Fatalf("expected expiry %v, got %v", fixed.Add(models.StoryLifetime), created.ExpiresAt)
	}
}

func TestStoryServiceGetExpiredHiddenFromOthers(t *testing.T) {
	stories := noopStoryRepo()
	stories.getByIDFn = func(_ context.Context, id uint) (*models.Story, error) {
		return &models.Story{ID: id, UserID: 1, ExpiresAt: time.Now().Add(-time.Hour)}, nil
	}

	svc := NewStoryService(stories, &fakeMediaStore{})

	_, err := svc.GetStory(context.Background(), 5, 2)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeNotFound {
		t.Fatalf("expected not-found app error, got %#v", err)
	}

	// The owner still sees it, flagged inactive.
	story, err := svc.GetStory(context.Background(), 5, 1)
	if err != nil {
		t.Fatalf("GetStory as owner: %v", err)
	}
	if story.Active {
		t.Fatal("expired story should not be flagged active")
	}
}

func TestStoryServiceRecordViewExpired(t *testing.T) {
	stories := noopStoryRepo()
	stories.getByIDFn = func(_ context.Context, id uint) (*models.Story, error) {
		return &models.Story{ID: id, UserID: 1, ExpiresAt: time.Now().Add(-time.Minute)}, nil
	}
	viewed := false
	stories.recordViewFn = func(context.Context, uint, uint) (bool, error) {
		viewed = true
		return true, nil
	}

	svc := NewStoryService(stories, &fakeMediaStore{})
	_, err := svc.RecordView(context.Background(), 5, 2)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("expected validation app error, got %#v", err)
	}
	if viewed {
		t.Fatal("expired stories must not record views")
	}
}

func TestStoryServiceListViewsNotOwner(t *testing.T) {
	stories := noopStoryRepo()
	stories.getByIDFn = func(_ context.Context, id uint) (*models.Story, error) {
		return &models.Story{ID: id, UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}, nil
	}

	svc := NewStoryService(stories, &fakeMediaStore{})
	_, _, err := svc.ListViews(context.Background(), ListStoryViewsInput{StoryID: 5, UserID: 2, Limit: 20})
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeAuthorization {
		t.Fatalf("expected authorization app error, got %#v", err)
	}
}

func TestStoryServiceDeleteRemovesMedia(t *testing.T) {
	stories := noopStoryRepo()
	stories.getByIDFn = func(_ context.Context, id uint) (*models.Story, error) {
		return &models.Story{ID: id, UserID: 1, MediaPublicID: "stories/pic.webp"}, nil
	}
	store := &fakeMediaStore{}

	svc := NewStoryService(stories, store)
	if err := svc.DeleteStory(context.Background(), 5, 1); err != nil {
		t.Fatalf("DeleteStory: %v", err)
	}
	if len(store.deletes) != 1 || store.deletes[0] != "stories/pic.webp" {
		t.Fatalf("expected media delete for stories/pic.webp, got %v", store.deletes)
	}
}
