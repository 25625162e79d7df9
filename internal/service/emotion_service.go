package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"jotter/internal/models"
	"jotter/internal/repository"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type EmotionService struct {
	emotionRepo repository.EmotionRepository
	userRepo    repository.UserRepository

	now func() time.Time
}

type CreateEmotionInput struct {
	AdminID uint
	Slug    string
	Name    string
	Icon    string
	Color   string
}

type UpdateEmotionInput struct {
	AdminID   uint
	EmotionID uint
	Name      *string
	Icon      *string
	Color     *string
}

type TrackEmotionInput struct {
	UserID    uint
	EmotionID uint
	Note      string

	// Date is optional; zero means today.
	Date time.Time
}

type EmotionHistoryInput struct {
	UserID uint
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

func NewEmotionService(emotionRepo repository.EmotionRepository, userRepo repository.UserRepository) *EmotionService {
	return &EmotionService{
		emotionRepo: emotionRepo,
		userRepo:    userRepo,
		now:         time.Now,
	}
}

func (s *EmotionService) requireAdmin(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsAdmin {
		return models.NewAuthorizationError("Admin access required")
	}
	return nil
}

func (s *EmotionService) List(ctx context.Context) ([]*models.Emotion, error) {
	return s.emotionRepo.List(ctx)
}

func (s *EmotionService) Create(ctx context.Context, in CreateEmotionInput) (*models.Emotion, error) {
	if err := s.requireAdmin(ctx, in.AdminID); err != nil {
		return nil, err
	}
	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, models.NewValidationError("Slug must be lowercase letters, digits, and hyphens")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}

	emotion := &models.Emotion{
		Slug:  slug,
		Name:  name,
		Icon:  in.Icon,
		Color: in.Color,
	}
	if err := s.emotionRepo.Create(ctx, emotion); err != nil {
		return nil, err
	}
	return emotion, nil
}

func (s *EmotionService) Update(ctx context.Context, in UpdateEmotionInput) (*models.Emotion, error) {
	if err := s.requireAdmin(ctx, in.AdminID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.NewValidationError("Name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Icon != nil {
		updates["icon"] = *in.Icon
	}
	if in.Color != nil {
		updates["color"] = *in.Color
	}
	if len(updates) > 0 {
		if err := s.emotionRepo.Update(ctx, in.EmotionID, updates); err != nil {
			return nil, err
		}
	}
	return s.emotionRepo.GetByID(ctx, in.EmotionID)
}

// Delete refuses to remove an emotion that tracker rows still reference, so
// history never ends up pointing at a missing catalog row.
func (s *EmotionService) Delete(ctx context.Context, adminID, emotionID uint) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	refs, err := s.emotionRepo.CountTrackerRefs(ctx, emotionID)
	if err != nil {
		return err
	}
	if refs > 0 {
		return models.NewConflictError("Emotion is referenced by tracker entries")
	}
	return s.emotionRepo.Delete(ctx, emotionID)
}

// Track records the user's emotion for a calendar day, defaulting to today
// (UTC). Tracking again on the same day replaces the earlier entry.
func (s *EmotionService) Track(ctx context.Context, in TrackEmotionInput) (*models.EmotionTracker, error) {
	if _, err := s.emotionRepo.GetByID(ctx, in.EmotionID); err != nil {
		return nil, err
	}
	if len([]rune(in.Note)) > 500 {
		return nil, models.NewValidationError("Note too long (max 500 characters)")
	}
	at := in.Date
	if at.IsZero() {
		at = s.now()
	}
	day := models.TrackerDay(at)
	return s.emotionRepo.Track(ctx, in.UserID, in.EmotionID, day, in.Note)
}

func (s *EmotionService) History(ctx context.Context, in EmotionHistoryInput) ([]*models.EmotionTracker, int64, error) {
	if !in.From.IsZero() && !in.To.IsZero() && in.To.Before(in.From) {
		return nil, 0, models.NewValidationError("Invalid date range")
	}
	return s.emotionRepo.History(ctx, in.UserID, in.From, in.To, in.Limit, in.Offset)
}
