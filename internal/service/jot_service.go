package service

import (
	"context"
	"fmt"
	"strings"

	"jotter/internal/media"
	"jotter/internal/models"
	"jotter/internal/repository"
)

const maxJotContentLen = 5000

type JotService struct {
	jotRepo       repository.JotRepository
	userRepo      repository.UserRepository
	mediaStore    media.Store
	notifications *NotificationService
}

type CreateJotInput struct {
	UserID  uint
	Content string

	// Optional attachment. Media is nil when the jot is text-only.
	Media            []byte
	MediaContentType string
}

type ListJotsInput struct {
	UserID        uint
	CurrentUserID uint
	Limit         int
	Offset        int
}

type ReactInput struct {
	UserID uint
	JotID  uint
	Kind   models.ReactionKind
}

// ReactOutcome reports what a reaction request actually did.
type ReactOutcome struct {
	Reacted bool                `json:"reacted"`
	Kind    models.ReactionKind `json:"kind,omitempty"`
}

func NewJotService(
	jotRepo repository.JotRepository,
	userRepo repository.UserRepository,
	mediaStore media.Store,
	notifications *NotificationService,
) *JotService {
	return &JotService{
		jotRepo:       jotRepo,
		userRepo:      userRepo,
		mediaStore:    mediaStore,
		notifications: notifications,
	}
}

func (s *JotService) CreateJot(ctx context.Context, in CreateJotInput) (*models.Jot, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len([]rune(content)) > maxJotContentLen {
		return nil, models.NewValidationError("Content too long (max 5000 characters)")
	}

	jot := &models.Jot{
		UserID:  in.UserID,
		Content: content,
	}

	// Upload before the insert so a storage failure leaves no jot behind.
	if in.Media != nil {
		asset, err := s.mediaStore.Upload(ctx, in.Media, in.MediaContentType, "jots")
		if err != nil {
			return nil, err
		}
		jot.MediaURL = asset.URL
		jot.MediaPublicID = asset.PublicID
	}

	if err := s.jotRepo.Create(ctx, jot); err != nil {
		media.DeleteQuietly(ctx, s.mediaStore, jot.MediaPublicID)
		return nil, err
	}
	return s.jotRepo.GetByID(ctx, jot.ID, in.UserID)
}

func (s *JotService) GetJot(ctx context.Context, jotID, currentUserID uint) (*models.Jot, error) {
	return s.jotRepo.GetByID(ctx, jotID, currentUserID)
}

// Feed returns jots from followed users plus the viewer's own, newest first.
func (s *JotService) Feed(ctx context.Context, in ListJotsInput) ([]*models.Jot, int64, error) {
	return s.jotRepo.ListFeed(ctx, in.CurrentUserID, in.Limit, in.Offset)
}

func (s *JotService) ListByUser(ctx context.Context, in ListJotsInput) ([]*models.Jot, int64, error) {
	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		return nil, 0, err
	}
	return s.jotRepo.ListByUser(ctx, in.UserID, in.Limit, in.Offset, in.CurrentUserID)
}

func (s *JotService) DeleteJot(ctx context.Context, jotID, userID uint) error {
	jot, err := s.jotRepo.GetByID(ctx, jotID, 0)
	if err != nil {
		return err
	}
	if jot.UserID != userID {
		return models.NewAuthorizationError("You can only delete your own jots")
	}
	if err := s.jotRepo.Delete(ctx, jotID); err != nil {
		return err
	}
	media.DeleteQuietly(ctx, s.mediaStore, jot.MediaPublicID)
	return nil
}

// React toggles the user's reaction on a jot. A second reaction by the same
// user removes the existing one regardless of kind; otherwise the new
// reaction is recorded.
func (s *JotService) React(ctx context.Context, in ReactInput) (*ReactOutcome, error) {
	if !models.ValidReactionKind(in.Kind) {
		return nil, models.NewValidationError("Invalid reaction kind")
	}

	jot, err := s.jotRepo.GetByID(ctx, in.JotID, 0)
	if err != nil {
		return nil, err
	}

	existing, err := s.jotRepo.GetReaction(ctx, in.JotID, in.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.jotRepo.Unreact(ctx, in.JotID, in.UserID); err != nil {
			return nil, err
		}
		return &ReactOutcome{Reacted: false}, nil
	}

	reaction := &models.JotReaction{
		JotID:  in.JotID,
		UserID: in.UserID,
		Kind:   in.Kind,
	}
	if err := s.jotRepo.React(ctx, reaction); err != nil {
		return nil, err
	}

	s.notifyReaction(ctx, jot, in.UserID)
	return &ReactOutcome{Reacted: true, Kind: in.Kind}, nil
}

func (s *JotService) notifyReaction(ctx context.Context, jot *models.Jot, reactorID uint) {
	reactor, err := s.userRepo.GetByID(ctx, reactorID)
	if err != nil {
		return
	}
	senderID := reactorID
	_ = s.notifications.Notify(ctx, &models.Notification{
		Type:        models.NotificationJotReaction,
		RecipientID: jot.UserID,
		SenderID:    &senderID,
		Message:     fmt.Sprintf("%s reacted to your jot", reactor.Username),
		Link:        fmt.Sprintf("/jots/%d", jot.ID),
	})
}

func (s *JotService) ListReactions(ctx context.Context, jotID uint) ([]*models.JotReaction, error) {
	if _, err := s.jotRepo.GetByID(ctx, jotID, 0); err != nil {
		return nil, err
	}
	return s.jotRepo.ListReactions(ctx, jotID)
}
