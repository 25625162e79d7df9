package service

import (
	"context"
	"fmt"
	"strings"

	"jotter/internal/models"
	"jotter/internal/repository"
)

const maxCommentLen = 2000

type CommentService struct {
	commentRepo   repository.CommentRepository
	jotRepo       repository.JotRepository
	userRepo      repository.UserRepository
	notifications *NotificationService
}

type CreateCommentInput struct {
	UserID uint
	JotID  uint
	Body   string
}

type ListCommentsInput struct {
	JotID  uint
	Limit  int
	Offset int
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	jotRepo repository.JotRepository,
	userRepo repository.UserRepository,
	notifications *NotificationService,
) *CommentService {
	return &CommentService{
		commentRepo:   commentRepo,
		jotRepo:       jotRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.JotComment, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, models.NewValidationError("Comment body is required")
	}
	if len([]rune(body)) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}

	jot, err := s.jotRepo.GetByID(ctx, in.JotID, 0)
	if err != nil {
		return nil, err
	}

	comment := &models.JotComment{
		UserID: in.UserID,
		JotID:  in.JotID,
		Body:   body,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.notifyComment(ctx, jot, in.UserID, body)
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) notifyComment(ctx context.Context, jot *models.Jot, commenterID uint, body string) {
	commenter, err := s.userRepo.GetByID(ctx, commenterID)
	if err != nil {
		return
	}
	senderID := commenterID
	_ = s.notifications.Notify(ctx, &models.Notification{
		Type:        models.NotificationJotComment,
		RecipientID: jot.UserID,
		SenderID:    &senderID,
		Message:     fmt.Sprintf("%s commented: %s", commenter.Username, models.CommentPreview(body)),
		Link:        fmt.Sprintf("/jots/%d", jot.ID),
	})
}

func (s *CommentService) ListComments(ctx context.Context, in ListCommentsInput) ([]*models.JotComment, int64, error) {
	if _, err := s.jotRepo.GetByID(ctx, in.JotID, 0); err != nil {
		return nil, 0, err
	}
	return s.commentRepo.ListByJot(ctx, in.JotID, in.Limit, in.Offset)
}

// DeleteComment removes a comment. Only the comment author may delete it.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return models.NewAuthorizationError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, commentID)
}
