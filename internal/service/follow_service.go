package service

import (
	"context"
	"fmt"

	"jotter/internal/models"
	"jotter/internal/repository"
)

type FollowService struct {
	followRepo    repository.FollowRepository
	userRepo      repository.UserRepository
	notifications *NotificationService
}

type ListFollowsInput struct {
	UserID        uint
	CurrentUserID uint
	Limit         int
	Offset        int
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	notifications *NotificationService,
) *FollowService {
	return &FollowService{
		followRepo:    followRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

func (s *FollowService) Follow(ctx context.Context, followerID, followingID uint) error {
	if followerID == followingID {
		return models.NewValidationError("You cannot follow yourself")
	}

	// Missing target must read as 404, not a foreign-key failure.
	if _, err := s.userRepo.GetByID(ctx, followingID); err != nil {
		return err
	}

	// Pre-check keeps the common double-follow a ValidationError; a race past
	// it surfaces as ConflictError from the unique constraint.
	exists, err := s.followRepo.Exists(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if exists {
		return models.NewValidationError("Already following this user")
	}

	if err := s.followRepo.Follow(ctx, followerID, followingID); err != nil {
		return err
	}

	follower, err := s.userRepo.GetByID(ctx, followerID)
	if err != nil {
		return nil
	}
	senderID := followerID
	_ = s.notifications.Notify(ctx, &models.Notification{
		Type:        models.NotificationNewFollower,
		RecipientID: followingID,
		SenderID:    &senderID,
		Message:     fmt.Sprintf("%s started following you", follower.Username),
		Link:        fmt.Sprintf("/users/%d", followerID),
	})
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID uint) error {
	if followerID == followingID {
		return models.NewValidationError("You cannot unfollow yourself")
	}
	return s.followRepo.Unfollow(ctx, followerID, followingID)
}

func (s *FollowService) ListFollowers(ctx context.Context, in ListFollowsInput) ([]models.User, int64, error) {
	users, total, err := s.followRepo.ListFollowers(ctx, in.UserID, in.Limit, in.Offset)
	if err != nil {
		return nil, 0, err
	}
	if err := s.annotateFollowing(ctx, users, in.CurrentUserID); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *FollowService) ListFollowing(ctx context.Context, in ListFollowsInput) ([]models.User, int64, error) {
	users, total, err := s.followRepo.ListFollowing(ctx, in.UserID, in.Limit, in.Offset)
	if err != nil {
		return nil, 0, err
	}
	if err := s.annotateFollowing(ctx, users, in.CurrentUserID); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// annotateFollowing marks which of the listed users the viewer follows.
func (s *FollowService) annotateFollowing(ctx context.Context, users []models.User, currentUserID uint) error {
	if currentUserID == 0 || len(users) == 0 {
		return nil
	}
	ids, err := s.followRepo.FollowedIDs(ctx, currentUserID)
	if err != nil {
		return err
	}
	followed := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		followed[id] = struct{}{}
	}
	for i := range users {
		_, ok := followed[users[i].ID]
		users[i].IsFollowing = ok
	}
	return nil
}
