package service

import (
	"context"

	"jotter/internal/media"
	"jotter/internal/models"
	"jotter/internal/repository"
	"jotter/internal/validation"
)

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	mediaStore media.Store
}

type UpdateProfileInput struct {
	UserID  uint
	Updates models.UserUpdate
}

type UploadAvatarInput struct {
	UserID      uint
	Content     []byte
	ContentType string
}

func NewUserService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	mediaStore media.Store,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
		mediaStore: mediaStore,
	}
}

// GetProfile loads a user and, when currentUserID is set and differs from the
// target, annotates the follow relationship.
func (s *UserService) GetProfile(ctx context.Context, userID, currentUserID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if currentUserID != 0 && currentUserID != userID {
		following, err := s.followRepo.Exists(ctx, currentUserID, userID)
		if err != nil {
			return nil, err
		}
		user.IsFollowing = following
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	updates := map[string]any{}
	if in.Updates.Username != nil {
		if err := validation.ValidateUsername(*in.Updates.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		updates["username"] = *in.Updates.Username
	}
	if in.Updates.Bio != nil {
		if len(*in.Updates.Bio) > 500 {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		updates["bio"] = *in.Updates.Bio
	}
	if len(updates) == 0 {
		return s.userRepo.GetByID(ctx, in.UserID)
	}
	return s.userRepo.Update(ctx, in.UserID, updates)
}

// UploadAvatar stores the new image before touching the user row, so a
// storage failure leaves the profile untouched. The previous avatar is
// removed best-effort afterwards.
func (s *UserService) UploadAvatar(ctx context.Context, in UploadAvatarInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	asset, err := s.mediaStore.Upload(ctx, in.Content, in.ContentType, "avatars")
	if err != nil {
		return nil, err
	}

	oldPublicID := user.AvatarPublicID
	updated, err := s.userRepo.Update(ctx, in.UserID, map[string]any{
		"avatar":           asset.URL,
		"avatar_public_id": asset.PublicID,
	})
	if err != nil {
		media.DeleteQuietly(ctx, s.mediaStore, asset.PublicID)
		return nil, err
	}

	media.DeleteQuietly(ctx, s.mediaStore, oldPublicID)
	return updated, nil
}

func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	media.DeleteQuietly(ctx, s.mediaStore, user.AvatarPublicID)
	return nil
}
