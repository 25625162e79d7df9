package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"jotter/internal/models"
)

func TestUserServiceGetProfileAnnotatesFollow(t *testing.T) {
	follows := noopFollowRepo()
	follows.existsFn = func(_ context.Context, followerID, followingID uint) (bool, error) {
		return followerID == 1 && followingID == 2, nil
	}

	svc := NewUserService(noopUserRepo(), follows, &fakeMediaStore{})
	user, err := svc.GetProfile(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if !user.IsFollowing {
		t.Fatal("expected is_following to be set")
	}

	// Viewing your own profile skips the lookup.
	user, err = svc.GetProfile(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if user.IsFollowing {
		t.Fatal("own profile should not be annotated")
	}
}

func TestUserServiceUpdateProfileBadUsername(t *testing.T) {
	svc := NewUserService(noopUserRepo(), noopFollowRepo(), &fakeMediaStore{})
	username := "no spaces allowed"
	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:  1,
		Updates: models.UserUpdate{Username: &username},
	})
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("expected validation app error, got %#v", err)
	}
}

func TestUserServiceUpdateProfileBioTooLong(t *testing.T) {
	svc := NewUserService(noopUserRepo(), noopFollowRepo(), &fakeMediaStore{})
	bio := strings.Repeat("b", 501)
	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:  1,
		Updates: models.UserUpdate{Bio: &bio},
	})
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation {
		t.Fatalf("expected validation app error, got %#v", err)
	}
}

func TestUserServiceUploadAvatarReplacesOld(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, AvatarPublicID: "avatars/old.webp"}, nil
	}
	store := &fakeMediaStore{}

	svc := NewUserService(users, noopFollowRepo(), store)
	if _, err := svc.UploadAvatar(context.Background(), UploadAvatarInput{
		UserID:      1,
		Content:     []byte{1},
		ContentType: "image/png",
	}); err != nil {
		t.Fatalf("UploadAvatar: %v", err)
	}
	if len(store.uploads) != 1 || store.uploads[0] != "avatars" {
		t.Fatalf("expected one upload to avatars, got %v", store.uploads)
	}
	if len(store.deletes) != 1 || store.deletes[0] != "avatars/old.webp" {
		t.Fatalf("expected old avatar removed, got %v", store.deletes)
	}
}

func TestUserServiceDeleteAccountRemovesAvatar(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, AvatarPublicID: "avatars/gone.webp"}, nil
	}
	store := &fakeMediaStore{}

	svc := NewUserService(users, noopFollowRepo(), store)
	if err := svc.DeleteAccount(context.Background(), 1); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if len(store.deletes) != 1 || store.deletes[0] != "avatars/gone.webp" {
		t.Fatalf("expected avatar removed, got %v", store.deletes)
	}
}
