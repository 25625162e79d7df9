package server

import (
	"jotter/internal/models"
	"jotter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.Context(), currentUserID(c), 0)
	if err != nil {
		return s.fail(c, err)
	}
	return ok(c, fiber.StatusOK, user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req models.UserUpdate
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:  currentUserID(c),
		Updates: req,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return ok(c, fiber.StatusOK, user)
}

// DeleteMyAccount handles DELETE /api/users/me
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	if err := s.userService.DeleteAccount(c.Context(), currentUserID(c)); err != nil {
		return s.fail(c, err)
	}
	return okMessage(c, "Account deleted")
}

// UploadAvatar handles PUT /api/users/me/avatar
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	content, contentType, err := formFileBytes(c, "avatar")
	if err != nil {
		return s.fail(c, err)
	}
	if content == nil {
		return s.fail(c, models.NewValidationError("Avatar file is required"))
	}

	user, err := s.userService.UploadAvatar(c.Context(), service.UploadAvatarInput{
		UserID:      currentUserID(c),
		Content:     content,
		ContentType: contentType,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return ok(c, fiber.StatusOK, user)
}

// GetUserProfile handles GET /api/users/:id. A valid bearer is optional and
// only adds the is_following annotation.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewerID, _ := s.optionalUserID(c)
	user, svcErr := s.userService.GetProfile(c.Context(), userID, viewerID)
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return ok(c, fiber.StatusOK, user)
}
