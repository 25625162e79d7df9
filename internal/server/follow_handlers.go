package server

import (
	"jotter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/users/:id/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.followService.Follow(c.Context(), currentUserID(c), targetID); svcErr != nil {
		return s.fail(c, svcErr)
	}
	return okMessage(c, "Followed")
}

// UnfollowUser handles DELETE /api/users/:id/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.followService.Unfollow(c.Context(), currentUserID(c), targetID); svcErr != nil {
		return s.fail(c, svcErr)
	}
	return okMessage(c, "Unfollowed")
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c)
	viewerID, _ := s.optionalUserID(c)

	users, total, svcErr := s.followService.ListFollowers(c.Context(), service.ListFollowsInput{
		UserID:        userID,
		CurrentUserID: viewerID,
		Limit:         p.Limit,
		Offset:        p.Offset,
	})
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return okPage(c, users, p, len(users), total)
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c)
	viewerID, _ := s.optionalUserID(c)

	users, total, svcErr := s.followService.ListFollowing(c.Context(), service.ListFollowsInput{
		UserID:        userID,
		CurrentUserID: viewerID,
		Limit:         p.Limit,
		Offset:        p.Offset,
	})
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return okPage(c, users, p, len(users), total)
}
