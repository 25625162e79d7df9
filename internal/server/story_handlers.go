package server

import (
	"jotter/internal/models"
	"jotter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateStory handles POST /api/stories (multipart: media file + caption)
func (s *Server) CreateStory(c *fiber.Ctx) error {
	content, contentType, err := formFileBytes(c, "media")
	if err != nil {
		return s.fail(c, err)
	}
	if content == nil {
		return s.fail(c, models.NewValidationError("Media is required"))
	}

	story, svcErr := s.storyService.CreateStory(c.Context(), service.CreateStoryInput{
		UserID:           currentUserID(c),
		Caption:          c.FormValue("caption"),
		Media:            content,
		MediaContentType: contentType,
	})
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return ok(c, fiber.StatusCreated, story)
}

// GetStoryFeed handles GET /api/stories/feed
func (s *Server) GetStoryFeed(c *fiber.Ctx) error {
	stories, err := s.storyService.Feed(c.Context(), currentUserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return ok(c, fiber.StatusOK, stories)
}

// GetMyStories handles GET /api/stories/me
func (s *Server) GetMyStories(c *fiber.Ctx) error {
	stories, err := s.storyService.MyStories(c.Context(), currentUserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return ok(c, fiber.StatusOK, stories)
}

// GetStory handles GET /api/stories/:id
func (s *Server) GetStory(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	story, svcErr := s.storyService.GetStory(c.Context(), storyID, currentUserID(c))
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return ok(c, fiber.StatusOK, story)
}

// ViewStory handles POST /api/stories/:id/view
func (s *Server) ViewStory(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	story, svcErr := s.storyService.RecordView(c.Context(), storyID, currentUserID(c))
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return ok(c, fiber.StatusOK, story)
}

// GetStoryViews handles GET /api/stories/:id/views
func (s *Server) GetStoryViews(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c)

	views, total, svcErr := s.storyService.ListViews(c.Context(), service.ListStoryViewsInput{
		StoryID: storyID,
		UserID:  currentUserID(c),
		Limit:   p.Limit,
		Offset:  p.Offset,
	})
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return okPage(c, views, p, len(views), total)
}

// DeleteStory handles DELETE /api/stories/:id
func (s *Server) DeleteStory(c *fiber.Ctx) error {
	storyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.storyService.DeleteStory(c.Context(), storyID, currentUserID(c)); svcErr != nil {
		return s.fail(c, svcErr)
	}
	return okMessage(c, "Story deleted")
}
