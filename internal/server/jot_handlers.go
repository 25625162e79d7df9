package server

import (
	"jotter/internal/models"
	"jotter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateJot handles POST /api/jots. Accepts either JSON {content} or
// multipart form with a content field plus an optional media file.
func (s *Server) CreateJot(c *fiber.Ctx) error {
	in := service.CreateJotInput{UserID: currentUserID(c)}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		if vals := form.Value["content"]; len(vals) > 0 {
			in.Content = vals[0]
		}
		content, contentType, err := formFileBytes(c, "media")
		if err != nil {
			return s.fail(c, err)
		}
		in.Media = content
		in.MediaContentType = contentType
	} else {
		var req struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&req); err != nil {
			return s.fail(c, models.NewValidationError("Invalid request body"))
		}
		in.Content = req.Content
	}

	jot, err := s.jotService.CreateJot(c.Context(), in)
	if err != nil {
		return s.fail(c, err)
	}
	return ok(c, fiber.StatusCreated, jot)
}

// GetFeed handles GET /api/jots/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	p := parsePagination(c)
	jots, total, err := s.jotService.Feed(c.Context(), service.ListJotsInput{
		CurrentUserID: currentUserID(c),
		Limit:         p.Limit,
		Offset:        p.Offset,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return okPage(c, jots, p, len(jots), total)
}

// GetJot handles GET /api/jots/:jotId
func (s *Server) GetJot(c *fiber.Ctx) error {
	jotID, err := s.parseID(c, "jotId")
	if err != nil {
		return nil
	}

	jot, svcErr := s.jotService.GetJot(c.Context(), jotID, currentUserID(c))
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return ok(c, fiber.StatusOK, jot)
}

// GetUserJots handles GET /api/users/:id/jots
func (s *Server) GetUserJots(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c)
	viewerID, _ := s.optionalUserID(c)

	jots, total, svcErr := s.jotService.ListByUser(c.Context(), service.ListJotsInput{
		UserID:        userID,
		CurrentUserID: viewerID,
		Limit:         p.Limit,
		Offset:        p.Offset,
	})
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return okPage(c, jots, p, len(jots), total)
}

// DeleteJot handles DELETE /api/jots/:jotId
func (s *Server) DeleteJot(c *fiber.Ctx) error {
	jotID, err := s.parseID(c, "jotId")
	if err != nil {
		return nil
	}

	if svcErr := s.jotService.DeleteJot(c.Context(), jotID, currentUserID(c)); svcErr != nil {
		return s.fail(c, svcErr)
	}
	return okMessage(c, "Jot deleted")
}

// ReactToJot handles POST /api/jots/:jotId/reactions
func (s *Server) ReactToJot(c *fiber.Ctx) error {
	jotID, err := s.parseID(c, "jotId")
	if err != nil {
		return nil
	}

	var req struct {
		Kind models.ReactionKind `json:"kind"`
	}
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, models.NewValidationError("Invalid request body"))
	}

	outcome, svcErr := s.jotService.React(c.Context(), service.ReactInput{
		UserID: currentUserID(c),
		JotID:  jotID,
		Kind:   req.Kind,
	})
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return ok(c, fiber.StatusOK, outcome)
}

// GetJotReactions handles GET /api/jots/:jotId/reactions
func (s *Server) GetJotReactions(c *fiber.Ctx) error {
	jotID, err := s.parseID(c, "jotId")
	if err != nil {
		return nil
	}

	reactions, svcErr := s.jotService.ListReactions(c.Context(), jotID)
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return ok(c, fiber.StatusOK, reactions)
}
