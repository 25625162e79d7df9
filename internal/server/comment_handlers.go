package server

import (
	"jotter/internal/models"
	"jotter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/jots/:jotId/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	jotID, err := s.parseID(c, "jotId")
	if err != nil {
		return nil
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, models.NewValidationError("Invalid request body"))
	}

	comment, svcErr := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID: currentUserID(c),
		JotID:  jotID,
		Body:   req.Body,
	})
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return ok(c, fiber.StatusCreated, comment)
}

// GetComments handles GET /api/jots/:jotId/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	jotID, err := s.parseID(c, "jotId")
	if err != nil {
		return nil
	}
	p := parsePagination(c)

	comments, total, svcErr := s.commentService.ListComments(c.Context(), service.ListCommentsInput{
		JotID:  jotID,
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return okPage(c, comments, p, len(comments), total)
}

// DeleteComment handles DELETE /api/jots/:jotId/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if svcErr := s.commentService.DeleteComment(c.Context(), commentID, currentUserID(c)); svcErr != nil {
		return s.fail(c, svcErr)
	}
	return okMessage(c, "Comment deleted")
}
