package server

import (
	"jotter/internal/models"
	"jotter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateDiary handles POST /api/diaries
func (s *Server) CreateDiary(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		IsPublic    bool   `json:"is_public"`
	}
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, models.NewValidationError("Invalid request body"))
	}

	diary, err := s.diaryService.CreateDiary(c.Context(), service.CreateDiaryInput{
		UserID:      currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return ok(c, fiber.StatusCreated, diary)
}

// GetMyDiaries handles GET /api/diaries
func (s *Server) GetMyDiaries(c *fiber.Ctx) error {
	p := parsePagination(c)
	userID := currentUserID(c)

	diaries, total, err := s.diaryService.ListDiaries(c.Context(), service.ListDiariesInput{
		OwnerID:       userID,
		CurrentUserID: userID,
		Limit:         p.Limit,
		Offset:        p.Offset,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return okPage(c, diaries, p, len(diaries), total)
}

// GetPublicDiaries handles GET /api/diaries/public
func (s *Server) GetPublicDiaries(c *fiber.Ctx) error {
	p := parsePagination(c)

	diaries, total, err := s.diaryService.ListPublicDiaries(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return s.fail(c, err)
	}
	return okPage(c, diaries, p, len(diaries), total)
}

// GetDiary handles GET /api/diaries/:id
func (s *Server) GetDiary(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	diary, svcErr := s.diaryService.GetDiary(c.Context(), diaryID, currentUserID(c))
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return ok(c, fiber.StatusOK, diary)
}

// UpdateDiary handles PUT /api/diaries/:id
func (s *Server) UpdateDiary(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req models.DiaryUpdate
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, models.NewValidationError("Invalid request body"))
	}

	diary, svcErr := s.diaryService.UpdateDiary(c.Context(), service.UpdateDiaryInput{
		UserID:  currentUserID(c),
		DiaryID: diaryID,
		Updates: req,
	})
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return ok(c, fiber.StatusOK, diary)
}

// DeleteDiary handles DELETE /api/diaries/:id
func (s *Server) DeleteDiary(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.diaryService.DeleteDiary(c.Context(), diaryID, currentUserID(c)); svcErr != nil {
		return s.fail(c, svcErr)
	}
	return okMessage(c, "Diary deleted")
}

// GetDiaryEntries handles GET /api/diaries/:id/entries
func (s *Server) GetDiaryEntries(c *fiber.Ctx) error {
	diaryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c)

	entries, total, svcErr := s.diaryService.ListEntries(c.Context(), service.ListEntriesInput{
		DiaryID:       diaryID,
		CurrentUserID: currentUserID(c),
		Limit:         p.Limit,
		Offset:        p.Offset,
	})
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return okPage(c, entries, p, len(entries), total)
}
