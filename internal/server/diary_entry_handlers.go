package server

import (
	"encoding/json"
	"strconv"

	"jotter/internal/models"
	"jotter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateDiaryEntry handles POST /api/diary-entries. Accepts JSON
// {diary_id, title, body, mood, tags[]} or a multipart form with the same
// fields (tags as a JSON array string) plus an optional cover file.
func (s *Server) CreateDiaryEntry(c *fiber.Ctx) error {
	in := service.CreateEntryInput{UserID: currentUserID(c)}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		formVal := func(key string) string {
			if vals := form.Value[key]; len(vals) > 0 {
				return vals[0]
			}
			return ""
		}
		diaryID, convErr := strconv.ParseUint(formVal("diary_id"), 10, 32)
		if convErr != nil {
			return s.fail(c, models.NewValidationError("Invalid diary ID"))
		}
		in.DiaryID = uint(diaryID)
		in.Title = formVal("title")
		in.Body = formVal("body")
		in.Mood = formVal("mood")
		if raw := formVal("tags"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &in.Tags); err != nil {
				return s.fail(c, models.NewValidationError("Invalid tags field"))
			}
		}
		cover, contentType, err := formFileBytes(c, "cover")
		if err != nil {
			return s.fail(c, err)
		}
		in.Cover = cover
		in.CoverContentType = contentType
	} else {
		var req struct {
			DiaryID uint     `json:"diary_id"`
			Title   string   `json:"title"`
			Body    string   `json:"body"`
			Mood    string   `json:"mood"`
			Tags    []string `json:"tags"`
		}
		if err := c.BodyParser(&req); err != nil {
			return s.fail(c, models.NewValidationError("Invalid request body"))
		}
		in.DiaryID = req.DiaryID
		in.Title = req.Title
		in.Body = req.Body
		in.Mood = req.Mood
		in.Tags = req.Tags
	}

	entry, err := s.diaryService.CreateEntry(c.Context(), in)
	if err != nil {
		return s.fail(c, err)
	}
	return ok(c, fiber.StatusCreated, entry)
}

// GetDiaryEntry handles GET /api/diary-entries/:id
func (s *Server) GetDiaryEntry(c *fiber.Ctx) error {
	entryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	entry, svcErr := s.diaryService.GetEntry(c.Context(), entryID, currentUserID(c))
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return ok(c, fiber.StatusOK, entry)
}

// UpdateDiaryEntry handles PUT /api/diary-entries/:id
func (s *Server) UpdateDiaryEntry(c *fiber.Ctx) error {
	entryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req models.DiaryEntryUpdate
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, models.NewValidationError("Invalid request body"))
	}

	entry, svcErr := s.diaryService.UpdateEntry(c.Context(), service.UpdateEntryInput{
		UserID:  currentUserID(c),
		EntryID: entryID,
		Updates: req,
	})
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return ok(c, fiber.StatusOK, entry)
}

// DeleteDiaryEntry handles DELETE /api/diary-entries/:id
func (s *Server) DeleteDiaryEntry(c *fiber.Ctx) error {
	entryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.diaryService.DeleteEntry(c.Context(), entryID, currentUserID(c)); svcErr != nil {
		return s.fail(c, svcErr)
	}
	return okMessage(c, "Entry deleted")
}

// GetMyTags handles GET /api/tags
func (s *Server) GetMyTags(c *fiber.Ctx) error {
	tags, err := s.diaryService.ListTags(c.Context(), currentUserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return ok(c, fiber.StatusOK, tags)
}

// GetEntriesByTag handles GET /api/tags/:id/entries
func (s *Server) GetEntriesByTag(c *fiber.Ctx) error {
	tagID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c)

	entries, total, svcErr := s.diaryService.ListEntriesByTag(c.Context(), service.ListEntriesByTagInput{
		UserID: currentUserID(c),
		TagID:  tagID,
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return okPage(c, entries, p, len(entries), total)
}
