package server

import (
	"time"

	"jotter/internal/models"
	"jotter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetEmotions handles GET /api/emotions
func (s *Server) GetEmotions(c *fiber.Ctx) error {
	emotions, err := s.emotionService.List(c.Context())
	if err != nil {
		return s.fail(c, err)
	}
	return ok(c, fiber.StatusOK, emotions)
}

// TrackEmotion handles POST /api/emotions/track
func (s *Server) TrackEmotion(c *fiber.Ctx) error {
	var req struct {
		EmotionID uint   `json:"emotion_id"`
		Note      string `json:"note"`
		Date      string `json:"date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, models.NewValidationError("Invalid request body"))
	}
	if req.EmotionID == 0 {
		return s.fail(c, models.NewValidationError("emotion_id is required"))
	}

	in := service.TrackEmotionInput{
		UserID:    currentUserID(c),
		EmotionID: req.EmotionID,
		Note:      req.Note,
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return s.fail(c, models.NewValidationError("Invalid date, expected YYYY-MM-DD"))
		}
		in.Date = date
	}

	tracker, err := s.emotionService.Track(c.Context(), in)
	if err != nil {
		return s.fail(c, err)
	}
	return ok(c, fiber.StatusOK, tracker)
}

// GetEmotionHistory handles GET /api/emotions/history?from&to
func (s *Server) GetEmotionHistory(c *fiber.Ctx) error {
	p := parsePagination(c)
	in := service.EmotionHistoryInput{
		UserID: currentUserID(c),
		Limit:  p.Limit,
		Offset: p.Offset,
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return s.fail(c, models.NewValidationError("Invalid from date, expected YYYY-MM-DD"))
		}
		in.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return s.fail(c, models.NewValidationError("Invalid to date, expected YYYY-MM-DD"))
		}
		in.To = t
	}

	entries, total, err := s.emotionService.History(c.Context(), in)
	if err != nil {
		return s.fail(c, err)
	}
	return okPage(c, entries, p, len(entries), total)
}

// CreateEmotion handles POST /api/emotions (admin)
func (s *Server) CreateEmotion(c *fiber.Ctx) error {
	var req struct {
		Slug  string `json:"slug"`
		Name  string `json:"name"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
	}
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, models.NewValidationError("Invalid request body"))
	}

	emotion, err := s.emotionService.Create(c.Context(), service.CreateEmotionInput{
		AdminID: currentUserID(c),
		Slug:    req.Slug,
		Name:    req.Name,
		Icon:    req.Icon,
		Color:   req.Color,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return ok(c, fiber.StatusCreated, emotion)
}

// UpdateEmotion handles PUT /api/emotions/:id (admin)
func (s *Server) UpdateEmotion(c *fiber.Ctx) error {
	emotionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name  *string `json:"name"`
		Icon  *string `json:"icon"`
		Color *string `json:"color"`
	}
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, models.NewValidationError("Invalid request body"))
	}

	emotion, svcErr := s.emotionService.Update(c.Context(), service.UpdateEmotionInput{
		AdminID:   currentUserID(c),
		EmotionID: emotionID,
		Name:      req.Name,
		Icon:      req.Icon,
		Color:     req.Color,
	})
	if svcErr != nil {
		return s.fail(c, svcErr)
	}
	return ok(c, fiber.StatusOK, emotion)
}

// DeleteEmotion handles DELETE /api/emotions/:id (admin)
func (s *Server) DeleteEmotion(c *fiber.Ctx) error {
	emotionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.emotionService.Delete(c.Context(), currentUserID(c), emotionID); svcErr != nil {
		return s.fail(c, svcErr)
	}
	return okMessage(c, "Emotion deleted")
}
