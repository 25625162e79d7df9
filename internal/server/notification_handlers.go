package server

import (
	"jotter/internal/models"
	"jotter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	p := parsePagination(c)

	notifications, total, err := s.notificationService.List(c.Context(), service.ListNotificationsInput{
		RecipientID: currentUserID(c),
		UnreadOnly:  c.QueryBool("unread", false),
		Limit:       p.Limit,
		Offset:      p.Offset,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return okPage(c, notifications, p, len(notifications), total)
}

// GetUnreadCount handles GET /api/notifications/unread-count
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	count, err := s.notificationService.UnreadCount(c.Context(), currentUserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"count": count})
}

// MarkNotificationRead handles PUT /api/notifications/:id/read
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	notificationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.notificationService.MarkRead(c.Context(), currentUserID(c), notificationID); svcErr != nil {
		return s.fail(c, svcErr)
	}
	return okMessage(c, "Notification marked as read")
}

// MarkAllNotificationsRead handles PUT /api/notifications/read-all
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	updated, err := s.notificationService.MarkAllRead(c.Context(), currentUserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"updated": updated})
}

// RegisterFCMToken handles POST /api/notifications/tokens
func (s *Server) RegisterFCMToken(c *fiber.Ctx) error {
	var req struct {
		Token    string `json:"token"`
		Platform string `json:"platform"`
	}
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, models.NewValidationError("Invalid request body"))
	}

	if err := s.notificationService.RegisterFCMToken(c.Context(), service.RegisterFCMTokenInput{
		UserID:   currentUserID(c),
		Token:    req.Token,
		Platform: req.Platform,
	}); err != nil {
		return s.fail(c, err)
	}
	return okMessage(c, "Token registered")
}

// RemoveFCMToken handles DELETE /api/notifications/tokens/:token
func (s *Server) RemoveFCMToken(c *fiber.Ctx) error {
	token := c.Params("token")
	if err := s.notificationService.RemoveFCMToken(c.Context(), currentUserID(c), token); err != nil {
		return s.fail(c, err)
	}
	return okMessage(c, "Token removed")
}
