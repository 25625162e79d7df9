package server

import (
	"errors"
	"io"
	"mime/multipart"

	"jotter/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) so
// Fiber's ErrorHandler does not overwrite the response.
var errResponseWritten = errors.New("response already written")

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Pagination holds the parsed page/limit query parameters and the derived
// offset.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// parsePagination reads ?page and ?limit with page >= 1 (default 1) and
// limit clamped to [1, 100] (default 20).
func parsePagination(c *fiber.Ctx) Pagination {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultPageLimit)
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// fail writes the standardized error envelope for err.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, err, s.config.IsDevelopment())
}

// ok writes a success envelope with the given payload.
func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// okMessage writes a success envelope carrying only a message.
func okMessage(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// okPage writes a paginated success envelope. has_more is exact:
// offset+returned < total.
func okPage(c *fiber.Ctx, data any, p Pagination, returned int, total int64) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":  true,
		"data":     data,
		"page":     p.Page,
		"limit":    p.Limit,
		"total":    total,
		"has_more": int64(p.Offset+returned) < total,
	})
}

// parseID extracts a route parameter by name as a positive uint. On failure
// it writes a 400 response and returns errResponseWritten; callers should
// then return nil.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = s.fail(c, models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the authenticated user's ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// formFileBytes reads an optional multipart file field. Returns nil bytes
// when the field is absent.
func formFileBytes(c *fiber.Ctx, field string) ([]byte, string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, "", nil
	}
	return readMultipartFile(header)
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, string, error) {
	f, err := header.Open()
	if err != nil {
		return nil, "", models.NewValidationError("Could not read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", models.NewValidationError("Could not read uploaded file")
	}
	return data, header.Header.Get("Content-Type"), nil
}
