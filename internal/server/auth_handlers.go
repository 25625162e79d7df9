package server

import (
	"time"

	"jotter/internal/models"
	"jotter/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Register handles POST /api/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return s.fail(c, models.NewValidationError("Username, email, and password are required"))
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		return s.fail(c, models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return s.fail(c, models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return s.fail(c, models.NewValidationError(err.Error()))
	}

	email := validation.NormalizeEmail(req.Email)

	// Pre-check for a friendly conflict; the unique constraint still backs
	// this up under concurrent registration.
	existing, err := s.userRepo.GetByEmail(c.Context(), email)
	if err != nil {
		return s.fail(c, err)
	}
	if existing != nil {
		return s.fail(c, models.NewConflictError("An account with this email already exists"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return s.fail(c, models.NewInternalError(err))
	}

	user := &models.User{
		Username: req.Username,
		Email:    email,
		Password: string(hashedPassword),
	}
	if createErr := s.userRepo.Create(c.Context(), user); createErr != nil {
		return s.fail(c, createErr)
	}

	token, err := s.generateToken(user.ID, user.Email)
	if err != nil {
		return s.fail(c, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"token": token,
			"user":  user,
		},
	})
}

// Login handles POST /api/auth/login. Unknown email and wrong password give
// the same response so the endpoint leaks nothing about which accounts exist.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByEmail(c.Context(), validation.NormalizeEmail(req.Email))
	if err != nil {
		return s.fail(c, err)
	}
	if user == nil {
		return s.fail(c, models.NewValidationError("Invalid email or password"))
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return s.fail(c, models.NewValidationError("Invalid email or password"))
	}

	token, err := s.generateToken(user.ID, user.Email)
	if err != nil {
		return s.fail(c, models.NewInternalError(err))
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Refresh handles POST /api/auth/refresh. The bearer must still be valid;
// a fresh token is issued with a new jti and expiry.
func (s *Server) Refresh(c *fiber.Ctx) error {
	userID := currentUserID(c)
	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return s.fail(c, err)
	}

	token, err := s.generateToken(user.ID, user.Email)
	if err != nil {
		return s.fail(c, models.NewInternalError(err))
	}
	return ok(c, fiber.StatusOK, fiber.Map{"token": token})
}

// Logout handles POST /api/auth/logout. The presented token's jti is
// blacklisted for its remaining lifetime; without Redis logout is a no-op
// and the token simply ages out.
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, _ := c.Locals("claims").(jwt.MapClaims)
	if claims != nil && s.redis != nil {
		jti, _ := claims["jti"].(string)
		exp, expErr := claims.GetExpirationTime()
		if jti != "" && expErr == nil && exp != nil {
			ttl := time.Until(exp.Time)
			if ttl > 0 {
				s.redis.Set(c.Context(), "blacklist:"+jti, "1", ttl)
			}
		}
	}
	return okMessage(c, "Logged out")
}
