package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes map one-to-one onto HTTP statuses at the response boundary.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeAuthorization  = "AUTHORIZATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeMaxTags        = "MAX_TAGS"
	CodeRateLimited    = "RATE_LIMITED"
	CodeInternal       = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error code onto its HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeValidation, CodeMaxTags:
		return fiber.StatusBadRequest
	case CodeAuthentication:
		return fiber.StatusUnauthorized
	case CodeAuthorization:
		return fiber.StatusForbidden
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeConflict:
		return fiber.StatusConflict
	case CodeRateLimited:
		return fiber.StatusTooManyRequests
	}
	return fiber.StatusInternalServerError
}

// Predefined error constructors

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NewAuthenticationError(message string) *AppError {
	return &AppError{Code: CodeAuthentication, Message: message}
}

func NewAuthorizationError(message string) *AppError {
	return &AppError{Code: CodeAuthorization, Message: message}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

func NewMaxTagsError(count int) *AppError {
	return &AppError{
		Code:    CodeMaxTags,
		Message: fmt.Sprintf("Too many tags: %d exceeds the maximum of %d", count, MaxEntryTags),
	}
}

func NewRateLimitError() *AppError {
	return &AppError{Code: CodeRateLimited, Message: "Rate limit exceeded"}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError writes the standardized error envelope. Typed AppErrors
// carry their own status; anything else becomes a 500 with the raw message
// suppressed (exposeDetails is only set in development).
func RespondWithError(c *fiber.Ctx, err error, exposeDetails bool) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		resp := ErrorResponse{
			Success: false,
			Error:   appErr.Message,
			Code:    appErr.Code,
		}
		if appErr.Err != nil && exposeDetails {
			resp.Details = appErr.Err.Error()
		}
		return c.Status(appErr.StatusCode()).JSON(resp)
	}

	resp := ErrorResponse{
		Success: false,
		Error:   "Internal server error",
		Code:    CodeInternal,
	}
	if exposeDetails {
		resp.Details = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(resp)
}
