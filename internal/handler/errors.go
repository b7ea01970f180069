package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/454Muscle/DDL-sub000/internal/middleware"
	"github.com/454Muscle/DDL-sub000/internal/model"
)

// respondError maps service errors onto the wire error envelope. Anything
// unrecognized is a 500 with a generic message; the logging middleware
// already recorded the request, the caller logs the cause.
func respondError(c fiber.Ctx, err error) error {
	var missing *model.MissingFieldError
	var invalid *model.InvalidFieldError

	switch {
	case errors.As(err, &missing):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELD", missing.Error())
	case errors.As(err, &invalid):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", invalid.Error())
	case errors.Is(err, model.ErrCaptchaFailed):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "CAPTCHA_FAILED", "Captcha verification failed")
	case errors.Is(err, model.ErrRecaptchaRejected):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "CAPTCHA_FAILED", "reCAPTCHA verification failed")
	case errors.Is(err, model.ErrRecaptchaUnconfigured):
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "RECAPTCHA_UNCONFIGURED", "reCAPTCHA is enabled but not configured")
	case errors.Is(err, model.ErrRecaptchaService):
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, "RECAPTCHA_SERVICE_ERROR", "reCAPTCHA verification service unavailable")
	case errors.Is(err, model.ErrRateLimitExceeded):
		return middleware.ErrorResponse(c, fiber.StatusTooManyRequests, "RATE_LIMITED", "Daily submission limit reached")
	case errors.Is(err, model.ErrNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, model.ErrInvalidTransition):
		return middleware.ErrorResponse(c, fiber.StatusConflict, "INVALID_TRANSITION", "Submission is not in a state that allows this operation")
	case errors.Is(err, model.ErrInvalidCredentials):
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
	case errors.Is(err, model.ErrEmailTaken):
		return middleware.ErrorResponse(c, fiber.StatusConflict, "EMAIL_TAKEN", "An account with this email already exists")
	case errors.Is(err, model.ErrAdminInitialized):
		return middleware.ErrorResponse(c, fiber.StatusConflict, "ALREADY_INITIALIZED", "Admin credentials are already set")
	default:
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
