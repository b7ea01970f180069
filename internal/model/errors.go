package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the submission, moderation and catalog pipelines.
// Handlers map these onto wire error codes; none of them is process-fatal.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrRateLimitExceeded     = errors.New("daily submission limit reached")
	ErrCaptchaFailed         = errors.New("captcha verification failed")
	ErrRecaptchaUnconfigured = errors.New("recaptcha is enabled but not configured")
	ErrRecaptchaRejected     = errors.New("recaptcha token rejected")
	ErrRecaptchaService      = errors.New("recaptcha verification service unavailable")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailTaken            = errors.New("email already registered")
	ErrAdminInitialized      = errors.New("admin password already initialized")
)

// MissingFieldError reports a required field that was empty after trimming.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// InvalidFieldError reports a field that was present but malformed.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}
