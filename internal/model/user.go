package model

import "time"

// User is a registered account used to track submissions.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	IsVerified   bool      `json:"is_verified"`
}

// RegisterRequest is the body for POST /api/auth/register.
type RegisterRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	CaptchaID      string `json:"captcha_id,omitempty"`
	CaptchaAnswer  *int   `json:"captcha_answer,omitempty"`
	RecaptchaToken string `json:"recaptcha_token,omitempty"`
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	RecaptchaToken string `json:"recaptcha_token,omitempty"`
}

// PasswordReset is a single-use, time-boxed reset token. Kind distinguishes
// user resets from admin "forgot" and admin "change" confirmations.
type PasswordReset struct {
	Token           string
	Kind            string
	UserID          string // set for user resets
	NewPasswordHash string // set for admin change confirmations
	CreatedAt       time.Time
	ExpiresAt       time.Time
}

// Password reset kinds.
const (
	ResetKindUser        = "user"
	ResetKindAdminForgot = "admin_forgot"
	ResetKindAdminChange = "admin_change"
)
