package model

import "time"

// Challenge is a single-use arithmetic captcha puzzle. The expected answer
// never leaves the server.
type Challenge struct {
	ID        string
	Question  string
	Answer    int
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ChallengeResponse is what GET /api/captcha returns to the client.
type ChallengeResponse struct {
	ID        string    `json:"id"`
	Challenge string    `json:"challenge"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RecaptchaSettings is the public reCAPTCHA configuration for the frontend.
type RecaptchaSettings struct {
	SiteKey      string `json:"site_key"`
	EnableSubmit bool   `json:"enable_submit"`
	EnableAuth   bool   `json:"enable_auth"`
}
