package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/454Muscle/DDL-sub000/internal/model"
)

// DefaultRecaptchaURL is Google's siteverify endpoint.
const DefaultRecaptchaURL = "https://www.google.com/recaptcha/api/siteverify"

// recaptchaTimeout bounds the upstream call so a slow verification service
// cannot hang the submission pipeline.
const recaptchaTimeout = 5 * time.Second

// RecaptchaService proxies token verification to the reCAPTCHA v2 service.
type RecaptchaService struct {
	client    *http.Client
	verifyURL string
}

// NewRecaptchaService creates a verifier. verifyURL overrides the upstream
// endpoint; pass "" for the real service.
func NewRecaptchaService(verifyURL string) *RecaptchaService {
	if verifyURL == "" {
		verifyURL = DefaultRecaptchaURL
	}
	return &RecaptchaService{
		client:    &http.Client{Timeout: recaptchaTimeout},
		verifyURL: verifyURL,
	}
}

// Verify checks a client token against the upstream service. Returns
// ErrRecaptchaUnconfigured when no secret key is set, ErrRecaptchaRejected
// when the service reports failure, and ErrRecaptchaService on network or
// timeout faults (a transient failure the caller may retry).
func (s *RecaptchaService) Verify(ctx context.Context, recaptchaToken, secretKey, remoteIP string) error {
	if secretKey == "" {
		return model.ErrRecaptchaUnconfigured
	}
	if recaptchaToken == "" {
		return model.ErrRecaptchaRejected
	}

	form := url.Values{
		"secret":   {secretKey},
		"response": {recaptchaToken},
		"remoteip": {remoteIP},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.verifyURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return model.ErrRecaptchaService
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return model.ErrRecaptchaService
	}
	defer resp.Body.Close()

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return model.ErrRecaptchaService
	}
	if !result.Success {
		return model.ErrRecaptchaRejected
	}
	return nil
}
