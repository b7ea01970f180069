package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/454Muscle/DDL-sub000/internal/service"
)

type CaptchaHandler struct {
	captcha  *service.CaptchaService
	settings *service.SettingsService
}

func NewCaptchaHandler(captcha *service.CaptchaService, settings *service.SettingsService) *CaptchaHandler {
	return &CaptchaHandler{captcha: captcha, settings: settings}
}

// Get handles GET /api/captcha — issues a fresh arithmetic challenge.
func (h *CaptchaHandler) Get(c fiber.Ctx) error {
	return c.JSON(h.captcha.Issue())
}

// RecaptchaSettings handles GET /api/recaptcha/settings — the public
// reCAPTCHA configuration (site key only, never the secret).
func (h *CaptchaHandler) RecaptchaSettings(c fiber.Ctx) error {
	settings, err := h.settings.Get(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"site_key":      settings.RecaptchaSiteKey,
		"enable_submit": settings.RecaptchaEnableSubmit,
		"enable_auth":   settings.RecaptchaEnableAuth,
	})
}
