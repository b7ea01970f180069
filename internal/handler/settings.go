package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/454Muscle/DDL-sub000/internal/middleware"
	"github.com/454Muscle/DDL-sub000/internal/model"
	"github.com/454Muscle/DDL-sub000/internal/service"
)

type SettingsHandler struct {
	settings *service.SettingsService
	email    *service.EmailService
}

func NewSettingsHandler(settings *service.SettingsService, email *service.EmailService) *SettingsHandler {
	return &SettingsHandler{settings: settings, email: email}
}

// Public handles GET /api/settings — the settings document with secret
// material stripped.
func (h *SettingsHandler) Public(c fiber.Ctx) error {
	settings, err := h.settings.Get(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings.Public())
}

// Update handles PUT /api/admin/settings
func (h *SettingsHandler) Update(c fiber.Ctx) error {
	var update model.SiteSettingsUpdate
	if err := c.Bind().JSON(&update); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	settings, err := h.settings.Update(c.Context(), update)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings.Public())
}

// UpdateResend handles PUT /api/admin/settings/resend
func (h *SettingsHandler) UpdateResend(c fiber.Ctx) error {
	var update model.ResendSettingsUpdate
	if err := c.Bind().JSON(&update); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	settings, err := h.settings.UpdateResend(c.Context(), update)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings.Public())
}

// TestEmail handles POST /api/admin/settings/resend/test — sends a test
// message so the admin can confirm the provider credentials work.
func (h *SettingsHandler) TestEmail(c fiber.Ctx) error {
	var req struct {
		To string `json:"to"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	to, errMsg := middleware.ValidateEmail(req.To)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if !h.email.Configured(c.Context()) {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "EMAIL_UNCONFIGURED", "Email provider is not configured")
	}
	if err := h.email.Send(c.Context(), to, "Test email",
		"<p>This is a test email confirming your email settings work.</p>"); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, "EMAIL_FAILED", "Test email could not be sent")
	}
	return c.JSON(fiber.Map{"success": true})
}
