package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/454Muscle/DDL-sub000/internal/middleware"
	"github.com/454Muscle/DDL-sub000/internal/model"
	"github.com/454Muscle/DDL-sub000/internal/service"
)

type SubmissionHandler struct {
	svc *service.SubmissionService
}

func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

// Create handles POST /api/submissions
func (h *SubmissionHandler) Create(c fiber.Ctx) error {
	var req model.SubmissionCreate
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	sub, err := h.svc.Submit(c.Context(), req, c.IP())
	if err != nil {
		observeSubmitError(err)
		return respondError(c, err)
	}

	Metrics.SubmissionsTotal.WithLabelValues(sub.Type).Inc()
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// CreateBulk handles POST /api/submissions/bulk
func (h *SubmissionHandler) CreateBulk(c fiber.Ctx) error {
	var req model.BulkSubmissionCreate
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	count, err := h.svc.SubmitBulk(c.Context(), req, c.IP())
	if err != nil {
		observeSubmitError(err)
		return respondError(c, err)
	}

	Metrics.SubmissionsTotal.WithLabelValues("bulk").Add(float64(count))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"count":   count,
	})
}

// Remaining handles GET /api/submissions/remaining?email=X
func (h *SubmissionHandler) Remaining(c fiber.Ctx) error {
	email := fiber.Query[string](c, "email")

	quota, err := h.svc.Remaining(c.Context(), email, c.IP())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(quota)
}
