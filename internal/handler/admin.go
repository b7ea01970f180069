package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/454Muscle/DDL-sub000/internal/middleware"
	"github.com/454Muscle/DDL-sub000/internal/model"
	"github.com/454Muscle/DDL-sub000/internal/repository"
	"github.com/454Muscle/DDL-sub000/internal/service"
)

type AdminHandler struct {
	moderation *service.ModerationService
	catalog    *service.CatalogService
	auth       *service.AuthService
	categories *repository.CategoryRepo
	sessions   *middleware.AdminSessions
}

func NewAdminHandler(moderation *service.ModerationService, catalog *service.CatalogService,
	auth *service.AuthService, categories *repository.CategoryRepo,
	sessions *middleware.AdminSessions) *AdminHandler {
	return &AdminHandler{
		moderation: moderation,
		catalog:    catalog,
		auth:       auth,
		categories: categories,
		sessions:   sessions,
	}
}

// --- Admin credentials ---

// Init handles POST /api/admin/init — one-shot initial credential setup.
func (h *AdminHandler) Init(c fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if err := h.auth.AdminInit(c.Context(), req.Email, req.Password); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

// Login handles POST /api/admin/login — exchanges the admin password for a
// session token.
func (h *AdminHandler) Login(c fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	ok, err := h.auth.AdminCheckPassword(c.Context(), req.Password)
	if err != nil {
		return respondError(c, err)
	}
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
	}
	return c.JSON(fiber.Map{
		"token":      h.sessions.Issue(),
		"expires_in": int(middleware.AdminSessionTTL.Seconds()),
	})
}

// Logout handles POST /api/admin/logout
func (h *AdminHandler) Logout(c fiber.Ctx) error {
	h.sessions.Revoke(middleware.BearerToken(c))
	return c.JSON(fiber.Map{"success": true})
}

// ChangePasswordRequest handles POST /api/admin/password/change-request
func (h *AdminHandler) ChangePasswordRequest(c fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if err := h.auth.AdminChangeRequest(c.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Confirmation email sent"})
}

// ChangePasswordConfirm handles POST /api/admin/password/change-confirm
func (h *AdminHandler) ChangePasswordConfirm(c fiber.Ctx) error {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if err := h.auth.AdminChangeConfirm(c.Context(), req.Token); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// ForgotPassword handles POST /api/admin/forgot-password
func (h *AdminHandler) ForgotPassword(c fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if err := h.auth.AdminForgotPassword(c.Context(), req.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// ResetPassword handles POST /api/admin/reset-password
func (h *AdminHandler) ResetPassword(c fiber.Ctx) error {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if err := h.auth.AdminResetPassword(c.Context(), req.Token, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// UpdateEmail handles PUT /api/admin/email
func (h *AdminHandler) UpdateEmail(c fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"current_password"`
		Email           string `json:"email"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if err := h.auth.AdminUpdateEmail(c.Context(), req.CurrentPassword, req.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// --- Submission moderation ---

// ListSubmissions handles GET /api/admin/submissions?status=X&page=N&limit=N
func (h *AdminHandler) ListSubmissions(c fiber.Ctx) error {
	status := fiber.Query[string](c, "status")
	switch status {
	case "", model.StatusPending, model.StatusApproved, model.StatusRejected:
	default:
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD",
			"status must be one of pending, approved, rejected")
	}

	page := middleware.ParsePage(fiber.Query[string](c, "page"))
	limit := middleware.ParseLimit(fiber.Query[string](c, "limit"))

	res, err := h.moderation.List(c.Context(), status, page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// UnseenCount handles GET /api/admin/submissions/unseen-count
func (h *AdminHandler) UnseenCount(c fiber.Ctx) error {
	count, err := h.moderation.PendingCount(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// Approve handles POST /api/admin/submissions/:id/approve
func (h *AdminHandler) Approve(c fiber.Ctx) error {
	sub, err := h.moderation.Approve(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sub)
}

// Reject handles POST /api/admin/submissions/:id/reject
func (h *AdminHandler) Reject(c fiber.Ctx) error {
	if err := h.moderation.Reject(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// DeleteSubmission handles DELETE /api/admin/submissions/:id
func (h *AdminHandler) DeleteSubmission(c fiber.Ctx) error {
	if err := h.moderation.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

type bulkIDsRequest struct {
	IDs []string `json:"ids"`
}

// BulkApprove handles POST /api/admin/submissions/bulk-approve
func (h *AdminHandler) BulkApprove(c fiber.Ctx) error {
	var req bulkIDsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if len(req.IDs) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELD", "ids is required")
	}
	return c.JSON(h.moderation.ApproveMany(c.Context(), req.IDs))
}

// BulkDelete handles POST /api/admin/submissions/bulk-delete
func (h *AdminHandler) BulkDelete(c fiber.Ctx) error {
	var req bulkIDsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if len(req.IDs) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELD", "ids is required")
	}
	return c.JSON(h.moderation.DeleteMany(c.Context(), req.IDs))
}

// --- Catalog administration ---

// SearchDownloads handles GET /api/admin/downloads?search=X&page=N&limit=N
func (h *AdminHandler) SearchDownloads(c fiber.Ctx) error {
	search := middleware.ValidateSearch(fiber.Query[string](c, "search"))
	page := middleware.ParsePage(fiber.Query[string](c, "page"))
	limit := middleware.ParseLimit(fiber.Query[string](c, "limit"))

	res, err := h.catalog.AdminSearch(c.Context(), search, page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// DeleteDownload handles DELETE /api/admin/downloads/:id
func (h *AdminHandler) DeleteDownload(c fiber.Ctx) error {
	if err := h.catalog.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// SponsoredAnalytics handles GET /api/admin/sponsored/analytics
func (h *AdminHandler) SponsoredAnalytics(c fiber.Ctx) error {
	analytics, err := h.catalog.SponsoredAnalytics(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(analytics)
}

// CreateCategory handles POST /api/admin/categories
func (h *AdminHandler) CreateCategory(c fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if req.Name == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELD", "name is required")
	}
	if req.Type != "all" && !model.DownloadTypes[req.Type] {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD",
			"type must be one of game, software, movie, tv_show, all")
	}

	cat := model.Category{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Type:      req.Type,
		CreatedAt: time.Now().UTC(),
	}
	created, err := h.categories.Insert(c.Context(), cat)
	if err != nil {
		return respondError(c, err)
	}
	if !created {
		return middleware.ErrorResponse(c, fiber.StatusConflict, "DUPLICATE", "Category already exists")
	}
	return c.Status(fiber.StatusCreated).JSON(cat)
}

// DeleteCategory handles DELETE /api/admin/categories/:id
func (h *AdminHandler) DeleteCategory(c fiber.Ctx) error {
	if err := h.categories.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
