package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/454Muscle/DDL-sub000/internal/handler"
	"github.com/454Muscle/DDL-sub000/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Captcha    *handler.CaptchaHandler
	Submission *handler.SubmissionHandler
	Download   *handler.DownloadHandler
	Settings   *handler.SettingsHandler
	Auth       *handler.AuthHandler
	Admin      *handler.AdminHandler
	Health     *handler.HealthHandler
}

// Options carries router-level configuration.
type Options struct {
	CORSOrigins   string
	AdminToken    string
	AdminSessions *middleware.AdminSessions
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, opts Options) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(opts.CORSOrigins))

	// Probes and metrics (before API group, no auth needed)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	api := app.Group("/api")

	// Per-IP abuse throttles; the daily submission quota is enforced in the
	// service layer.
	captchaRL := middleware.NewCaptchaRateLimiter()
	submitRL := middleware.NewSubmitRateLimiter()
	authRL := middleware.NewAuthRateLimiter()
	resetRL := middleware.NewPasswordResetRateLimiter()
	clickRL := middleware.NewClickRateLimiter()

	// Captcha
	api.Get("/captcha", h.Captcha.Get, captchaRL.Handler())
	api.Get("/recaptcha/settings", h.Captcha.RecaptchaSettings)

	// Submissions
	api.Post("/submissions", h.Submission.Create, submitRL.Handler())
	api.Post("/submissions/bulk", h.Submission.CreateBulk, submitRL.Handler())
	api.Get("/submissions/remaining", h.Submission.Remaining)

	// Catalog
	api.Get("/downloads", h.Download.List)
	api.Get("/downloads/top", h.Download.Top)
	api.Get("/downloads/trending", h.Download.Trending)
	api.Post("/downloads/:id/increment", h.Download.Increment, clickRL.Handler())
	api.Post("/downloads/:id/track", h.Download.Increment, clickRL.Handler())
	api.Post("/sponsored/:id/click", h.Download.SponsoredClick, clickRL.Handler())
	api.Get("/categories", h.Download.Categories)
	api.Get("/tags", h.Download.Tags)
	api.Get("/stats", h.Download.Stats)
	api.Get("/settings", h.Settings.Public)

	// Accounts
	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register, authRL.Handler())
	auth.Post("/login", h.Auth.Login, authRL.Handler())
	auth.Post("/forgot-password", h.Auth.ForgotPassword, resetRL.Handler())
	auth.Post("/reset-password", h.Auth.ResetPassword, resetRL.Handler())
	auth.Get("/user/:id", h.Auth.GetUser)

	// Admin: credential endpoints reachable without a session
	admin := api.Group("/admin")
	admin.Post("/init", h.Admin.Init, authRL.Handler())
	admin.Post("/login", h.Admin.Login, authRL.Handler())
	admin.Post("/forgot-password", h.Admin.ForgotPassword, resetRL.Handler())
	admin.Post("/reset-password", h.Admin.ResetPassword, resetRL.Handler())
	admin.Post("/password/change-confirm", h.Admin.ChangePasswordConfirm, resetRL.Handler())

	// Everything else behind the bearer-token guard
	guarded := admin.Group("", middleware.RequireAdmin(opts.AdminSessions, opts.AdminToken))
	guarded.Post("/logout", h.Admin.Logout)
	guarded.Post("/password/change-request", h.Admin.ChangePasswordRequest)
	guarded.Put("/email", h.Admin.UpdateEmail)

	guarded.Get("/submissions", h.Admin.ListSubmissions)
	guarded.Get("/submissions/unseen-count", h.Admin.UnseenCount)
	guarded.Post("/submissions/bulk-approve", h.Admin.BulkApprove)
	guarded.Post("/submissions/bulk-delete", h.Admin.BulkDelete)
	guarded.Post("/submissions/:id/approve", h.Admin.Approve)
	guarded.Post("/submissions/:id/reject", h.Admin.Reject)
	guarded.Delete("/submissions/:id", h.Admin.DeleteSubmission)

	guarded.Get("/downloads", h.Admin.SearchDownloads)
	guarded.Delete("/downloads/:id", h.Admin.DeleteDownload)
	guarded.Get("/sponsored/analytics", h.Admin.SponsoredAnalytics)

	guarded.Post("/categories", h.Admin.CreateCategory)
	guarded.Delete("/categories/:id", h.Admin.DeleteCategory)

	guarded.Put("/settings", h.Settings.Update)
	guarded.Put("/settings/resend", h.Settings.UpdateResend)
	guarded.Post("/settings/resend/test", h.Settings.TestEmail)
}
