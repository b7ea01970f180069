package model

// Clamp bounds applied by the settings service on admin updates.
const (
	MinDailySubmissionLimit = 5
	MaxDailySubmissionLimit = 100
	MinTopDownloadsCount    = 5
	MaxTopDownloadsCount    = 20
	MaxSponsoredDownloads   = 5
)

// SiteSettings is the singleton site configuration document. It is mutated
// only through admin endpoints and read by the submission validator (limit,
// captcha toggles) and the catalog engine (top-downloads settings).
type SiteSettings struct {
	DailySubmissionLimit int                 `json:"daily_submission_limit"`
	TopDownloadsEnabled  bool                `json:"top_downloads_enabled"`
	TopDownloadsCount    int                 `json:"top_downloads_count"`
	SponsoredDownloads   []SponsoredDownload `json:"sponsored_downloads"`

	TrendingDownloadsEnabled bool `json:"trending_downloads_enabled"`
	TrendingDownloadsCount   int  `json:"trending_downloads_count"`

	// Branding / typography
	SiteName          string `json:"site_name"`
	SiteNameFontColor string `json:"site_name_font_color"`
	BodyFontFamily    string `json:"body_font_family"`
	ThemeMode         string `json:"theme_mode"`
	ThemeAccentColor  string `json:"theme_accent_color"`

	// Footer
	FooterEnabled       bool   `json:"footer_enabled"`
	FooterLine1Template string `json:"footer_line1_template"`
	FooterLine2Template string `json:"footer_line2_template"`

	AutoApproveSubmissions bool `json:"auto_approve_submissions"`

	// Google reCAPTCHA v2
	RecaptchaSiteKey      string `json:"recaptcha_site_key,omitempty"`
	RecaptchaSecretKey    string `json:"recaptcha_secret_key,omitempty"`
	RecaptchaEnableSubmit bool   `json:"recaptcha_enable_submit"`
	RecaptchaEnableAuth   bool   `json:"recaptcha_enable_auth"`

	// Resend email provider
	ResendAPIKey      string `json:"resend_api_key,omitempty"`
	ResendSenderEmail string `json:"resend_sender_email,omitempty"`

	// Admin credentials stored alongside settings (set from the admin UI)
	AdminEmail        string `json:"admin_email,omitempty"`
	AdminPasswordHash string `json:"admin_password_hash,omitempty"`
}

// DefaultSiteSettings returns the settings document created on first read.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		DailySubmissionLimit:   10,
		TopDownloadsEnabled:    true,
		TopDownloadsCount:      5,
		SponsoredDownloads:     []SponsoredDownload{},
		TrendingDownloadsCount: 5,
		SiteName:               "DOWNLOAD ZONE",
		SiteNameFontColor:      "#00FF41",
		BodyFontFamily:         "JetBrains Mono",
		ThemeMode:              "dark",
		ThemeAccentColor:       "#00FF41",
		FooterEnabled:          true,
		FooterLine1Template:    "For DMCA copyright complaints send an email to {admin_email}.",
		FooterLine2Template:    "Copyright © {site_name} {year}. All rights reserved.",
	}
}

// Public returns a copy with secret material stripped for the public
// /api/settings endpoint.
func (s SiteSettings) Public() SiteSettings {
	s.ResendAPIKey = ""
	s.RecaptchaSecretKey = ""
	s.AdminPasswordHash = ""
	return s
}

// SiteSettingsUpdate is the admin settings patch. Nil fields are untouched.
type SiteSettingsUpdate struct {
	DailySubmissionLimit *int                 `json:"daily_submission_limit,omitempty"`
	TopDownloadsEnabled  *bool                `json:"top_downloads_enabled,omitempty"`
	TopDownloadsCount    *int                 `json:"top_downloads_count,omitempty"`
	SponsoredDownloads   *[]SponsoredDownload `json:"sponsored_downloads,omitempty"`

	TrendingDownloadsEnabled *bool `json:"trending_downloads_enabled,omitempty"`
	TrendingDownloadsCount   *int  `json:"trending_downloads_count,omitempty"`

	SiteName          *string `json:"site_name,omitempty"`
	SiteNameFontColor *string `json:"site_name_font_color,omitempty"`
	BodyFontFamily    *string `json:"body_font_family,omitempty"`
	ThemeMode         *string `json:"theme_mode,omitempty"`
	ThemeAccentColor  *string `json:"theme_accent_color,omitempty"`

	FooterEnabled       *bool   `json:"footer_enabled,omitempty"`
	FooterLine1Template *string `json:"footer_line1_template,omitempty"`
	FooterLine2Template *string `json:"footer_line2_template,omitempty"`

	AutoApproveSubmissions *bool `json:"auto_approve_submissions,omitempty"`

	RecaptchaSiteKey      *string `json:"recaptcha_site_key,omitempty"`
	RecaptchaSecretKey    *string `json:"recaptcha_secret_key,omitempty"`
	RecaptchaEnableSubmit *bool   `json:"recaptcha_enable_submit,omitempty"`
	RecaptchaEnableAuth   *bool   `json:"recaptcha_enable_auth,omitempty"`

	AdminEmail *string `json:"admin_email,omitempty"`
}

// ResendSettingsUpdate patches only the email provider settings.
type ResendSettingsUpdate struct {
	ResendAPIKey      *string `json:"resend_api_key,omitempty"`
	ResendSenderEmail *string `json:"resend_sender_email,omitempty"`
}
