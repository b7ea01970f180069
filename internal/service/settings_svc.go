package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/454Muscle/DDL-sub000/internal/model"
)

// SettingsStore is the persistence contract for the settings singleton.
type SettingsStore interface {
	Get(ctx context.Context) (model.SiteSettings, error)
	Save(ctx context.Context, s model.SiteSettings) error
}

// SettingsService reads and mutates the site-settings document, applying
// the admin clamping rules on writes and caching reads.
type SettingsService struct {
	store SettingsStore
	cache *CacheService
}

func NewSettingsService(store SettingsStore, cache *CacheService) *SettingsService {
	return &SettingsService{store: store, cache: cache}
}

// Get returns the current settings, cache-aside.
func (s *SettingsService) Get(ctx context.Context) (model.SiteSettings, error) {
	var cached model.SiteSettings
	if s.cache != nil && s.cache.GetJSON(ctx, settingsCacheKey, &cached) {
		return cached, nil
	}

	settings, err := s.store.Get(ctx)
	if err != nil {
		return model.SiteSettings{}, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, settingsCacheKey, settings, SettingsCacheTTL); err != nil {
			log.Warn().Err(err).Msg("cache: settings set failed")
		}
	}
	return settings, nil
}

// Update applies an admin patch. Numeric knobs are clamped to their allowed
// ranges, sponsored slots are capped, and enabling either reCAPTCHA toggle
// requires both keys to be present.
func (s *SettingsService) Update(ctx context.Context, update model.SiteSettingsUpdate) (model.SiteSettings, error) {
	settings, err := s.store.Get(ctx)
	if err != nil {
		return model.SiteSettings{}, err
	}

	ApplySettingsUpdate(&settings, update)

	if (settings.RecaptchaEnableSubmit || settings.RecaptchaEnableAuth) &&
		(settings.RecaptchaSiteKey == "" || settings.RecaptchaSecretKey == "") {
		return model.SiteSettings{}, &model.InvalidFieldError{
			Field:  "recaptcha_enable_submit",
			Reason: "reCAPTCHA keys are required when enabling reCAPTCHA",
		}
	}

	if err := s.persist(ctx, settings); err != nil {
		return model.SiteSettings{}, err
	}
	return settings, nil
}

// UpdateResend patches only the email provider settings.
func (s *SettingsService) UpdateResend(ctx context.Context, update model.ResendSettingsUpdate) (model.SiteSettings, error) {
	settings, err := s.store.Get(ctx)
	if err != nil {
		return model.SiteSettings{}, err
	}
	if update.ResendAPIKey != nil {
		settings.ResendAPIKey = strings.TrimSpace(*update.ResendAPIKey)
	}
	if update.ResendSenderEmail != nil {
		settings.ResendSenderEmail = strings.TrimSpace(*update.ResendSenderEmail)
	}
	if err := s.persist(ctx, settings); err != nil {
		return model.SiteSettings{}, err
	}
	return settings, nil
}

// Save persists a settings document verbatim (admin credential flows).
func (s *SettingsService) Save(ctx context.Context, settings model.SiteSettings) error {
	return s.persist(ctx, settings)
}

func (s *SettingsService) persist(ctx context.Context, settings model.SiteSettings) error {
	if err := s.store.Save(ctx, settings); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, settingsCacheKey, topCacheKey); err != nil {
			log.Warn().Err(err).Msg("cache: settings invalidate failed")
		}
	}
	return nil
}

// ApplySettingsUpdate merges a patch into a settings document, clamping
// values to their allowed ranges. Exported for tests.
func ApplySettingsUpdate(settings *model.SiteSettings, u model.SiteSettingsUpdate) {
	if u.DailySubmissionLimit != nil {
		settings.DailySubmissionLimit = clamp(*u.DailySubmissionLimit,
			model.MinDailySubmissionLimit, model.MaxDailySubmissionLimit)
	}
	if u.TopDownloadsEnabled != nil {
		settings.TopDownloadsEnabled = *u.TopDownloadsEnabled
	}
	if u.TopDownloadsCount != nil {
		settings.TopDownloadsCount = clamp(*u.TopDownloadsCount,
			model.MinTopDownloadsCount, model.MaxTopDownloadsCount)
	}
	if u.SponsoredDownloads != nil {
		sponsored := *u.SponsoredDownloads
		if len(sponsored) > model.MaxSponsoredDownloads {
			sponsored = sponsored[:model.MaxSponsoredDownloads]
		}
		settings.SponsoredDownloads = sponsored
	}
	if u.TrendingDownloadsEnabled != nil {
		settings.TrendingDownloadsEnabled = *u.TrendingDownloadsEnabled
	}
	if u.TrendingDownloadsCount != nil {
		settings.TrendingDownloadsCount = clamp(*u.TrendingDownloadsCount,
			model.MinTopDownloadsCount, model.MaxTopDownloadsCount)
	}
	if u.SiteName != nil {
		settings.SiteName = strings.TrimSpace(*u.SiteName)
	}
	if u.SiteNameFontColor != nil {
		settings.SiteNameFontColor = *u.SiteNameFontColor
	}
	if u.BodyFontFamily != nil {
		settings.BodyFontFamily = *u.BodyFontFamily
	}
	if u.ThemeMode != nil {
		settings.ThemeMode = *u.ThemeMode
	}
	if u.ThemeAccentColor != nil {
		settings.ThemeAccentColor = *u.ThemeAccentColor
	}
	if u.FooterEnabled != nil {
		settings.FooterEnabled = *u.FooterEnabled
	}
	if u.FooterLine1Template != nil {
		settings.FooterLine1Template = *u.FooterLine1Template
	}
	if u.FooterLine2Template != nil {
		settings.FooterLine2Template = *u.FooterLine2Template
	}
	if u.AutoApproveSubmissions != nil {
		settings.AutoApproveSubmissions = *u.AutoApproveSubmissions
	}
	if u.RecaptchaSiteKey != nil {
		settings.RecaptchaSiteKey = strings.TrimSpace(*u.RecaptchaSiteKey)
	}
	if u.RecaptchaSecretKey != nil {
		settings.RecaptchaSecretKey = strings.TrimSpace(*u.RecaptchaSecretKey)
	}
	if u.RecaptchaEnableSubmit != nil {
		settings.RecaptchaEnableSubmit = *u.RecaptchaEnableSubmit
	}
	if u.RecaptchaEnableAuth != nil {
		settings.RecaptchaEnableAuth = *u.RecaptchaEnableAuth
	}
	if u.AdminEmail != nil {
		settings.AdminEmail = strings.ToLower(strings.TrimSpace(*u.AdminEmail))
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
