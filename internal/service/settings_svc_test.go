package service

import (
	"context"
	"errors"
	"testing"

	"github.com/454Muscle/DDL-sub000/internal/model"
)

type memSettingsStore struct {
	settings model.SiteSettings
}

func (m *memSettingsStore) Get(ctx context.Context) (model.SiteSettings, error) {
	return m.settings, nil
}

func (m *memSettingsStore) Save(ctx context.Context, s model.SiteSettings) error {
	m.settings = s
	return nil
}

func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

func TestSettingsUpdate_ClampsDailyLimit(t *testing.T) {
	svc := NewSettingsService(&memSettingsStore{settings: model.DefaultSiteSettings()}, nil)

	got, err := svc.Update(context.Background(), model.SiteSettingsUpdate{
		DailySubmissionLimit: intPtr(1000),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.DailySubmissionLimit != model.MaxDailySubmissionLimit {
		t.Errorf("limit = %d, want clamp to %d", got.DailySubmissionLimit, model.MaxDailySubmissionLimit)
	}

	got, err = svc.Update(context.Background(), model.SiteSettingsUpdate{
		DailySubmissionLimit: intPtr(1),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.DailySubmissionLimit != model.MinDailySubmissionLimit {
		t.Errorf("limit = %d, want clamp to %d", got.DailySubmissionLimit, model.MinDailySubmissionLimit)
	}
}

func TestSettingsUpdate_CapsSponsoredAtFive(t *testing.T) {
	svc := NewSettingsService(&memSettingsStore{settings: model.DefaultSiteSettings()}, nil)

	sponsored := make([]model.SponsoredDownload, 8)
	for i := range sponsored {
		sponsored[i] = model.SponsoredDownload{ID: string(rune('a' + i)), Name: "x", Type: "game"}
	}

	got, err := svc.Update(context.Background(), model.SiteSettingsUpdate{
		SponsoredDownloads: &sponsored,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.SponsoredDownloads) != model.MaxSponsoredDownloads {
		t.Errorf("sponsored count = %d, want %d", len(got.SponsoredDownloads), model.MaxSponsoredDownloads)
	}
	// Admin order preserved
	if got.SponsoredDownloads[0].ID != "a" || got.SponsoredDownloads[4].ID != "e" {
		t.Error("sponsored order must be preserved when truncating")
	}
}

func TestSettingsUpdate_RecaptchaRequiresBothKeys(t *testing.T) {
	svc := NewSettingsService(&memSettingsStore{settings: model.DefaultSiteSettings()}, nil)

	_, err := svc.Update(context.Background(), model.SiteSettingsUpdate{
		RecaptchaEnableSubmit: boolPtr(true),
		RecaptchaSiteKey:      strPtr("site-key"),
	})
	var fieldErr *model.InvalidFieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("err = %v, want InvalidFieldError", err)
	}

	_, err = svc.Update(context.Background(), model.SiteSettingsUpdate{
		RecaptchaEnableSubmit: boolPtr(true),
		RecaptchaSiteKey:      strPtr("site-key"),
		RecaptchaSecretKey:    strPtr("secret-key"),
	})
	if err != nil {
		t.Fatalf("update with both keys should succeed: %v", err)
	}
}

func TestSettingsUpdate_UntouchedFieldsSurvive(t *testing.T) {
	store := &memSettingsStore{settings: model.DefaultSiteSettings()}
	svc := NewSettingsService(store, nil)

	if _, err := svc.Update(context.Background(), model.SiteSettingsUpdate{
		AutoApproveSubmissions: boolPtr(true),
	}); err != nil {
		t.Fatal(err)
	}

	got := store.settings
	if !got.AutoApproveSubmissions {
		t.Error("auto_approve should be set")
	}
	if got.SiteName != "DOWNLOAD ZONE" || got.TopDownloadsCount != 5 {
		t.Error("unrelated fields must not change")
	}
}

func TestSettingsPublicView_StripsSecrets(t *testing.T) {
	s := model.DefaultSiteSettings()
	s.ResendAPIKey = "re_123"
	s.RecaptchaSecretKey = "sek"
	s.AdminPasswordHash = "deadbeef"

	pub := s.Public()
	if pub.ResendAPIKey != "" || pub.RecaptchaSecretKey != "" || pub.AdminPasswordHash != "" {
		t.Error("public settings view must strip secret material")
	}
	if pub.DailySubmissionLimit != s.DailySubmissionLimit {
		t.Error("non-secret fields must survive the public view")
	}
}
