package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/454Muscle/DDL-sub000/internal/model"
	"github.com/454Muscle/DDL-sub000/internal/repository"
	"github.com/454Muscle/DDL-sub000/pkg/filesize"
)

// SubmissionStore is the persistence contract the validator needs.
type SubmissionStore interface {
	Insert(ctx context.Context, s model.Submission) error
	Approve(ctx context.Context, id string) (*model.Submission, error)
}

// QuotaStore tracks daily submission quota per identity.
type QuotaStore interface {
	Usage(ctx context.Context, identity string, limit int) (model.RemainingQuota, error)
	TryConsume(ctx context.Context, identity string, n, limit int) error
}

// SettingsSource provides the current site settings.
type SettingsSource interface {
	Get(ctx context.Context) (model.SiteSettings, error)
}

// CaptchaVerifier checks a math-captcha answer.
type CaptchaVerifier interface {
	Verify(id string, answer int) error
}

// RecaptchaVerifier checks a third-party recaptcha token.
type RecaptchaVerifier interface {
	Verify(ctx context.Context, recaptchaToken, secretKey, remoteIP string) error
}

// SubmissionService runs the submission pipeline: field validation, then the
// captcha gate, then the rate-limit gate, then the pending insert. The order
// is load-bearing — a failed captcha must never consume quota.
type SubmissionService struct {
	subs      SubmissionStore
	quota     QuotaStore
	settings  SettingsSource
	captcha   CaptchaVerifier
	recaptcha RecaptchaVerifier
	email     *EmailService
}

func NewSubmissionService(subs SubmissionStore, quota QuotaStore, settings SettingsSource,
	captcha CaptchaVerifier, recaptcha RecaptchaVerifier, email *EmailService) *SubmissionService {
	return &SubmissionService{
		subs:      subs,
		quota:     quota,
		settings:  settings,
		captcha:   captcha,
		recaptcha: recaptcha,
		email:     email,
	}
}

// Submit validates and records one submission, returning the stored record.
func (s *SubmissionService) Submit(ctx context.Context, req model.SubmissionCreate, clientIP string) (*model.Submission, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	if err := validateFields(req); err != nil {
		return nil, err
	}

	if err := s.verifyCaptcha(ctx, settings, req.CaptchaID, req.CaptchaAnswer, req.RecaptchaToken, clientIP); err != nil {
		return nil, err
	}

	identity := repository.Identity(req.SubmitterEmail, clientIP)
	if err := s.quota.TryConsume(ctx, identity, 1, settings.DailySubmissionLimit); err != nil {
		return nil, err
	}

	sub := buildSubmission(req)
	if err := s.subs.Insert(ctx, sub); err != nil {
		return nil, err
	}

	if s.email != nil {
		s.email.SubmissionReceived(sub)
		s.email.AdminSummary(ctx, 1)
	}

	if settings.AutoApproveSubmissions {
		approved, err := s.subs.Approve(ctx, sub.ID)
		if err != nil {
			return nil, err
		}
		return approved, nil
	}
	return &sub, nil
}

// SubmitBulk records a batch of submissions under one captcha check. The
// batch is admitted against the daily quota as a block: if quota can't hold
// all items, nothing is accepted.
func (s *SubmissionService) SubmitBulk(ctx context.Context, payload model.BulkSubmissionCreate, clientIP string) (int, error) {
	if len(payload.Items) == 0 {
		return 0, &model.MissingFieldError{Field: "items"}
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return 0, err
	}

	for i := range payload.Items {
		if payload.Items[i].SubmitterEmail == "" {
			payload.Items[i].SubmitterEmail = payload.SubmitterEmail
		}
		if err := validateFields(payload.Items[i]); err != nil {
			return 0, err
		}
	}

	if err := s.verifyCaptcha(ctx, settings, payload.CaptchaID, payload.CaptchaAnswer, payload.RecaptchaToken, clientIP); err != nil {
		return 0, err
	}

	identity := repository.Identity(payload.SubmitterEmail, clientIP)
	if err := s.quota.TryConsume(ctx, identity, len(payload.Items), settings.DailySubmissionLimit); err != nil {
		return 0, err
	}

	created := 0
	var first model.Submission
	for i, item := range payload.Items {
		sub := buildSubmission(item)
		if err := s.subs.Insert(ctx, sub); err != nil {
			return created, err
		}
		if i == 0 {
			first = sub
		}
		created++

		if settings.AutoApproveSubmissions {
			if _, err := s.subs.Approve(ctx, sub.ID); err != nil {
				return created, err
			}
		}
	}

	if s.email != nil {
		if payload.SubmitterEmail != "" {
			first.SubmitterEmail = &payload.SubmitterEmail
			s.email.SubmissionReceived(first)
		}
		s.email.AdminSummary(ctx, created)
	}
	return created, nil
}

// Remaining reports today's quota for a submitter identity.
func (s *SubmissionService) Remaining(ctx context.Context, submitterEmail, clientIP string) (model.RemainingQuota, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return model.RemainingQuota{}, err
	}
	identity := repository.Identity(submitterEmail, clientIP)
	return s.quota.Usage(ctx, identity, settings.DailySubmissionLimit)
}

// verifyCaptcha runs whichever captcha gate the settings select. Math
// captcha failures collapse into ErrCaptchaFailed; recaptcha configuration
// and upstream faults keep their own identity so handlers can distinguish
// a transient 502 from a user error.
func (s *SubmissionService) verifyCaptcha(ctx context.Context, settings model.SiteSettings,
	captchaID string, captchaAnswer *int, recaptchaToken, clientIP string) error {
	if settings.RecaptchaEnableSubmit {
		if settings.RecaptchaSiteKey == "" || settings.RecaptchaSecretKey == "" {
			return model.ErrRecaptchaUnconfigured
		}
		return s.recaptcha.Verify(ctx, recaptchaToken, settings.RecaptchaSecretKey, clientIP)
	}
	if captchaID == "" || captchaAnswer == nil {
		return model.ErrCaptchaFailed
	}
	return s.captcha.Verify(captchaID, *captchaAnswer)
}

func validateFields(req model.SubmissionCreate) error {
	if strings.TrimSpace(req.Name) == "" {
		return &model.MissingFieldError{Field: "name"}
	}
	if strings.TrimSpace(req.DownloadLink) == "" {
		return &model.MissingFieldError{Field: "download_link"}
	}
	if !model.DownloadTypes[req.Type] {
		return &model.InvalidFieldError{Field: "type", Reason: "must be one of game, software, movie, tv_show"}
	}
	if u := strings.TrimSpace(req.SiteURL); u != "" &&
		!strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return &model.InvalidFieldError{Field: "site_url", Reason: "must start with http:// or https://"}
	}
	return nil
}

// buildSubmission normalizes the request into a pending submission record.
func buildSubmission(req model.SubmissionCreate) model.Submission {
	sub := model.Submission{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(req.Name),
		DownloadLink:   strings.TrimSpace(req.DownloadLink),
		Type:           req.Type,
		SubmissionDate: repository.Today(),
		Status:         model.StatusPending,
		CreatedAt:      time.Now().UTC(),
		Tags:           NormalizeTags(req.Tags),
	}
	if v := strings.TrimSpace(req.FileSize); v != "" {
		sub.FileSize = &v
		sub.FileSizeBytes = filesize.ParsePtr(v)
	}
	if v := strings.TrimSpace(req.Description); v != "" {
		sub.Description = &v
	}
	if v := strings.TrimSpace(req.Category); v != "" {
		sub.Category = &v
	}
	if v := strings.TrimSpace(req.SiteName); v != "" {
		sub.SiteName = &v
	}
	if v := strings.TrimSpace(req.SiteURL); v != "" {
		sub.SiteURL = &v
	}
	if v := strings.ToLower(strings.TrimSpace(req.SubmitterEmail)); v != "" {
		sub.SubmitterEmail = &v
	}
	return sub
}

// NormalizeTags trims, lowercases, dedupes and caps the tag list while
// preserving first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := []string{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
		if len(out) == model.MaxTags {
			break
		}
	}
	return out
}
