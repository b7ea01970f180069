package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/454Muscle/DDL-sub000/internal/model"
)

// DefaultResendURL is the Resend send-email endpoint.
const DefaultResendURL = "https://api.resend.com/emails"

// EmailService sends transactional mail through the Resend API. Credentials
// come from site settings with env-var fallbacks; when neither is configured
// every send becomes a logged no-op. Email failure never fails the request
// that triggered it — call sites log and continue.
type EmailService struct {
	settings *SettingsService
	client   *http.Client
	apiURL   string

	fallbackAPIKey string
	fallbackSender string
	frontendURL    string
}

func NewEmailService(settings *SettingsService, apiURL, fallbackAPIKey, fallbackSender, frontendURL string) *EmailService {
	if apiURL == "" {
		apiURL = DefaultResendURL
	}
	return &EmailService{
		settings:       settings,
		client:         &http.Client{Timeout: 10 * time.Second},
		apiURL:         apiURL,
		fallbackAPIKey: fallbackAPIKey,
		fallbackSender: fallbackSender,
		frontendURL:    frontendURL,
	}
}

// Send delivers one email. Returns an error for the caller to log; callers
// must not propagate it into their request outcome.
func (s *EmailService) Send(ctx context.Context, to, subject, html string) error {
	apiKey, sender := s.credentials(ctx)
	if apiKey == "" || sender == "" || to == "" {
		log.Info().Str("subject", subject).Msg("email not sent: provider not configured")
		return nil
	}

	payload, err := json.Marshal(map[string]any{
		"from":    sender,
		"to":      []string{to},
		"subject": subject,
		"html":    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("resend: status %d", resp.StatusCode)
	}
	return nil
}

// Configured reports whether the provider has an API key and sender set.
func (s *EmailService) Configured(ctx context.Context) bool {
	apiKey, sender := s.credentials(ctx)
	return apiKey != "" && sender != ""
}

// SendAsync fires Send on its own goroutine with a fresh timeout, logging
// any failure. Used everywhere mail must not block or fail a request.
func (s *EmailService) SendAsync(to, subject, html string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.Send(ctx, to, subject, html); err != nil {
			log.Error().Err(err).Str("subject", subject).Msg("email send failed")
		}
	}()
}

func (s *EmailService) credentials(ctx context.Context) (apiKey, sender string) {
	apiKey, sender = s.fallbackAPIKey, s.fallbackSender
	if s.settings == nil {
		return
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("email: settings lookup failed, using env fallback")
		return
	}
	if settings.ResendAPIKey != "" {
		apiKey = settings.ResendAPIKey
	}
	if settings.ResendSenderEmail != "" {
		sender = settings.ResendSenderEmail
	}
	return
}

// SubmissionReceived notifies a submitter that their entry is pending.
func (s *EmailService) SubmissionReceived(sub model.Submission) {
	if sub.SubmitterEmail == nil || *sub.SubmitterEmail == "" {
		return
	}
	html := fmt.Sprintf(`
		<h2>Submission received</h2>
		<p>Your submission is pending admin approval.</p>
		<table>
		<tr><td>Name</td><td>%s</td></tr>
		<tr><td>Type</td><td>%s</td></tr>
		<tr><td>Date</td><td>%s</td></tr>
		</table>
		<p><a href="%s/submit">Submit another file</a></p>`,
		sub.Name, sub.Type, sub.SubmissionDate, s.frontendURL)
	s.SendAsync(*sub.SubmitterEmail, "Submission received: "+sub.Name, html)
}

// SubmissionApproved notifies a submitter their entry went live.
func (s *EmailService) SubmissionApproved(sub model.Submission) {
	if sub.SubmitterEmail == nil || *sub.SubmitterEmail == "" {
		return
	}
	html := fmt.Sprintf(`
		<h2>Submission approved</h2>
		<p>%q is now listed in the catalog.</p>`, sub.Name)
	s.SendAsync(*sub.SubmitterEmail, "Submission approved: "+sub.Name, html)
}

// AdminSummary notifies the admin about newly arrived submissions.
func (s *EmailService) AdminSummary(ctx context.Context, count int) {
	if s.settings == nil {
		return
	}
	settings, err := s.settings.Get(ctx)
	if err != nil || settings.AdminEmail == "" {
		return
	}
	html := fmt.Sprintf(`<p>%d new submission(s) are waiting for review.</p>`, count)
	s.SendAsync(settings.AdminEmail, "New submissions pending review", html)
}

// PasswordReset sends a magic link for a user or admin reset flow.
func (s *EmailService) PasswordReset(to, path, resetToken string) {
	link := fmt.Sprintf("%s%s?token=%s", s.frontendURL, path, resetToken)
	html := fmt.Sprintf(`
		<h2>Password reset</h2>
		<p>Click the link below to continue. It expires in 30 minutes.</p>
		<p><a href="%s">Continue</a></p>`, link)
	s.SendAsync(to, "Password reset", html)
}
