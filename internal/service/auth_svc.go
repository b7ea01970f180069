package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/454Muscle/DDL-sub000/internal/model"
	"github.com/454Muscle/DDL-sub000/pkg/hash"
	"github.com/454Muscle/DDL-sub000/pkg/token"
)

// ResetTokenTTL is how long a password-reset link stays valid.
const ResetTokenTTL = 30 * time.Minute

// UserStore is the account persistence contract.
type UserStore interface {
	Insert(ctx context.Context, u model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	CreateReset(ctx context.Context, reset model.PasswordReset) error
	ConsumeReset(ctx context.Context, token string) (*model.PasswordReset, error)
}

// AuthService handles user accounts and the admin credential lifecycle.
// Admin credentials live in the settings document; the env password is only
// a bootstrap fallback until one is set.
type AuthService struct {
	users     UserStore
	settings  *SettingsService
	captcha   CaptchaVerifier
	recaptcha RecaptchaVerifier
	email     *EmailService

	// bootstrap admin password from the environment, may be empty
	envAdminPassword string
}

func NewAuthService(users UserStore, settings *SettingsService, captcha CaptchaVerifier,
	recaptcha RecaptchaVerifier, email *EmailService, envAdminPassword string) *AuthService {
	return &AuthService{
		users:            users,
		settings:         settings,
		captcha:          captcha,
		recaptcha:        recaptcha,
		email:            email,
		envAdminPassword: envAdminPassword,
	}
}

// Register creates an account. The captcha gate follows the auth toggle the
// same way submissions follow the submit toggle.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest, clientIP string) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, &model.InvalidFieldError{Field: "email", Reason: "must be a valid email address"}
	}
	if len(req.Password) < 6 {
		return nil, &model.InvalidFieldError{Field: "password", Reason: "must be at least 6 characters"}
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.verifyAuthCaptcha(ctx, settings, req.CaptchaID, req.CaptchaAnswer, req.RecaptchaToken, clientIP); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, model.ErrEmailTaken
	} else if err != model.ErrNotFound {
		return nil, err
	}

	u := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash.Password(req.Password),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login checks account credentials. Wrong email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest, clientIP string) (*model.User, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings.RecaptchaEnableAuth {
		if settings.RecaptchaSiteKey == "" || settings.RecaptchaSecretKey == "" {
			return nil, model.ErrRecaptchaUnconfigured
		}
		if err := s.recaptcha.Verify(ctx, req.RecaptchaToken, settings.RecaptchaSecretKey, clientIP); err != nil {
			return nil, err
		}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	u, err := s.users.FindByEmail(ctx, email)
	if err == model.ErrNotFound {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !hashEqual(u.PasswordHash, hash.Password(req.Password)) {
		return nil, model.ErrInvalidCredentials
	}
	return u, nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

// ForgotPassword issues a reset token and emails the link. Unknown emails
// are a silent success so the endpoint can't be used to probe accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err == model.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	reset := model.PasswordReset{
		Token:     token.New(),
		Kind:      model.ResetKindUser,
		UserID:    u.ID,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(ResetTokenTTL),
	}
	if err := s.users.CreateReset(ctx, reset); err != nil {
		return err
	}
	if s.email != nil {
		s.email.PasswordReset(u.Email, "/reset-password", reset.Token)
	}
	return nil
}

// ResetPassword consumes a user reset token and sets the new password.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if len(newPassword) < 6 {
		return &model.InvalidFieldError{Field: "password", Reason: "must be at least 6 characters"}
	}
	reset, err := s.users.ConsumeReset(ctx, resetToken)
	if err != nil {
		return err
	}
	if reset.Kind != model.ResetKindUser {
		return model.ErrNotFound
	}
	return s.users.UpdatePassword(ctx, reset.UserID, hash.Password(newPassword))
}

// AdminInit sets the initial admin email and password. It only works once;
// after that changes go through the confirmation flow.
func (s *AuthService) AdminInit(ctx context.Context, email, password string) error {
	if len(password) < 6 {
		return &model.InvalidFieldError{Field: "password", Reason: "must be at least 6 characters"}
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if settings.AdminPasswordHash != "" {
		return model.ErrAdminInitialized
	}
	settings.AdminEmail = strings.ToLower(strings.TrimSpace(email))
	settings.AdminPasswordHash = hash.Password(password)
	return s.settings.Save(ctx, settings)
}

// AdminCheckPassword verifies the admin password against the stored hash,
// falling back to the bootstrap env password while no hash is set.
func (s *AuthService) AdminCheckPassword(ctx context.Context, password string) (bool, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return false, err
	}
	if settings.AdminPasswordHash != "" {
		return hashEqual(settings.AdminPasswordHash, hash.Password(password)), nil
	}
	if s.envAdminPassword != "" {
		return subtle.ConstantTimeCompare([]byte(s.envAdminPassword), []byte(password)) == 1, nil
	}
	return false, nil
}

// AdminChangeRequest starts a password change: the new hash is parked in a
// reset token and only applied when the emailed confirmation link is
// followed.
func (s *AuthService) AdminChangeRequest(ctx context.Context, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return &model.InvalidFieldError{Field: "new_password", Reason: "must be at least 6 characters"}
	}
	ok, err := s.AdminCheckPassword(ctx, currentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrInvalidCredentials
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if settings.AdminEmail == "" {
		return &model.MissingFieldError{Field: "admin_email"}
	}

	reset := model.PasswordReset{
		Token:           token.New(),
		Kind:            model.ResetKindAdminChange,
		NewPasswordHash: hash.Password(newPassword),
		CreatedAt:       time.Now().UTC(),
		ExpiresAt:       time.Now().UTC().Add(ResetTokenTTL),
	}
	if err := s.users.CreateReset(ctx, reset); err != nil {
		return err
	}
	if s.email != nil {
		s.email.PasswordReset(settings.AdminEmail, "/admin/confirm-password-change", reset.Token)
	}
	return nil
}

// AdminChangeConfirm applies a parked password change.
func (s *AuthService) AdminChangeConfirm(ctx context.Context, resetToken string) error {
	reset, err := s.users.ConsumeReset(ctx, resetToken)
	if err != nil {
		return err
	}
	if reset.Kind != model.ResetKindAdminChange {
		return model.ErrNotFound
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	settings.AdminPasswordHash = reset.NewPasswordHash
	return s.settings.Save(ctx, settings)
}

// AdminForgotPassword emails a reset link to the configured admin address.
// Any other email is a silent success.
func (s *AuthService) AdminForgotPassword(ctx context.Context, email string) error {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if settings.AdminEmail == "" || email != settings.AdminEmail {
		log.Debug().Msg("admin forgot-password request for non-admin address ignored")
		return nil
	}

	reset := model.PasswordReset{
		Token:     token.New(),
		Kind:      model.ResetKindAdminForgot,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(ResetTokenTTL),
	}
	if err := s.users.CreateReset(ctx, reset); err != nil {
		return err
	}
	if s.email != nil {
		s.email.PasswordReset(settings.AdminEmail, "/admin/reset-password", reset.Token)
	}
	return nil
}

// AdminResetPassword consumes an admin forgot-password token and sets the
// new password.
func (s *AuthService) AdminResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if len(newPassword) < 6 {
		return &model.InvalidFieldError{Field: "password", Reason: "must be at least 6 characters"}
	}
	reset, err := s.users.ConsumeReset(ctx, resetToken)
	if err != nil {
		return err
	}
	if reset.Kind != model.ResetKindAdminForgot {
		return model.ErrNotFound
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	settings.AdminPasswordHash = hash.Password(newPassword)
	return s.settings.Save(ctx, settings)
}

// AdminUpdateEmail changes the admin notification address after verifying
// the current password.
func (s *AuthService) AdminUpdateEmail(ctx context.Context, currentPassword, newEmail string) error {
	newEmail = strings.ToLower(strings.TrimSpace(newEmail))
	if newEmail == "" || !strings.Contains(newEmail, "@") {
		return &model.InvalidFieldError{Field: "email", Reason: "must be a valid email address"}
	}
	ok, err := s.AdminCheckPassword(ctx, currentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrInvalidCredentials
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	settings.AdminEmail = newEmail
	return s.settings.Save(ctx, settings)
}

func (s *AuthService) verifyAuthCaptcha(ctx context.Context, settings model.SiteSettings,
	captchaID string, captchaAnswer *int, recaptchaToken, clientIP string) error {
	if settings.RecaptchaEnableAuth {
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

func hashEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
