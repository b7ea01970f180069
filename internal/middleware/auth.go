package middleware

import (
	"crypto/subtle"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/454Muscle/DDL-sub000/pkg/token"
)

// AdminSessionTTL is how long an admin login stays valid without re-auth.
const AdminSessionTTL = 24 * time.Hour

// AdminSessions is an in-memory bearer-token session store for the admin
// panel. Sessions do not survive a restart; the admin just logs in again.
type AdminSessions struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	ttl    time.Duration
}

func NewAdminSessions(ttl time.Duration) *AdminSessions {
	s := &AdminSessions{
		tokens: make(map[string]time.Time),
		ttl:    ttl,
	}
	go s.cleanup()
	return s
}

// Issue mints a new session token.
func (s *AdminSessions) Issue() string {
	tok := token.New()
	s.mu.Lock()
	s.tokens[tok] = time.Now().Add(s.ttl)
	s.mu.Unlock()
	return tok
}

// Valid reports whether the token belongs to a live session.
func (s *AdminSessions) Valid(tok string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.tokens[tok]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.tokens, tok)
		return false
	}
	return true
}

// Revoke ends a session (logout).
func (s *AdminSessions) Revoke(tok string) {
	s.mu.Lock()
	delete(s.tokens, tok)
	s.mu.Unlock()
}

func (s *AdminSessions) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for tok, expiry := range s.tokens {
			if now.After(expiry) {
				delete(s.tokens, tok)
			}
		}
		s.mu.Unlock()
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c fiber.Ctx) string {
	auth := c.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(auth[len("Bearer "):])
	}
	return ""
}

// RequireAdmin guards the admin route group. A request passes with a live
// session token or, for automation, the static API token from the
// environment.
func RequireAdmin(sessions *AdminSessions, staticToken string) fiber.Handler {
	return func(c fiber.Ctx) error {
		tok := BearerToken(c)
		if tok == "" {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Missing admin token")
		}
		if sessions.Valid(tok) {
			return c.Next()
		}
		if staticToken != "" && subtle.ConstantTimeCompare([]byte(tok), []byte(staticToken)) == 1 {
			return c.Next()
		}
		return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired admin token")
	}
}
