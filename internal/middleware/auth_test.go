package middleware

import (
	"testing"
	"time"
)

func TestAdminSessions_IssueAndValidate(t *testing.T) {
	s := NewAdminSessions(time.Hour)

	tok := s.Issue()
	if tok == "" {
		t.Fatal("empty session token")
	}
	if !s.Valid(tok) {
		t.Error("freshly issued token rejected")
	}
	if s.Valid("made-up-token") {
		t.Error("unknown token accepted")
	}
}

func TestAdminSessions_Revoke(t *testing.T) {
	s := NewAdminSessions(time.Hour)

	tok := s.Issue()
	s.Revoke(tok)
	if s.Valid(tok) {
		t.Error("revoked token still valid")
	}
}

func TestAdminSessions_Expiry(t *testing.T) {
	s := NewAdminSessions(10 * time.Millisecond)

	tok := s.Issue()
	time.Sleep(20 * time.Millisecond)
	if s.Valid(tok) {
		t.Error("expired token still valid")
	}
}

func TestAdminSessions_TokensAreUnique(t *testing.T) {
	s := NewAdminSessions(time.Hour)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok := s.Issue()
		if seen[tok] {
			t.Fatal("duplicate session token issued")
		}
		seen[tok] = true
	}
}
