package service

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/454Muscle/DDL-sub000/internal/model"
)

// solve computes the expected answer from the issued question string.
func solve(t *testing.T, question string) int {
	t.Helper()
	parts := strings.Fields(question) // "12 + 7 = ?"
	if len(parts) != 5 {
		t.Fatalf("unexpected question format: %q", question)
	}
	a, _ := strconv.Atoi(parts[0])
	b, _ := strconv.Atoi(parts[2])
	switch parts[1] {
	case "+":
		return a + b
	case "-":
		return a - b
	}
	t.Fatalf("unexpected operator in %q", question)
	return 0
}

func TestCaptcha_CorrectAnswerPasses(t *testing.T) {
	s := NewCaptchaService()
	ch := s.Issue()
	if err := s.Verify(ch.ID, solve(t, ch.Challenge)); err != nil {
		t.Fatalf("correct answer rejected: %v", err)
	}
}

func TestCaptcha_WrongAnswerFails(t *testing.T) {
	s := NewCaptchaService()
	ch := s.Issue()
	err := s.Verify(ch.ID, solve(t, ch.Challenge)+1)
	if !errors.Is(err, model.ErrCaptchaFailed) {
		t.Fatalf("err = %v, want ErrCaptchaFailed", err)
	}
}

func TestCaptcha_SingleUseAfterSuccess(t *testing.T) {
	s := NewCaptchaService()
	ch := s.Issue()
	answer := solve(t, ch.Challenge)

	if err := s.Verify(ch.ID, answer); err != nil {
		t.Fatalf("first verify failed: %v", err)
	}
	if err := s.Verify(ch.ID, answer); !errors.Is(err, model.ErrCaptchaFailed) {
		t.Fatal("challenge must not be reusable after a successful verify")
	}
}

func TestCaptcha_SingleUseAfterFailure(t *testing.T) {
	s := NewCaptchaService()
	ch := s.Issue()
	answer := solve(t, ch.Challenge)

	s.Verify(ch.ID, answer+1) // burn it with a wrong answer
	if err := s.Verify(ch.ID, answer); !errors.Is(err, model.ErrCaptchaFailed) {
		t.Fatal("challenge must be invalidated even after a failed verify")
	}
}

func TestCaptcha_UnknownIDFails(t *testing.T) {
	s := NewCaptchaService()
	if err := s.Verify("no-such-id", 42); !errors.Is(err, model.ErrCaptchaFailed) {
		t.Fatalf("err = %v, want ErrCaptchaFailed", err)
	}
}

func TestCaptcha_ExpiredChallengeFails(t *testing.T) {
	s := NewCaptchaService()
	ch := s.Issue()
	answer := solve(t, ch.Challenge)

	// Move the clock past the TTL
	s.now = func() time.Time { return time.Now().Add(ChallengeTTL + time.Second) }

	if err := s.Verify(ch.ID, answer); !errors.Is(err, model.ErrCaptchaFailed) {
		t.Fatal("expired challenge must fail verification")
	}
}

func TestCaptcha_SubtractionNeverNegative(t *testing.T) {
	s := NewCaptchaService()
	for i := 0; i < 200; i++ {
		ch := s.Issue()
		if solve(t, ch.Challenge) < 0 {
			t.Fatalf("negative expected answer for %q", ch.Challenge)
		}
	}
}
