package service

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/454Muscle/DDL-sub000/internal/model"
	"github.com/454Muscle/DDL-sub000/pkg/token"
)

// ChallengeTTL is how long an issued captcha stays answerable.
const ChallengeTTL = 5 * time.Minute

// CaptchaService issues and verifies single-use arithmetic challenges.
// Challenges live in memory with a TTL; a background sweep discards expired
// ones so the store stays bounded.
type CaptchaService struct {
	mu         sync.Mutex
	challenges map[string]model.Challenge
	now        func() time.Time
}

func NewCaptchaService() *CaptchaService {
	s := &CaptchaService{
		challenges: make(map[string]model.Challenge),
		now:        time.Now,
	}
	go s.sweep()
	return s
}

// Issue generates a new challenge and returns the client-facing view.
// The expected answer stays server-side.
func (s *CaptchaService) Issue() model.ChallengeResponse {
	a := rand.Intn(20) + 1
	b := rand.Intn(20) + 1

	op := "+"
	answer := a + b
	if rand.Intn(2) == 1 {
		// Subtraction never goes negative
		if a < b {
			a, b = b, a
		}
		op = "-"
		answer = a - b
	}

	now := s.now()
	ch := model.Challenge{
		ID:        token.New(),
		Question:  fmt.Sprintf("%d %s %d = ?", a, op, b),
		Answer:    answer,
		IssuedAt:  now,
		ExpiresAt: now.Add(ChallengeTTL),
	}

	s.mu.Lock()
	s.challenges[ch.ID] = ch
	s.mu.Unlock()

	return model.ChallengeResponse{ID: ch.ID, Challenge: ch.Question, ExpiresAt: ch.ExpiresAt}
}

// Verify checks an answer against a previously issued challenge. The
// challenge is invalidated on any outcome, so a given id can be attempted
// exactly once. Unknown, consumed or expired ids fail the same way as a
// wrong answer.
func (s *CaptchaService) Verify(id string, answer int) error {
	s.mu.Lock()
	ch, ok := s.challenges[id]
	if ok {
		delete(s.challenges, id)
	}
	s.mu.Unlock()

	if !ok || s.now().After(ch.ExpiresAt) || ch.Answer != answer {
		return model.ErrCaptchaFailed
	}
	return nil
}

func (s *CaptchaService) sweep() {
	ticker := time.NewTicker(time.Minute)
	for range ticker.C {
		now := s.now()
		s.mu.Lock()
		for id, ch := range s.challenges {
			if now.After(ch.ExpiresAt) {
				delete(s.challenges, id)
			}
		}
		s.mu.Unlock()
	}
}
