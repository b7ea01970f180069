package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/454Muscle/DDL-sub000/internal/model"
)

// memModeration is an in-memory ModerationStore mirroring the database
// transition rules: approve/reject require pending, delete works from any
// status exactly once.
type memModeration struct {
	mu   sync.Mutex
	byID map[string]model.Submission
}

func newMemModeration(subs ...model.Submission) *memModeration {
	m := &memModeration{byID: make(map[string]model.Submission)}
	for _, s := range subs {
		m.byID[s.ID] = s
	}
	return m
}

func (m *memModeration) Approve(_ context.Context, id string) (*model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	if s.Status != model.StatusPending {
		return nil, model.ErrInvalidTransition
	}
	s.Status = model.StatusApproved
	s.SeenByAdmin = true
	m.byID[id] = s
	return &s, nil
}

func (m *memModeration) Reject(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return model.ErrNotFound
	}
	if s.Status != model.StatusPending {
		return model.ErrInvalidTransition
	}
	s.Status = model.StatusRejected
	s.SeenByAdmin = true
	m.byID[id] = s
	return nil
}

func (m *memModeration) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return model.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memModeration) FindByID(_ context.Context, id string) (*model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &s, nil
}

func (m *memModeration) List(_ context.Context, status string, page, limit int) (model.PaginatedSubmissions, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []model.Submission
	for _, s := range m.byID {
		if status == "" || s.Status == status {
			items = append(items, s)
		}
	}
	return model.PaginatedSubmissions{Items: items, Total: len(items), Page: page, Pages: 1}, nil
}

func (m *memModeration) MarkSeen(_ context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if s, ok := m.byID[id]; ok {
			s.SeenByAdmin = true
			m.byID[id] = s
		}
	}
	return nil
}

func (m *memModeration) CountPending(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.byID {
		if s.Status == model.StatusPending {
			n++
		}
	}
	return n, nil
}

func pendingSubmission(id string) model.Submission {
	return model.Submission{
		ID:           id,
		Name:         "Entry " + id,
		DownloadLink: "https://dl.example.com/" + id,
		Type:         "game",
		Status:       model.StatusPending,
	}
}

func TestModerationApproveIsOneWay(t *testing.T) {
	store := newMemModeration(pendingSubmission("a"))
	svc := NewModerationService(store, nil)
	ctx := context.Background()

	sub, err := svc.Approve(ctx, "a")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if sub.Status != model.StatusApproved {
		t.Errorf("status = %q, want approved", sub.Status)
	}

	if _, err := svc.Approve(ctx, "a"); !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("second approve err = %v, want ErrInvalidTransition", err)
	}
	if err := svc.Reject(ctx, "a"); !errors.Is(err, model.ErrInvalidTransition) {
		t.Errorf("reject after approve err = %v, want ErrInvalidTransition", err)
	}
}

func TestModerationUnknownIDIsNotFound(t *testing.T) {
	svc := NewModerationService(newMemModeration(), nil)
	ctx := context.Background()

	if _, err := svc.Approve(ctx, "ghost"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("approve err = %v, want ErrNotFound", err)
	}
	if err := svc.Reject(ctx, "ghost"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("reject err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, "ghost"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("delete err = %v, want ErrNotFound", err)
	}
}

func TestModerationDeleteIsSingleShot(t *testing.T) {
	store := newMemModeration(pendingSubmission("a"))
	svc := NewModerationService(store, nil)
	ctx := context.Background()

	if _, err := svc.Approve(ctx, "a"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := svc.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, "a"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestModerationBulkIsolatesFailures(t *testing.T) {
	store := newMemModeration(
		pendingSubmission("a"),
		pendingSubmission("b"),
		pendingSubmission("c"),
	)
	svc := NewModerationService(store, nil)
	ctx := context.Background()

	// "b" is already approved, "ghost" doesn't exist; "a" and "c" must
	// still go through.
	if _, err := svc.Approve(ctx, "b"); err != nil {
		t.Fatalf("setup approve: %v", err)
	}

	res := svc.ApproveMany(ctx, []string{"a", "b", "ghost", "c"})
	if res.SuccessCount != 2 || res.FailureCount != 2 {
		t.Errorf("bulk approve = %+v, want 2 successes and 2 failures", res)
	}

	n, _ := svc.PendingCount(ctx)
	if n != 0 {
		t.Errorf("pending count = %d, want 0", n)
	}
}

func TestModerationListMarksPendingSeen(t *testing.T) {
	store := newMemModeration(pendingSubmission("a"), pendingSubmission("b"))
	svc := NewModerationService(store, nil)
	ctx := context.Background()

	if _, err := svc.List(ctx, model.StatusPending, 1, 20); err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, id := range []string{"a", "b"} {
		sub, err := svc.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get %s: %v", id, err)
		}
		if !sub.SeenByAdmin {
			t.Errorf("submission %s not marked seen after list", id)
		}
	}
}
