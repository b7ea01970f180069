package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/454Muscle/DDL-sub000/internal/model"
)

type memQuota struct {
	mu     sync.Mutex
	counts map[string]int
}

func newMemQuota() *memQuota {
	return &memQuota{counts: make(map[string]int)}
}

func (q *memQuota) Usage(_ context.Context, identity string, limit int) (model.RemainingQuota, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	used := q.counts[identity]
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return model.RemainingQuota{DailyLimit: limit, Used: used, Remaining: remaining}, nil
}

func (q *memQuota) TryConsume(_ context.Context, identity string, n, limit int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.counts[identity]+n > limit {
		return model.ErrRateLimitExceeded
	}
	q.counts[identity] += n
	return nil
}

type memSubs struct {
	mu   sync.Mutex
	byID map[string]model.Submission
}

func newMemSubs() *memSubs {
	return &memSubs{byID: make(map[string]model.Submission)}
}

func (m *memSubs) Insert(_ context.Context, s model.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[s.ID] = s
	return nil
}

func (m *memSubs) Approve(_ context.Context, id string) (*model.Submission, error) {
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

func (m *memSubs) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type fixedSettings struct {
	s model.SiteSettings
}

func (f fixedSettings) Get(context.Context) (model.SiteSettings, error) {
	return f.s, nil
}

type stubCaptcha struct {
	err error
}

func (c stubCaptcha) Verify(string, int) error { return c.err }

type stubRecaptcha struct {
	err error
}

func (c stubRecaptcha) Verify(context.Context, string, string, string) error { return c.err }

func answerPtr(n int) *int { return &n }

func newTestService(settings model.SiteSettings, captchaErr error) (*SubmissionService, *memSubs, *memQuota) {
	subs := newMemSubs()
	quota := newMemQuota()
	svc := NewSubmissionService(subs, quota, fixedSettings{settings},
		stubCaptcha{err: captchaErr}, stubRecaptcha{}, nil)
	return svc, subs, quota
}

func validRequest() model.SubmissionCreate {
	return model.SubmissionCreate{
		Name:          "Example Game",
		DownloadLink:  "https://dl.example.com/game.zip",
		Type:          "game",
		SiteURL:       "https://example.com",
		FileSize:      "1.5GB",
		Tags:          []string{" Action ", "action", "RPG"},
		CaptchaID:     "ch-1",
		CaptchaAnswer: answerPtr(7),
	}
}

func TestSubmitCreatesPendingSubmission(t *testing.T) {
	settings := model.DefaultSiteSettings()
	svc, subs, quota := newTestService(settings, nil)

	sub, err := svc.Submit(context.Background(), validRequest(), "203.0.113.9")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Status != model.StatusPending {
		t.Errorf("status = %q, want pending", sub.Status)
	}
	if got, want := sub.Tags, []string{"action", "rpg"}; !reflect.DeepEqual(got, want) {
		t.Errorf("tags = %v, want %v", got, want)
	}
	if sub.FileSizeBytes == nil || *sub.FileSizeBytes != int64(1.5*1024*1024*1024) {
		t.Errorf("file size bytes = %v, want 1.5GB", sub.FileSizeBytes)
	}
	if subs.count() != 1 {
		t.Errorf("stored %d submissions, want 1", subs.count())
	}

	q, _ := quota.Usage(context.Background(), "anon:203.0.113.9", settings.DailySubmissionLimit)
	if q.Used != 1 {
		t.Errorf("quota used = %d, want 1", q.Used)
	}
}

func TestSubmitMissingAndInvalidFields(t *testing.T) {
	svc, subs, _ := newTestService(model.DefaultSiteSettings(), nil)

	cases := []struct {
		name   string
		mutate func(*model.SubmissionCreate)
		want   string
	}{
		{"missing name", func(r *model.SubmissionCreate) { r.Name = "  " }, "name"},
		{"missing link", func(r *model.SubmissionCreate) { r.DownloadLink = "" }, "download_link"},
		{"bad type", func(r *model.SubmissionCreate) { r.Type = "album" }, "type"},
		{"bad site url", func(r *model.SubmissionCreate) { r.SiteURL = "ftp://example.com" }, "site_url"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := svc.Submit(context.Background(), req, "203.0.113.9")
			var missing *model.MissingFieldError
			var invalid *model.InvalidFieldError
			switch {
			case errors.As(err, &missing):
				if missing.Field != tc.want {
					t.Errorf("missing field = %q, want %q", missing.Field, tc.want)
				}
			case errors.As(err, &invalid):
				if invalid.Field != tc.want {
					t.Errorf("invalid field = %q, want %q", invalid.Field, tc.want)
				}
			default:
				t.Fatalf("err = %v, want field error on %q", err, tc.want)
			}
		})
	}
	if subs.count() != 0 {
		t.Errorf("stored %d submissions after rejected requests, want 0", subs.count())
	}
}

func TestSubmitCaptchaFailureLeavesQuotaUntouched(t *testing.T) {
	settings := model.DefaultSiteSettings()
	svc, subs, quota := newTestService(settings, model.ErrCaptchaFailed)

	_, err := svc.Submit(context.Background(), validRequest(), "203.0.113.9")
	if !errors.Is(err, model.ErrCaptchaFailed) {
		t.Fatalf("err = %v, want ErrCaptchaFailed", err)
	}
	if subs.count() != 0 {
		t.Errorf("stored %d submissions, want 0", subs.count())
	}
	q, _ := quota.Usage(context.Background(), "anon:203.0.113.9", settings.DailySubmissionLimit)
	if q.Used != 0 {
		t.Errorf("quota used = %d after captcha failure, want 0", q.Used)
	}
}

func TestSubmitDailyLimitEnforced(t *testing.T) {
	settings := model.DefaultSiteSettings()
	settings.DailySubmissionLimit = 2
	svc, subs, _ := newTestService(settings, nil)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := svc.Submit(ctx, validRequest(), "203.0.113.9"); err != nil {
			t.Fatalf("submit %d: %v", i+1, err)
		}
	}
	_, err := svc.Submit(ctx, validRequest(), "203.0.113.9")
	if !errors.Is(err, model.ErrRateLimitExceeded) {
		t.Fatalf("third submit err = %v, want ErrRateLimitExceeded", err)
	}
	if subs.count() != 2 {
		t.Errorf("stored %d submissions, want 2", subs.count())
	}

	q, err := svc.Remaining(ctx, "", "203.0.113.9")
	if err != nil {
		t.Fatalf("Remaining: %v", err)
	}
	if q.Used != 2 || q.Remaining != 0 {
		t.Errorf("quota = %+v, want used=2 remaining=0", q)
	}
}

func TestSubmitConcurrentNeverOverAdmits(t *testing.T) {
	settings := model.DefaultSiteSettings()
	settings.DailySubmissionLimit = 5
	svc, subs, _ := newTestService(settings, nil)

	const attempts = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted, limited := 0, 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(context.Background(), validRequest(), "203.0.113.9")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				admitted++
			case errors.Is(err, model.ErrRateLimitExceeded):
				limited++
			}
		}()
	}
	wg.Wait()

	if admitted != 5 || limited != attempts-5 {
		t.Errorf("admitted=%d limited=%d, want 5 and %d", admitted, limited, attempts-5)
	}
	if subs.count() != 5 {
		t.Errorf("stored %d submissions, want 5", subs.count())
	}
}

func TestSubmitSeparateIdentitiesGetSeparateQuota(t *testing.T) {
	settings := model.DefaultSiteSettings()
	settings.DailySubmissionLimit = 1
	svc, _, _ := newTestService(settings, nil)

	ctx := context.Background()
	if _, err := svc.Submit(ctx, validRequest(), "203.0.113.9"); err != nil {
		t.Fatalf("first identity: %v", err)
	}
	req := validRequest()
	req.SubmitterEmail = "Someone@Example.com"
	if _, err := svc.Submit(ctx, req, "203.0.113.9"); err != nil {
		t.Fatalf("email identity: %v", err)
	}
	if _, err := svc.Submit(ctx, validRequest(), "203.0.113.9"); !errors.Is(err, model.ErrRateLimitExceeded) {
		t.Errorf("repeat anon submit err = %v, want ErrRateLimitExceeded", err)
	}
}

func TestSubmitAutoApprove(t *testing.T) {
	settings := model.DefaultSiteSettings()
	settings.AutoApproveSubmissions = true
	svc, _, _ := newTestService(settings, nil)

	sub, err := svc.Submit(context.Background(), validRequest(), "203.0.113.9")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Status != model.StatusApproved {
		t.Errorf("status = %q, want approved with auto-approve on", sub.Status)
	}
}

func TestSubmitRecaptchaModeRequiresConfiguration(t *testing.T) {
	settings := model.DefaultSiteSettings()
	settings.RecaptchaEnableSubmit = true
	svc, _, quota := newTestService(settings, nil)

	req := validRequest()
	req.RecaptchaToken = "tok"
	_, err := svc.Submit(context.Background(), req, "203.0.113.9")
	if !errors.Is(err, model.ErrRecaptchaUnconfigured) {
		t.Fatalf("err = %v, want ErrRecaptchaUnconfigured", err)
	}
	q, _ := quota.Usage(context.Background(), "anon:203.0.113.9", settings.DailySubmissionLimit)
	if q.Used != 0 {
		t.Errorf("quota used = %d, want 0", q.Used)
	}
}

func TestSubmitBulkAdmitsAsBlock(t *testing.T) {
	settings := model.DefaultSiteSettings()
	settings.DailySubmissionLimit = 5
	svc, subs, _ := newTestService(settings, nil)

	batch := func(n int) model.BulkSubmissionCreate {
		p := model.BulkSubmissionCreate{
			CaptchaID:     "ch-1",
			CaptchaAnswer: answerPtr(7),
		}
		for i := 0; i < n; i++ {
			item := validRequest()
			item.CaptchaID, item.CaptchaAnswer = "", nil
			p.Items = append(p.Items, item)
		}
		return p
	}

	ctx := context.Background()
	created, err := svc.SubmitBulk(ctx, batch(3), "203.0.113.9")
	if err != nil || created != 3 {
		t.Fatalf("first batch created=%d err=%v, want 3 and nil", created, err)
	}

	// 2 quota slots left; a batch of 3 must be refused whole.
	created, err = svc.SubmitBulk(ctx, batch(3), "203.0.113.9")
	if !errors.Is(err, model.ErrRateLimitExceeded) {
		t.Fatalf("second batch err = %v, want ErrRateLimitExceeded", err)
	}
	if created != 0 {
		t.Errorf("second batch created = %d, want 0", created)
	}
	if subs.count() != 3 {
		t.Errorf("stored %d submissions, want 3", subs.count())
	}

	created, err = svc.SubmitBulk(ctx, batch(2), "203.0.113.9")
	if err != nil || created != 2 {
		t.Errorf("final batch created=%d err=%v, want 2 and nil", created, err)
	}
}

func TestSubmitBulkValidationFailsBeforeAnyInsert(t *testing.T) {
	svc, subs, quota := newTestService(model.DefaultSiteSettings(), nil)

	p := model.BulkSubmissionCreate{CaptchaID: "ch-1", CaptchaAnswer: answerPtr(7)}
	good := validRequest()
	bad := validRequest()
	bad.DownloadLink = ""
	p.Items = []model.SubmissionCreate{good, bad}

	_, err := svc.SubmitBulk(context.Background(), p, "203.0.113.9")
	var missing *model.MissingFieldError
	if !errors.As(err, &missing) || missing.Field != "download_link" {
		t.Fatalf("err = %v, want missing download_link", err)
	}
	if subs.count() != 0 {
		t.Errorf("stored %d submissions, want 0", subs.count())
	}
	q, _ := quota.Usage(context.Background(), "anon:203.0.113.9", 20)
	if q.Used != 0 {
		t.Errorf("quota used = %d, want 0", q.Used)
	}
}

func TestNormalizeTags(t *testing.T) {
	in := []string{" Action ", "ACTION", "rpg", "", "  ", "Co-op", "rpg"}
	want := []string{"action", "rpg", "co-op"}
	if got := NormalizeTags(in); !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTags = %v, want %v", got, want)
	}

	var many []string
	for i := 0; i < 15; i++ {
		many = append(many, string(rune('a'+i)))
	}
	if got := NormalizeTags(many); len(got) != model.MaxTags {
		t.Errorf("capped length = %d, want %d", len(got), model.MaxTags)
	}
}
