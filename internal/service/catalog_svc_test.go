package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/454Muscle/DDL-sub000/internal/model"
)

// memCatalog is an in-memory CatalogStore covering the pieces the catalog
// service composes: top-by-count ordering, click tracking, sponsored clicks.
type memCatalog struct {
	mu              sync.Mutex
	downloads       []model.Download
	activity        map[string]int
	sponsoredClicks map[string]int
}

func newMemCatalog(downloads ...model.Download) *memCatalog {
	return &memCatalog{
		downloads:       downloads,
		activity:        make(map[string]int),
		sponsoredClicks: make(map[string]int),
	}
}

func (m *memCatalog) List(_ context.Context, _ model.ListFilter, _ string, page, limit int) (model.PaginatedDownloads, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := len(m.downloads)
	pages := (total + limit - 1) / limit
	start := (page - 1) * limit
	var items []model.Download
	if start < total {
		end := start + limit
		if end > total {
			end = total
		}
		items = append(items, m.downloads[start:end]...)
	}
	return model.PaginatedDownloads{Items: items, Total: total, Page: page, Pages: pages}, nil
}

func (m *memCatalog) TopByCount(_ context.Context, n int) ([]model.Download, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sorted := append([]model.Download(nil), m.downloads...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].DownloadCount > sorted[j].DownloadCount
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted, nil
}

func (m *memCatalog) Trending(_ context.Context, n int, _ time.Duration) ([]model.Download, error) {
	return m.TopByCount(context.Background(), n)
}

func (m *memCatalog) IncrementCount(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.downloads {
		if m.downloads[i].ID == id {
			m.downloads[i].DownloadCount++
			return nil
		}
	}
	return model.ErrNotFound
}

func (m *memCatalog) RecordActivity(_ context.Context, downloadID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activity[downloadID]++
	return nil
}

func (m *memCatalog) RecordSponsoredClick(_ context.Context, sponsoredID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sponsoredClicks[sponsoredID]++
	return nil
}

func (m *memCatalog) SponsoredClickCounts(_ context.Context, sponsoredID string) (int, int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.sponsoredClicks[sponsoredID]
	return n, n, n, nil
}

func (m *memCatalog) AdminSearch(ctx context.Context, _ string, page, limit int) (model.PaginatedDownloads, error) {
	return m.List(ctx, model.ListFilter{}, "", page, limit)
}

func (m *memCatalog) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.downloads {
		if m.downloads[i].ID == id {
			m.downloads = append(m.downloads[:i], m.downloads[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}

func (m *memCatalog) Stats(_ context.Context) (model.CatalogStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stats model.CatalogStats
	for _, d := range m.downloads {
		stats.Total++
		stats.TotalDownloads += d.DownloadCount
	}
	return stats, nil
}

func (m *memCatalog) PopularTags(_ context.Context, _ int) ([]model.TagCount, error) {
	return nil, nil
}

func download(id string, count int) model.Download {
	return model.Download{
		ID:            id,
		Name:          "Entry " + id,
		DownloadLink:  "https://dl.example.com/" + id,
		Type:          "game",
		Approved:      true,
		DownloadCount: count,
	}
}

func seededCatalog(n int) *memCatalog {
	var ds []model.Download
	for i := 0; i < n; i++ {
		ds = append(ds, download(string(rune('a'+i)), (i+1)*10))
	}
	return newMemCatalog(ds...)
}

func TestTopSponsoredComeFirstOnTopOfLimit(t *testing.T) {
	settings := model.DefaultSiteSettings()
	settings.TopDownloadsCount = 5
	settings.SponsoredDownloads = []model.SponsoredDownload{
		{ID: "sp-1", Name: "Sponsor One", DownloadLink: "https://s1.example.com", Type: "software"},
		{ID: "sp-2", Name: "Sponsor Two", DownloadLink: "https://s2.example.com", Type: "game"},
	}
	svc := NewCatalogService(seededCatalog(10), fixedSettings{settings}, nil)

	res, err := svc.Top(context.Background())
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if !res.Enabled {
		t.Error("enabled = false, want true")
	}
	// Sponsored slots ride on top of the configured count: 2 + 5 entries.
	if len(res.Sponsored) != 2 || len(res.Items) != 5 {
		t.Fatalf("got %d sponsored + %d items, want 2 + 5", len(res.Sponsored), len(res.Items))
	}
	if res.Sponsored[0].ID != "sp-1" || res.Sponsored[1].ID != "sp-2" {
		t.Errorf("sponsored order = %s,%s, want sp-1,sp-2", res.Sponsored[0].ID, res.Sponsored[1].ID)
	}
	for i := 1; i < len(res.Items); i++ {
		if res.Items[i].DownloadCount > res.Items[i-1].DownloadCount {
			t.Errorf("items not sorted by count at %d", i)
		}
	}
	if res.TotalSlots != 7 {
		t.Errorf("total slots = %d, want 7", res.TotalSlots)
	}
}

func TestTopDisabledReturnsEmptyLists(t *testing.T) {
	settings := model.DefaultSiteSettings()
	settings.TopDownloadsEnabled = false
	svc := NewCatalogService(seededCatalog(10), fixedSettings{settings}, nil)

	res, err := svc.Top(context.Background())
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if res.Enabled {
		t.Error("enabled = true, want false")
	}
	if res.Sponsored == nil || res.Items == nil {
		t.Error("disabled response must carry empty lists, not nulls")
	}
	if len(res.Sponsored) != 0 || len(res.Items) != 0 {
		t.Errorf("got %d sponsored + %d items, want empty", len(res.Sponsored), len(res.Items))
	}
}

func TestTopFewerEntriesThanSlots(t *testing.T) {
	settings := model.DefaultSiteSettings()
	settings.TopDownloadsCount = 5
	svc := NewCatalogService(seededCatalog(2), fixedSettings{settings}, nil)

	res, err := svc.Top(context.Background())
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(res.Items) != 2 {
		t.Errorf("items = %d, want 2 when catalog is smaller than the slot count", len(res.Items))
	}
}

func TestListPageBeyondRangeIsEmptyNotError(t *testing.T) {
	svc := NewCatalogService(seededCatalog(3), fixedSettings{model.DefaultSiteSettings()}, nil)

	res, err := svc.List(context.Background(), model.ListFilter{}, model.SortDateDesc, 99, 20)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(res.Items) != 0 {
		t.Errorf("items = %d, want 0 on out-of-range page", len(res.Items))
	}
	if res.Total != 3 || res.Pages != 1 {
		t.Errorf("total=%d pages=%d, want 3 and 1", res.Total, res.Pages)
	}
}

func TestTrackClickBumpsCountAndActivity(t *testing.T) {
	store := seededCatalog(3)
	svc := NewCatalogService(store, fixedSettings{model.DefaultSiteSettings()}, nil)
	ctx := context.Background()

	before := store.downloads[0].DownloadCount
	if err := svc.TrackClick(ctx, "a"); err != nil {
		t.Fatalf("TrackClick: %v", err)
	}
	if store.downloads[0].DownloadCount != before+1 {
		t.Errorf("count = %d, want %d", store.downloads[0].DownloadCount, before+1)
	}
	if store.activity["a"] != 1 {
		t.Errorf("activity = %d, want 1", store.activity["a"])
	}

	if err := svc.TrackClick(ctx, "ghost"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("unknown id err = %v, want ErrNotFound", err)
	}
}

func TestSponsoredClickRequiresConfiguredSlot(t *testing.T) {
	settings := model.DefaultSiteSettings()
	settings.SponsoredDownloads = []model.SponsoredDownload{{ID: "sp-1", Name: "Sponsor One"}}
	store := seededCatalog(1)
	svc := NewCatalogService(store, fixedSettings{settings}, nil)
	ctx := context.Background()

	if err := svc.TrackSponsoredClick(ctx, "sp-1"); err != nil {
		t.Fatalf("TrackSponsoredClick: %v", err)
	}
	if err := svc.TrackSponsoredClick(ctx, "sp-2"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("unconfigured slot err = %v, want ErrNotFound", err)
	}

	analytics, err := svc.SponsoredAnalytics(ctx)
	if err != nil {
		t.Fatalf("SponsoredAnalytics: %v", err)
	}
	if len(analytics) != 1 || analytics[0].TotalClicks != 1 {
		t.Errorf("analytics = %+v, want one slot with one click", analytics)
	}
}

func TestTrendingDisabledReturnsEmpty(t *testing.T) {
	settings := model.DefaultSiteSettings()
	settings.TrendingDownloadsEnabled = false
	svc := NewCatalogService(seededCatalog(5), fixedSettings{settings}, nil)

	res, err := svc.Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if res.Enabled || len(res.Items) != 0 {
		t.Errorf("res = %+v, want disabled and empty", res)
	}
}
