package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/454Muscle/DDL-sub000/internal/model"
)

// TrendingWindow is how far back download activity counts toward trending.
const TrendingWindow = 7 * 24 * time.Hour

// CatalogStore is the read/click side of the published catalog.
type CatalogStore interface {
	List(ctx context.Context, f model.ListFilter, sortBy string, page, limit int) (model.PaginatedDownloads, error)
	TopByCount(ctx context.Context, n int) ([]model.Download, error)
	Trending(ctx context.Context, n int, window time.Duration) ([]model.Download, error)
	IncrementCount(ctx context.Context, id string) error
	RecordActivity(ctx context.Context, downloadID string) error
	RecordSponsoredClick(ctx context.Context, sponsoredID string) error
	SponsoredClickCounts(ctx context.Context, sponsoredID string) (total, last24h, last7d int, err error)
	AdminSearch(ctx context.Context, search string, page, limit int) (model.PaginatedDownloads, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (model.CatalogStats, error)
	PopularTags(ctx context.Context, limit int) ([]model.TagCount, error)
}

// CatalogService is the public catalog query engine.
type CatalogService struct {
	downloads CatalogStore
	settings  SettingsSource
	cache     *CacheService
}

func NewCatalogService(downloads CatalogStore, settings SettingsSource, cache *CacheService) *CatalogService {
	return &CatalogService{downloads: downloads, settings: settings, cache: cache}
}

// List pages through approved downloads with filtering and sorting. A page
// past the end returns an empty item list with real totals rather than an
// error.
func (s *CatalogService) List(ctx context.Context, f model.ListFilter, sortBy string, page, limit int) (model.PaginatedDownloads, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.downloads.List(ctx, f, sortBy, page, limit)
}

// Top composes the top-downloads view: the admin-curated sponsored slots
// first, in their configured order, then the most-downloaded approved
// entries. When the section is disabled the response carries empty lists so
// clients don't need a separate probe.
func (s *CatalogService) Top(ctx context.Context) (model.TopDownloadsResponse, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return model.TopDownloadsResponse{}, err
	}
	if !settings.TopDownloadsEnabled {
		return model.TopDownloadsResponse{
			Sponsored: []model.SponsoredDownload{},
			Items:     []model.Download{},
		}, nil
	}

	var cached model.TopDownloadsResponse
	if s.cache != nil && s.cache.GetJSON(ctx, topCacheKey, &cached) {
		return cached, nil
	}

	items, err := s.downloads.TopByCount(ctx, settings.TopDownloadsCount)
	if err != nil {
		return model.TopDownloadsResponse{}, err
	}

	sponsored := settings.SponsoredDownloads
	if sponsored == nil {
		sponsored = []model.SponsoredDownload{}
	}
	res := model.TopDownloadsResponse{
		Enabled:    true,
		Sponsored:  sponsored,
		Items:      items,
		TotalSlots: settings.TopDownloadsCount + len(sponsored),
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, topCacheKey, res, TopCacheTTL); err != nil {
			log.Debug().Err(err).Msg("failed to cache top downloads")
		}
	}
	return res, nil
}

// Trending lists downloads by click activity over the last week, backfilled
// by all-time count when recent activity is thin.
func (s *CatalogService) Trending(ctx context.Context) (model.TrendingResponse, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return model.TrendingResponse{}, err
	}
	if !settings.TrendingDownloadsEnabled {
		return model.TrendingResponse{Items: []model.Download{}}, nil
	}

	items, err := s.downloads.Trending(ctx, settings.TrendingDownloadsCount, TrendingWindow)
	if err != nil {
		return model.TrendingResponse{}, err
	}
	return model.TrendingResponse{Enabled: true, Items: items}, nil
}

// TrackClick counts one download click: the all-time counter and the
// activity log feeding trending move together. The cached top view is left
// to expire on its own.
func (s *CatalogService) TrackClick(ctx context.Context, id string) error {
	if err := s.downloads.IncrementCount(ctx, id); err != nil {
		return err
	}
	if err := s.downloads.RecordActivity(ctx, id); err != nil {
		log.Warn().Err(err).Str("download_id", id).Msg("failed to record download activity")
	}
	return nil
}

// TrackSponsoredClick counts a click on a sponsored slot. The slot must be
// currently configured.
func (s *CatalogService) TrackSponsoredClick(ctx context.Context, sponsoredID string) error {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	for _, sp := range settings.SponsoredDownloads {
		if sp.ID == sponsoredID {
			return s.downloads.RecordSponsoredClick(ctx, sponsoredID)
		}
	}
	return model.ErrNotFound
}

// SponsoredAnalytics reports click counts for every configured sponsored slot.
func (s *CatalogService) SponsoredAnalytics(ctx context.Context) ([]model.SponsoredAnalytics, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.SponsoredAnalytics, 0, len(settings.SponsoredDownloads))
	for _, sp := range settings.SponsoredDownloads {
		total, day, week, err := s.downloads.SponsoredClickCounts(ctx, sp.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.SponsoredAnalytics{
			ID:          sp.ID,
			Name:        sp.Name,
			TotalClicks: total,
			Clicks24h:   day,
			Clicks7d:    week,
		})
	}
	return out, nil
}

// AdminSearch lists downloads regardless of approval for the admin catalog
// view.
func (s *CatalogService) AdminSearch(ctx context.Context, search string, page, limit int) (model.PaginatedDownloads, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.downloads.AdminSearch(ctx, search, page, limit)
}

// Delete removes a published download and drops the cached top view so the
// entry disappears immediately.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.downloads.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, topCacheKey); err != nil {
			log.Debug().Err(err).Msg("failed to invalidate top downloads cache")
		}
	}
	return nil
}

func (s *CatalogService) Stats(ctx context.Context) (model.CatalogStats, error) {
	return s.downloads.Stats(ctx)
}

func (s *CatalogService) PopularTags(ctx context.Context, limit int) ([]model.TagCount, error) {
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return s.downloads.PopularTags(ctx, limit)
}
