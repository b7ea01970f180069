package model

import "time"

// DownloadTypes are the allowed catalog entry types.
var DownloadTypes = map[string]bool{
	"game":     true,
	"software": true,
	"movie":    true,
	"tv_show":  true,
}

// Download represents a published catalog entry.
type Download struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	DownloadLink  string    `json:"download_link"`
	Type          string    `json:"type"`
	SubmissionDate string   `json:"submission_date"`
	Approved      bool      `json:"approved"`
	CreatedAt     time.Time `json:"created_at"`
	DownloadCount int       `json:"download_count"`
	FileSize      *string   `json:"file_size,omitempty"`
	FileSizeBytes *int64    `json:"file_size_bytes,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Category      *string   `json:"category,omitempty"`
	Tags          []string  `json:"tags"`
	SiteName      *string   `json:"site_name,omitempty"`
	SiteURL       *string   `json:"site_url,omitempty"`
}

// ListFilter holds the catalog listing filters parsed from the query string.
type ListFilter struct {
	Type     string
	Search   string
	Category string
	Tags     []string
	DateFrom string
	DateTo   string
	SizeMin  *int64
	SizeMax  *int64
}

// Catalog sort keys accepted by GET /api/downloads.
const (
	SortDateDesc      = "date_desc"
	SortDateAsc       = "date_asc"
	SortDownloadsDesc = "downloads_desc"
	SortDownloadsAsc  = "downloads_asc"
	SortNameAsc       = "name_asc"
	SortNameDesc      = "name_desc"
	SortSizeDesc      = "size_desc"
	SortSizeAsc       = "size_asc"
)

// PaginatedDownloads is the paginated catalog listing response.
type PaginatedDownloads struct {
	Items []Download `json:"items"`
	Total int        `json:"total"`
	Page  int        `json:"page"`
	Pages int        `json:"pages"`
}

// SponsoredDownload is an admin-curated listing shown first in the top view.
type SponsoredDownload struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	DownloadLink string  `json:"download_link"`
	Type         string  `json:"type"`
	Description  *string `json:"description,omitempty"`
}

// TopDownloadsResponse is the response for GET /api/downloads/top.
type TopDownloadsResponse struct {
	Enabled    bool                `json:"enabled"`
	Sponsored  []SponsoredDownload `json:"sponsored"`
	Items      []Download          `json:"items"`
	TotalSlots int                 `json:"total_slots,omitempty"`
}

// TrendingResponse is the response for GET /api/downloads/trending.
type TrendingResponse struct {
	Enabled bool       `json:"enabled"`
	Items   []Download `json:"items"`
}

// CatalogStats aggregates the public /api/stats counters.
type CatalogStats struct {
	Total          int `json:"total"`
	Games          int `json:"games"`
	Software       int `json:"software"`
	Movies         int `json:"movies"`
	TVShows        int `json:"tv_shows"`
	TotalDownloads int `json:"total_downloads"`
}

// TagCount is a popular tag with its usage count.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Category groups downloads of one type.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"` // game, software, movie, tv_show, all
	CreatedAt time.Time `json:"created_at"`
}

// SponsoredAnalytics reports click counts for one sponsored slot.
type SponsoredAnalytics struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TotalClicks int    `json:"total_clicks"`
	Clicks24h   int    `json:"clicks_24h"`
	Clicks7d    int    `json:"clicks_7d"`
}
