package model

import "time"

// Submission statuses. Transitions are pending→approved or pending→rejected;
// approved and rejected are terminal except for delete.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// MaxTags caps the number of tags stored per submission.
const MaxTags = 10

// Submission is a user-proposed catalog entry awaiting moderation.
type Submission struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	DownloadLink   string    `json:"download_link"`
	Type           string    `json:"type"`
	SubmissionDate string    `json:"submission_date"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	SeenByAdmin    bool      `json:"seen_by_admin"`
	FileSize       *string   `json:"file_size,omitempty"`
	FileSizeBytes  *int64    `json:"file_size_bytes,omitempty"`
	Description    *string   `json:"description,omitempty"`
	Category       *string   `json:"category,omitempty"`
	Tags           []string  `json:"tags"`
	SiteName       *string   `json:"site_name,omitempty"`
	SiteURL        *string   `json:"site_url,omitempty"`
	SubmitterEmail *string   `json:"submitter_email,omitempty"`
}

// SubmissionCreate is the request body for POST /api/submissions.
type SubmissionCreate struct {
	Name           string   `json:"name"`
	DownloadLink   string   `json:"download_link"`
	Type           string   `json:"type"`
	SiteName       string   `json:"site_name"`
	SiteURL        string   `json:"site_url"`
	FileSize       string   `json:"file_size,omitempty"`
	Description    string   `json:"description,omitempty"`
	Category       string   `json:"category,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	SubmitterEmail string   `json:"submitter_email,omitempty"`
	CaptchaID      string   `json:"captcha_id,omitempty"`
	CaptchaAnswer  *int     `json:"captcha_answer,omitempty"`
	RecaptchaToken string   `json:"recaptcha_token,omitempty"`
}

// BulkSubmissionCreate is the request body for POST /api/submissions/bulk.
// The whole batch shares one captcha check and is admitted against the daily
// quota as a block.
type BulkSubmissionCreate struct {
	Items          []SubmissionCreate `json:"items"`
	SubmitterEmail string             `json:"submitter_email,omitempty"`
	CaptchaID      string             `json:"captcha_id,omitempty"`
	CaptchaAnswer  *int               `json:"captcha_answer,omitempty"`
	RecaptchaToken string             `json:"recaptcha_token,omitempty"`
}

// PaginatedSubmissions is the admin submission listing response.
type PaginatedSubmissions struct {
	Items []Submission `json:"items"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Pages int          `json:"pages"`
}

// RemainingQuota reports the daily submission quota for one identity.
// used + remaining == daily_limit and remaining is never negative.
type RemainingQuota struct {
	DailyLimit int `json:"daily_limit"`
	Used       int `json:"used"`
	Remaining  int `json:"remaining"`
}

// BulkResult accumulates per-item outcomes of a bulk moderation operation.
// A failure on one id never prevents attempts on the others.
type BulkResult struct {
	SuccessCount int `json:"success_count"`
	FailureCount int `json:"failure_count"`
}
