package middleware

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/454Muscle/DDL-sub000/internal/model"
)

// Field limits enforced before requests reach the services.
const (
	MaxNameLen        = 300
	MaxLinkLen        = 2000
	MaxDescriptionLen = 2000
	MaxSearchLen      = 200
	MaxPageSize       = 100
	DefaultPageSize   = 20
)

// emailRe is a permissive shape check; real validation happens at delivery.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateDownloadType checks the catalog type filter. Empty means no filter.
func ValidateDownloadType(t string) (string, string) {
	t = strings.TrimSpace(strings.ToLower(t))
	if t == "" || t == "all" {
		return "", ""
	}
	if !model.DownloadTypes[t] {
		return "", "type must be one of game, software, movie, tv_show"
	}
	return t, ""
}

// ValidateSort checks the catalog sort key, defaulting to newest-first.
func ValidateSort(sortBy string) (string, string) {
	sortBy = strings.TrimSpace(strings.ToLower(sortBy))
	switch sortBy {
	case "":
		return model.SortDateDesc, ""
	case model.SortDateDesc, model.SortDateAsc,
		model.SortDownloadsDesc, model.SortDownloadsAsc,
		model.SortNameAsc, model.SortNameDesc,
		model.SortSizeDesc, model.SortSizeAsc:
		return sortBy, ""
	default:
		return "", "unknown sort key"
	}
}

// ValidateEmail checks the shape of an email address.
func ValidateEmail(email string) (string, string) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", "email is required"
	}
	if len(email) > 254 || !emailRe.MatchString(email) {
		return "", "email address is malformed"
	}
	return email, ""
}

// ParseTags splits a comma-separated tag filter into normalized tags.
func ParseTags(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(csv, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ParsePage parses a 1-based page number, defaulting to 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ParseLimit parses a page size, clamped to [1, MaxPageSize].
func ParseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// ValidateSearch trims and truncates a free-text search query.
func ValidateSearch(q string) string {
	q = strings.TrimSpace(q)
	if len(q) > MaxSearchLen {
		q = q[:MaxSearchLen]
	}
	return q
}
