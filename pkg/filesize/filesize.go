// Package filesize converts free-text file size strings ("4.5 GB") into
// byte counts. Submitters type sizes by hand, so the parser is deliberately
// forgiving; anything it cannot read is reported as unparseable and the
// catalog excludes those entries from size-range filtering.
package filesize

import (
	"strconv"
	"strings"
)

const (
	KB int64 = 1024
	MB       = 1024 * KB
	GB       = 1024 * MB
)

// Parse converts a display size string to bytes. A bare number is taken as
// megabytes, matching how the submission form labels the field. The second
// return value is false when the string cannot be parsed.
func Parse(s string) (int64, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	unit := int64(1)
	switch {
	case strings.Contains(s, "GB"):
		unit = GB
		s = strings.Replace(s, "GB", "", 1)
	case strings.Contains(s, "MB"):
		unit = MB
		s = strings.Replace(s, "MB", "", 1)
	case strings.Contains(s, "KB"):
		unit = KB
		s = strings.Replace(s, "KB", "", 1)
	case strings.Contains(s, "B"):
		s = strings.Replace(s, "B", "", 1)
	default:
		unit = MB
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return int64(n * float64(unit)), true
}

// ParsePtr is Parse for optional columns: nil when unparseable.
func ParsePtr(s string) *int64 {
	n, ok := Parse(s)
	if !ok {
		return nil
	}
	return &n
}
