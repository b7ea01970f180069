package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// Password hashes an account password for storage and comparison.
// Same scheme as the original deployment so existing admin and user
// records keep working.
func Password(password string) string {
	return SHA256Hex(password)
}

// IPForLog produces a short, irreversible hash prefix of an IP address
// for log correlation without storing raw PII.
func IPForLog(ip string) string {
	return SHA256Hex(ip)[:12]
}
