package hash

import "testing"

func TestSHA256Hex_KnownVector(t *testing.T) {
	// echo -n "hello" | sha256sum
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got := SHA256Hex("hello"); got != want {
		t.Errorf("SHA256Hex(hello) = %s, want %s", got, want)
	}
}

func TestSHA256Hex_EmptyInput(t *testing.T) {
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := SHA256Hex(""); got != want {
		t.Errorf("SHA256Hex(\"\") = %s, want %s", got, want)
	}
}

func TestPassword_Deterministic(t *testing.T) {
	a := Password("s3cret")
	b := Password("s3cret")
	if a != b {
		t.Fatal("same password must hash to same value")
	}
	if a == Password("other") {
		t.Fatal("different passwords must not collide trivially")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestIPForLog_ShortAndStable(t *testing.T) {
	h := IPForLog("203.0.113.7")
	if len(h) != 12 {
		t.Errorf("IPForLog length = %d, want 12", len(h))
	}
	if h != IPForLog("203.0.113.7") {
		t.Error("IPForLog must be stable for the same input")
	}
	if h == IPForLog("203.0.113.8") {
		t.Error("different IPs should produce different prefixes")
	}
}
