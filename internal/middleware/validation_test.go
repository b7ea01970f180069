package middleware

import (
	"reflect"
	"testing"
)

func TestValidateDownloadType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty means no filter", "", "", false},
		{"all means no filter", "all", "", false},
		{"game", "game", "game", false},
		{"uppercase normalized", "GAME", "game", false},
		{"trims whitespace", " tv_show ", "tv_show", false},
		{"unknown type", "album", "", true},
		{"sql injection", "game'; DROP--", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateDownloadType(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateSort(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty defaults to date_desc", "", "date_desc", false},
		{"date_asc", "date_asc", "date_asc", false},
		{"downloads_desc", "downloads_desc", "downloads_desc", false},
		{"name_asc", "name_asc", "name_asc", false},
		{"size_desc", "size_desc", "size_desc", false},
		{"uppercase normalized", "DATE_DESC", "date_desc", false},
		{"unknown key", "relevance", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateSort(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "user@example.com", "user@example.com", false},
		{"normalized lowercase", "User@Example.COM", "user@example.com", false},
		{"trims whitespace", " user@example.com ", "user@example.com", false},
		{"empty", "", "", true},
		{"no at sign", "userexample.com", "", true},
		{"no domain dot", "user@example", "", true},
		{"spaces inside", "us er@example.com", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateEmail(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTags(t *testing.T) {
	got := ParseTags(" Action , rpg ,, CO-OP ")
	want := []string{"action", "rpg", "co-op"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseTags = %v, want %v", got, want)
	}
	if got := ParseTags("  "); got != nil {
		t.Errorf("blank input = %v, want nil", got)
	}
}

func TestParsePageAndLimit(t *testing.T) {
	if got := ParsePage("3"); got != 3 {
		t.Errorf("ParsePage(3) = %d", got)
	}
	if got := ParsePage("0"); got != 1 {
		t.Errorf("ParsePage(0) = %d, want 1", got)
	}
	if got := ParsePage("junk"); got != 1 {
		t.Errorf("ParsePage(junk) = %d, want 1", got)
	}
	if got := ParseLimit(""); got != DefaultPageSize {
		t.Errorf("ParseLimit empty = %d, want default", got)
	}
	if got := ParseLimit("500"); got != MaxPageSize {
		t.Errorf("ParseLimit(500) = %d, want %d", got, MaxPageSize)
	}
}
