package validate

import (
	"errors"
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		constraints StringConstraints
		want        string
		wantErr     error
	}{
		{
			name:        "valid string",
			input:       "hello",
			constraints: StringConstraints{MinLength: 1, MaxLength: 10},
			want:        "hello",
		},
		{
			name:        "empty not allowed",
			input:       "",
			constraints: StringConstraints{},
			wantErr:     ErrEmpty,
		},
		{
			name:        "empty allowed",
			input:       "",
			constraints: StringConstraints{AllowEmpty: true},
			want:        "",
		},
		{
			name:        "trimmed to empty",
			input:       "   ",
			constraints: StringConstraints{TrimSpace: true},
			wantErr:     ErrEmpty,
		},
		{
			name:        "too short",
			input:       "ab",
			constraints: StringConstraints{MinLength: 3},
			wantErr:     ErrStringTooShort,
		},
		{
			name:        "too long",
			input:       "abcdef",
			constraints: StringConstraints{MaxLength: 5},
			wantErr:     ErrStringTooLong,
		},
		{
			name:        "length counts runes not bytes",
			input:       "héllo",
			constraints: StringConstraints{MaxLength: 5},
			want:        "héllo",
		},
		{
			name:        "trims whitespace",
			input:       "  hello  ",
			constraints: StringConstraints{TrimSpace: true},
			want:        "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := String(tt.input, tt.constraints)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("String() error = %v, want %v", err, tt.wantErr)
				return
			}
			if err == nil && got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	valid := []string{"Sarah", "O'Brien", "Mary-Jane", "J. R.", "José"}
	for _, name := range valid {
		if _, err := Name(name); err != nil {
			t.Errorf("Name(%q) unexpected error: %v", name, err)
		}
	}

	invalid := []string{"", "sarah123", "name!", "<script>"}
	for _, name := range invalid {
		if _, err := Name(name); err == nil {
			t.Errorf("Name(%q) expected error", name)
		}
	}
}

func TestReviewText(t *testing.T) {
	if _, err := ReviewText(""); err != nil {
		t.Errorf("empty review text should be allowed: %v", err)
	}

	long := strings.Repeat("a", 2001)
	if _, err := ReviewText(long); !errors.Is(err, ErrStringTooLong) {
		t.Errorf("expected ErrStringTooLong for %d chars, got %v", len(long), err)
	}

	got, err := ReviewText("  solid RA  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "solid RA" {
		t.Errorf("expected trimmed text, got %q", got)
	}
}

func TestSanitizeHTML(t *testing.T) {
	got := SanitizeHTML(`<script>alert("x")</script>`)
	if strings.Contains(got, "<script>") {
		t.Errorf("expected escaped HTML, got %q", got)
	}
}
