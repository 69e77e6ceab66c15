package story

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTheme(t *testing.T) {
	tests := []struct {
		name    string
		theme   string
		wantErr bool
	}{
		{"empty", "", true},
		{"spaces", "   ", true},
		{"tabs and newlines", "\t\n", true},
		{"mixed whitespace", " \t \r\n ", true},
		{"byte order mark", "\ufeff", true},
		{"no-break and ideographic spaces", "\u00a0\u3000", true},
		{"line separator", "\u2028", true},
		{"next line is visible", "\u0085", false},
		{"plain", "pirates", false},
		{"surrounded by spaces", "  space opera  ", false},
		{"single char", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTheme(tt.theme)
			if tt.wantErr {
				if !errors.Is(err, ErrEmptyTheme) {
					t.Fatalf("ValidateTheme(%q) = %v, want ErrEmptyTheme", tt.theme, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateTheme(%q) = %v, want nil", tt.theme, err)
			}
		})
	}
}

func TestEmptyThemeMessage(t *testing.T) {
	if got := ErrEmptyTheme.Error(); got != "Theme cannot be empty." {
		t.Errorf("message = %q", got)
	}
}

func TestCheckTheme(t *testing.T) {
	tests := []struct {
		name  string
		theme string
		want  error
	}{
		{"blank", " \t", ErrEmptyTheme},
		{"at limit", strings.Repeat("a", MaxThemeLength), nil},
		{"at limit once trimmed", "  " + strings.Repeat("a", MaxThemeLength) + "\n", nil},
		{"multibyte at limit", strings.Repeat("é", MaxThemeLength), nil},
		{"one over", strings.Repeat("a", MaxThemeLength+1), ErrThemeTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckTheme(tt.theme); !errors.Is(err, tt.want) {
				t.Fatalf("CheckTheme = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTrimTheme(t *testing.T) {
	if got := TrimTheme("\ufeff  dragons\u00a0\t"); got != "dragons" {
		t.Errorf("TrimTheme = %q", got)
	}
	if got := TrimTheme("\u0085dragons"); got != "\u0085dragons" {
		t.Errorf("TrimTheme = %q, U+0085 should be kept", got)
	}
}
