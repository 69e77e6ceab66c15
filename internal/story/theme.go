package story

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EmptyThemeMessage is shown to the user when a submitted theme has no
// visible characters.
const EmptyThemeMessage = "Theme cannot be empty."

// LongThemeMessage is shown when a theme exceeds MaxThemeLength.
const LongThemeMessage = "Theme is too long."

// MaxThemeLength is the longest trimmed theme, in characters, a story can
// be generated from.
const MaxThemeLength = 500

var (
	// ErrEmptyTheme is returned by ValidateTheme for blank themes.
	ErrEmptyTheme = errors.New(EmptyThemeMessage)
	// ErrThemeTooLong is returned by CheckTheme for themes over MaxThemeLength.
	ErrThemeTooLong = errors.New(LongThemeMessage)
)

// ValidateTheme reports whether candidate is an acceptable story theme.
// Only the trimmed value is inspected; callers keep the original string.
func ValidateTheme(candidate string) error {
	if TrimTheme(candidate) == "" {
		return ErrEmptyTheme
	}
	return nil
}

// CheckTheme is ValidateTheme plus the length limit applied before a
// generation job is accepted.
func CheckTheme(candidate string) error {
	if err := ValidateTheme(candidate); err != nil {
		return err
	}
	if utf8.RuneCountInString(TrimTheme(candidate)) > MaxThemeLength {
		return ErrThemeTooLong
	}
	return nil
}

// TrimTheme strips leading and trailing blanks. Blanks are the space
// separators, the ASCII controls \t \n \v \f \r, the line and paragraph
// separators, and the byte order mark. U+0085 is not a blank.
func TrimTheme(candidate string) string {
	return strings.TrimFunc(candidate, isBlank)
}

func isBlank(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\ufeff':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}
