package tokens

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	tokenNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	hexPattern       = regexp.MustCompile(`^#[0-9a-fA-F]+$`)
)

// IsTokenName reports whether name is a kebab-case token key
func IsTokenName(name string) bool {
	return tokenNamePattern.MatchString(name)
}

// IsSafeValue reports whether value can be spliced into a declaration
// without escaping it
func IsSafeValue(value string) bool {
	v := strings.TrimSpace(value)
	return v != "" && !strings.ContainsAny(v, ";{}")
}

// ValidateColor checks a color literal. Hex literals must be well formed;
// functional notations, var() references and keywords pass through.
func ValidateColor(value string) error {
	v := strings.TrimSpace(value)
	if !IsSafeValue(v) {
		return fmt.Errorf("unsafe color value %q", value)
	}
	if !strings.HasPrefix(v, "#") {
		return nil
	}
	if !hexPattern.MatchString(v) {
		return fmt.Errorf("invalid hex color %q", value)
	}
	switch len(v) {
	case 4, 7:
		if _, err := colorful.Hex(v); err != nil {
			return fmt.Errorf("invalid hex color %q: %w", value, err)
		}
		return nil
	case 5, 9:
		// Alpha forms are not understood by colorful; the pattern check suffices
		return nil
	default:
		return fmt.Errorf("invalid hex color %q", value)
	}
}

// IsDark reports whether a hex color is dark enough to need a light
// foreground. Non-hex values report false.
func IsDark(value string) bool {
	v := strings.TrimSpace(value)
	if len(v) == 9 {
		v = v[:7]
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return false
	}
	l, _, _ := c.Lab()
	return l < 0.55
}

// Slug converts free text to a kebab-case key
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
