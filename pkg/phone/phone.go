// Package phone canonicalizes Bangladeshi mobile numbers.
package phone

import (
	"regexp"
	"strings"
)

// LocalLength is the length of a canonical local mobile number (01XXXXXXXXX).
const LocalLength = 11

var bdMobile = regexp.MustCompile(`^01\d{9}$`)

// NormalizeBD strips every non-digit and rewrites international forms to the local 0-prefixed form.
// Input that matches no known prefix comes back as its digits, so IsValidBDMobile rejects it later.
func NormalizeBD(raw string) string {
	digits := extractDigits(raw)

	switch {
	case strings.HasPrefix(digits, "00880") && len(digits) >= 15:
		return "0" + digits[5:15]
	case strings.HasPrefix(digits, "880") && len(digits) >= 13:
		return "0" + digits[3:13]
	case strings.HasPrefix(digits, "01") && len(digits) >= LocalLength:
		return digits[:LocalLength]
	case strings.HasPrefix(digits, "1") && len(digits) == 10:
		return "0" + digits
	}
	return digits
}

// IsValidBDMobile reports whether s is already a canonical local mobile number.
func IsValidBDMobile(s string) bool {
	return bdMobile.MatchString(s)
}

// Valid normalizes raw and validates the result.
func Valid(raw string) bool {
	return IsValidBDMobile(NormalizeBD(raw))
}

// FromContact normalizes a phonebook entry and caps it at LocalLength characters.
func FromContact(raw string) string {
	n := NormalizeBD(raw)
	if len(n) > LocalLength {
		return n[:LocalLength]
	}
	return n
}

func extractDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
