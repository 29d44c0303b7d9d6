// Package field holds the formatting and validation rules shared by every
// screen and command that accepts person data: CPF and phone masks, accent
// folding for name search, and the minimum-length gates of a search filter.
//
// Everything here is pure. Malformed input degrades to the best partial
// result and never produces an error.
package field

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	cpfDigits   = 11
	phoneDigits = 11
)

// Digits returns only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// FormatCPF masks up to 11 digits as ###.###.###-##. Partial input gets a
// partial mask: "1234" becomes "123.4", "1234567890" becomes "123.456.789-0".
func FormatCPF(raw string) string {
	d := truncate(Digits(raw), cpfDigits)
	n := len(d)
	switch {
	case n <= 3:
		return d
	case n <= 6:
		return d[:3] + "." + d[3:]
	case n <= 9:
		return d[:3] + "." + d[3:6] + "." + d[6:]
	default:
		return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	}
}

// FormatPhone masks up to 11 digits. With 10 or more digits the result is
// (DD)XXXX-XXXX or (DD)XXXXX-XXXX; with 3 to 9 digits it is (DD)rest;
// shorter input is returned as bare digits.
func FormatPhone(raw string) string {
	d := truncate(Digits(raw), phoneDigits)
	n := len(d)
	switch {
	case n >= 10:
		return "(" + d[:2] + ")" + d[2:n-4] + "-" + d[n-4:]
	case n >= 3:
		return "(" + d[:2] + ")" + d[2:]
	default:
		return d
	}
}

// StripAccents removes combining marks: "João Conceição" becomes "Joao Conceicao".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeName folds accents, lower-cases and trims a name for matching.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(StripAccents(s)))
}

// TruncateWords keeps the first n words of s and appends "..." when
// anything was cut. Text with n words or fewer is returned unchanged.
func TruncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ") + "..."
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
