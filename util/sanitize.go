package util

import (
	"regexp"
	"strings"
	"unicode"
)

// unsafePattern matches fragments typical of SQL injection and script
// injection payloads.
var unsafePattern = regexp.MustCompile(`(?i)(--|;|'|"|<script|<\/script|javascript:|on\w+=|union\s+select|drop\s+table|insert\s+into|delete\s+from|update\s+.+\s+set)`)

// SanitizeString trims whitespace and removes control characters from s.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeValue applies SanitizeString to v when it is a string, and to
// every string element of a []any or []string. Other values are returned
// unchanged.
func SanitizeValue(v any) any {
	switch x := v.(type) {
	case string:
		return SanitizeString(x)
	case []string:
		return Map(x, SanitizeString)
	case []any:
		return Map(x, SanitizeValue)
	default:
		return v
	}
}

// SanitizeEnvValue trims s and removes one pair of matching single or
// double quotes around it, as written in .env files.
func SanitizeEnvValue(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range []string{`"`, "'"} {
		if len(s) >= 2 && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

// IsSafeString returns false if s contains patterns commonly associated with
// SQL injection or XSS attacks.
func IsSafeString(s string) bool {
	return !unsafePattern.MatchString(s)
}
