package util

import (
	"reflect"
	"testing"
)

func TestSanitizeString(t *testing.T) {
	cases := map[string]string{
		"  padded  ":    "padded",
		"nul\x00inside": "nulinside",
		"multi\n\tline": "multiline",
		"café":          "café",
		"":              "",
	}
	for in, want := range cases {
		if got := SanitizeString(in); got != want {
			t.Errorf("SanitizeString(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeValue(t *testing.T) {
	tests := []struct {
		in, want any
	}{
		{"  a\x00b ", "ab"},
		{42, 42},
		{[]any{" x ", 1, []string{" nested"}}, []any{"x", 1, []string{"nested"}}},
		{[]string{" y", "z\n"}, []string{"y", "z"}},
		{map[string]any{"k": " v "}, map[string]any{"k": " v "}},
	}
	for _, tc := range tests {
		if got := SanitizeValue(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SanitizeValue(%#v) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeEnvValue(t *testing.T) {
	cases := map[string]string{
		`"quoted"`:      "quoted",
		`'single'`:      "single",
		`  " inner "  `: "inner",
		`"mismatched'`:  `"mismatched'`,
		`"`:             `"`,
		"bare":          "bare",
		"":              "",
		`"a,b"`:         "a,b",
	}
	for in, want := range cases {
		if got := SanitizeEnvValue(in); got != want {
			t.Errorf("SanitizeEnvValue(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsSafeString(t *testing.T) {
	safe := []string{"hello world", "user123", "user@example.com", "", "O-Ring"}
	unsafe := []string{
		"'; DROP TABLE users;",
		"1 UNION SELECT * FROM users",
		"admin--",
		"<script>alert(1)</script>",
		"javascript:alert(1)",
		"<img onerror=alert(1)>",
		"delete from users",
		"UPDATE users SET admin = 1",
	}
	for _, s := range safe {
		if !IsSafeString(s) {
			t.Errorf("expected %q to be safe", s)
		}
	}
	for _, s := range unsafe {
		if IsSafeString(s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}
