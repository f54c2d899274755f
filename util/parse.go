package util

import (
	"fmt"
	"strconv"
	"strings"
)

// sizeUnits is ordered so that longer suffixes are tried before "B".
var sizeUnits = []struct {
	suffix string
	bytes  int64
}{
	{"TB", 1 << 40},
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// ParseSizeStrict parses a size such as "512", "64KB" or "2 GB" into bytes.
// Units are binary and case-insensitive.
func ParseSizeStrict(s string) (int64, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	if norm == "" {
		return 0, fmt.Errorf("empty size")
	}
	num, mult := norm, int64(1)
	for _, u := range sizeUnits {
		if rest, ok := strings.CutSuffix(norm, u.suffix); ok {
			num, mult = strings.TrimSpace(rest), u.bytes
			break
		}
	}
	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil || n < 0 || n > (1<<63-1)/mult {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return n * mult, nil
}

// ParseSize is ParseSizeStrict with a fallback for unparsable input.
func ParseSize(s string, fallback int64) int64 {
	if n, err := ParseSizeStrict(s); err == nil {
		return n
	}
	return fallback
}

// ParseBool extends strconv.ParseBool with yes/no, y/n and on/off.
func ParseBool(s string) (bool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return strconv.ParseBool(s)
}
