package util

import (
	"fmt"
	"strconv"
	"strings"
)

var sizeSuffixes = []struct {
	suffix     string
	multiplier int64
}{
	{"GB", 1024 * 1024 * 1024},
	{"MB", 1024 * 1024},
	{"KB", 1024},
	{"B", 1},
}

// ParseBytes parses a human-readable size string (e.g. "64MB", "512KB", "1024")
// into bytes. Negative and empty sizes are rejected.
func ParseBytes(s string) (int64, error) {
	raw := s
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	var multiplier int64 = 1
	for _, sfx := range sizeSuffixes {
		if strings.HasSuffix(s, sfx.suffix) {
			multiplier = sfx.multiplier
			s = strings.TrimSpace(strings.TrimSuffix(s, sfx.suffix))
			break
		}
	}

	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", raw, err)
	}
	if val < 0 {
		return 0, fmt.Errorf("invalid size %q: must not be negative", raw)
	}
	return val * multiplier, nil
}

// ParseSize is ParseBytes with a fallback: it returns defaultBytes if the
// string is empty or cannot be parsed.
func ParseSize(s string, defaultBytes int64) int64 {
	n, err := ParseBytes(s)
	if err != nil {
		return defaultBytes
	}
	return n
}
