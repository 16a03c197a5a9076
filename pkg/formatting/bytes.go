// Package formatting reads and prints the byte sizes used by upload limits
// and document metadata.
package formatting

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

var scale = []string{"B", "KB", "MB", "GB", "TB"}

// ParseBytes reads a size such as "50MB", "1.5 KB" or "4096". Units are
// base-1024 and case-insensitive. A bare number is a byte count.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	num, unit := s, ""
	if i := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	}); i >= 0 {
		num, unit = s[:i], strings.TrimSpace(s[i:])
	}
	if num == "" {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	exp := 0
	if unit != "" {
		if exp = slices.Index(scale, strings.ToUpper(unit)); exp < 0 {
			return 0, fmt.Errorf("unknown byte size unit: %q", unit)
		}
	}

	size := value * math.Pow(1024, float64(exp))
	if size >= math.MaxInt64 {
		return 0, fmt.Errorf("byte size out of range: %q", s)
	}
	return int64(size), nil
}

// FormatBytes prints n in the largest unit that keeps the value at or above
// one, with precision decimals. Counts under 1 KB print whole.
func FormatBytes(n int64, precision int) string {
	if n < 1024 {
		return strconv.FormatInt(n, 10) + " B"
	}

	size, exp := float64(n), 0
	for size >= 1024 && exp < len(scale)-1 {
		size /= 1024
		exp++
	}
	return strconv.FormatFloat(size, 'f', max(precision, 0), 64) + " " + scale[exp]
}
