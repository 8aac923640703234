package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	_  = iota // ignore first value
	KB = 1 << (10 * iota)
	MB
	GB
	TB
)

// FormatBytes formats b with a binary unit, avoiding .00 for whole numbers.
func FormatBytes(b int64) string {
	val := float64(b)
	var unit string

	switch {
	case b >= TB:
		val /= float64(TB)
		unit = "TB"
	case b >= GB:
		val /= float64(GB)
		unit = "GB"
	case b >= MB:
		val /= float64(MB)
		unit = "MB"
	case b >= KB:
		val /= float64(KB)
		unit = "KB"
	default:
		return fmt.Sprintf("%dB", b)
	}

	if val == float64(int(val)) {
		return fmt.Sprintf("%.0f%s", val, unit)
	}
	return fmt.Sprintf("%.2f%s", val, unit)
}

// ParseBytes parses sizes such as "512", "64KB", "1.5MB" or "4gb".
// An empty string means no limit and yields math.MaxUint64.
func ParseBytes(s string) (uint64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return math.MaxUint64, nil
	}

	mult := uint64(1)
	for _, u := range []struct {
		suffix string
		mult   uint64
	}{
		{"TB", TB}, {"GB", GB}, {"MB", MB}, {"KB", KB}, {"B", 1},
	} {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			mult = u.mult
			break
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}

	n := v * float64(mult)
	if n >= math.MaxUint64 {
		return math.MaxUint64, nil
	}
	return uint64(n), nil
}
