package util

import (
	"fmt"
	"time"
)

// FormatNumber renders n with thousands separators.
func FormatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if n < 0 {
		neg = true
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var result []byte
	for i, digit := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, digit)
	}
	if neg {
		return "-" + string(result)
	}
	return string(result)
}

func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatMinutes renders whole minutes the same way as FormatDuration.
func FormatMinutes(minutes int64) string {
	return FormatDuration(time.Duration(minutes) * time.Minute)
}

// FormatPercentage renders part/total as a percentage with one decimal.
func FormatPercentage(part, total int64) string {
	if total <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}
