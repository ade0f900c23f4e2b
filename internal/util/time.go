package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// TimeProvider renders timestamps in the configured display timezone.
// Query ranges and buckets are always computed in UTC; only output is localized.
type TimeProvider struct {
	location *time.Location
	mu       sync.RWMutex
}

var (
	globalTimeProvider *TimeProvider
	mu                 sync.Mutex
)

// InitializeTimeProvider initializes the global time provider with the specified timezone
func InitializeTimeProvider(timezone string) error {
	mu.Lock()
	defer mu.Unlock()

	provider := &TimeProvider{}
	if err := provider.SetTimezone(timezone); err != nil {
		return err
	}

	globalTimeProvider = provider
	return nil
}

// GetTimeProvider returns the global time provider instance.
// If not initialized, it defaults to Local timezone.
func GetTimeProvider() *TimeProvider {
	mu.Lock()
	initialized := globalTimeProvider != nil
	mu.Unlock()
	if !initialized {
		_ = InitializeTimeProvider("Local")
	}
	return globalTimeProvider
}

// SetTimezone updates the timezone for the time provider
func (tp *TimeProvider) SetTimezone(timezone string) error {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	loc := time.Local
	if timezone != "" && timezone != "Local" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone '%s': %w\nValid examples: Local, UTC, America/New_York, Asia/Shanghai, Europe/London", timezone, err)
		}
		loc = l
	}
	tp.location = loc
	return nil
}

// Location returns the configured display location.
func (tp *TimeProvider) Location() *time.Location {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.location
}

// Now returns the current time in the configured timezone
func (tp *TimeProvider) Now() time.Time {
	return time.Now().In(tp.Location())
}

// Format formats a time according to the layout in the configured timezone
func (tp *TimeProvider) Format(t time.Time, layout string) string {
	return t.In(tp.Location()).Format(layout)
}

// FormatWindow renders a bucket window as "2006-01-02 15:04-16:04".
// The end date is repeated only when the window crosses midnight.
func (tp *TimeProvider) FormatWindow(start, end time.Time) string {
	s := start.In(tp.Location())
	e := end.In(tp.Location())
	if s.Format("2006-01-02") == e.Format("2006-01-02") {
		return fmt.Sprintf("%s-%s", s.Format("2006-01-02 15:04"), e.Format("15:04"))
	}
	return fmt.Sprintf("%s - %s", s.Format("2006-01-02 15:04"), e.Format("2006-01-02 15:04"))
}

var lookbackPattern = regexp.MustCompile(`^(\d+[hmdwy])+$`)
var lookbackPart = regexp.MustCompile(`(\d+)([hmdwy])`)

// ParseLookback parses durations like 12h, 7d, 2w3d or 1d12h.
// Units: h hours, d days, w weeks, m months (30 days), y years (365 days).
func ParseLookback(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if !lookbackPattern.MatchString(s) {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}

	var total time.Duration
	for _, match := range lookbackPart.FindAllStringSubmatch(s, -1) {
		value, err := strconv.Atoi(match[1])
		if err != nil {
			return 0, fmt.Errorf("invalid number in duration: %s", match[1])
		}

		switch match[2] {
		case "h":
			total += time.Duration(value) * time.Hour
		case "d":
			total += time.Duration(value) * 24 * time.Hour
		case "w":
			total += time.Duration(value) * 7 * 24 * time.Hour
		case "m":
			total += time.Duration(value) * 30 * 24 * time.Hour
		case "y":
			total += time.Duration(value) * 365 * 24 * time.Hour
		}
	}
	return total, nil
}

// ParseTimeArg accepts decimal epoch seconds, RFC3339, "2006-01-02 15:04" or
// "2006-01-02". Values without a zone are read in loc.
func ParseTimeArg(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q (use epoch seconds, RFC3339 or 2006-01-02 15:04)", s)
}
