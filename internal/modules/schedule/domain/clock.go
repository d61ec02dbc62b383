package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	clockPattern = regexp.MustCompile(`(?i)^\s*(\d{1,2})(?::(\d{2}))?\s*([ap])\.?\s*m?\.?\s*$`)
	plainClock   = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})\s*$`)
	// "at 10:15 AM", "by 5pm", "due at 14:30"
	fixedPattern = regexp.MustCompile(`(?i)(?:\b(?:due\s+)?(?:at|by)|@)\s*(\d{1,2}(?::\d{2})?(?:\s*[ap]\.?m\b\.?|\s*[ap]\b)?)`)
)

// ParseClock converts "14:30", "9:05", "9am" or "9:30 PM" to minutes after
// midnight.
func ParseClock(raw string) (int, bool) {
	if m := plainClock.FindStringSubmatch(raw); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		if h > 24 || min > 59 || (h == 24 && min != 0) {
			return 0, false
		}
		return h*60 + min, true
	}
	m := clockPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	min := 0
	if m[2] != "" {
		min, _ = strconv.Atoi(m[2])
	}
	if h < 1 || h > 12 || min > 59 {
		return 0, false
	}
	h %= 12
	if strings.EqualFold(m[3], "p") {
		h += 12
	}
	return h*60 + min, true
}

// lastStart is the first minute that can no longer begin a block.
const lastStart = 24 * 60

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ExtractFixedTime finds an explicit time of day in a task description.
// A bare number needs am/pm or a colon to count, and midnight at the end of
// the day ("24:00") is not a start time.
func ExtractFixedTime(description string) (int, bool) {
	for _, m := range fixedPattern.FindAllStringSubmatch(description, -1) {
		candidate := strings.TrimSpace(m[1])
		if !strings.Contains(candidate, ":") && !strings.ContainsAny(strings.ToLower(candidate), "ap") {
			continue
		}
		if minutes, ok := ParseClock(candidate); ok && minutes < lastStart {
			return minutes, true
		}
	}
	return 0, false
}
