package domain

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

const MaxWeekDays = 14

var weekdayPattern = regexp.MustCompile(`(?i)\b(sunday|monday|tuesday|wednesday|thursday|friday|saturday)s?\b`)

// MentionedWeekday finds the first weekday named in a description.
func MentionedWeekday(description string) (time.Weekday, bool) {
	m := weekdayPattern.FindStringSubmatch(description)
	if m == nil {
		return 0, false
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), m[1]) {
			return d, true
		}
	}
	return 0, false
}

// Spread assigns items to consecutive days starting at start. An item naming
// a weekday in range goes to the first such day; other fixed-time items go
// to the first day; the rest are balanced by minutes, most important first,
// with ties going to the earlier day.
func Spread(items []Item, start time.Time, days int) [][]Item {
	plan := make([][]Item, days)
	load := make([]int, days)
	var flexible []Item
	for _, it := range items {
		if wd, ok := MentionedWeekday(it.Description); ok {
			if i := dayIndex(start, days, wd); i >= 0 {
				plan[i] = append(plan[i], it)
				load[i] += blockLength(it)
				continue
			}
		}
		if it.FixedStart >= 0 {
			plan[0] = append(plan[0], it)
			load[0] += blockLength(it)
			continue
		}
		flexible = append(flexible, it)
	}
	sort.SliceStable(flexible, func(i, j int) bool {
		return priorityRank(flexible[i].Priority) < priorityRank(flexible[j].Priority)
	})
	for _, it := range flexible {
		best := 0
		for i := 1; i < days; i++ {
			if load[i] < load[best] {
				best = i
			}
		}
		plan[best] = append(plan[best], it)
		load[best] += blockLength(it)
	}
	return plan
}

func dayIndex(start time.Time, days int, wd time.Weekday) int {
	for i := 0; i < days; i++ {
		if start.AddDate(0, 0, i).Weekday() == wd {
			return i
		}
	}
	return -1
}
