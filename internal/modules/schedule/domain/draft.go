package domain

import "sort"

const (
	dayStart        = 8 * 60
	dayEnd          = 18 * 60
	defaultBlock    = 60
	bufferMinutes   = 15
	maxFlexibleSlot = 8
)

// Draft lays items out without the model: fixed-time items keep their time,
// the rest fill the day from 08:00 in priority order with a buffer after each
// block. Items that do not fit before 18:00 are left out, as are fixed items
// that start at the end of the day.
func Draft(items []Item) []Entry {
	var fixed, flexible []Item
	for _, it := range items {
		if it.FixedStart >= 0 {
			fixed = append(fixed, it)
		} else {
			flexible = append(flexible, it)
		}
	}
	sort.SliceStable(fixed, func(i, j int) bool { return fixed[i].FixedStart < fixed[j].FixedStart })
	sort.SliceStable(flexible, func(i, j int) bool { return priorityRank(flexible[i].Priority) < priorityRank(flexible[j].Priority) })

	var entries []Entry
	busy := make([][2]int, 0, len(fixed))
	for _, it := range fixed {
		if it.FixedStart >= lastStart {
			continue
		}
		end := it.FixedStart + blockLength(it)
		entries = append(entries, Entry{Start: FormatClock(it.FixedStart), End: FormatClock(min(end, lastStart)), Task: it.Description, Reasoning: "fixed time", Energy: it.Energy})
		busy = append(busy, [2]int{it.FixedStart, end + bufferMinutes})
	}

	cursor := dayStart
	placed := 0
	for _, it := range flexible {
		if placed == maxFlexibleSlot {
			break
		}
		length := blockLength(it)
		start, ok := nextFree(cursor, length, busy)
		if !ok {
			break
		}
		entries = append(entries, Entry{Start: FormatClock(start), End: FormatClock(start + length), Task: it.Description, Reasoning: "next free slot", Energy: it.Energy})
		busy = append(busy, [2]int{start, start + length + bufferMinutes})
		cursor = start + length + bufferMinutes
		placed++
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].StartMinutes() < entries[j].StartMinutes() })
	return entries
}

func nextFree(from, length int, busy [][2]int) (int, bool) {
	start := from
	for moved := true; moved; {
		moved = false
		for _, b := range busy {
			if start < b[1] && start+length > b[0] {
				start = b[1]
				moved = true
			}
		}
	}
	return start, start+length <= dayEnd
}

func blockLength(it Item) int {
	if it.DurationMinutes > 0 {
		return it.DurationMinutes
	}
	return defaultBlock
}

func priorityRank(p string) int {
	switch p {
	case "high":
		return 0
	case "medium", "":
		return 1
	default:
		return 2
	}
}
