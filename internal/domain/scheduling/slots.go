package scheduling

import (
	"fmt"
	"sort"
	"time"
)

// SlotMinutes is the fixed consultation length.
const SlotMinutes = 30

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

type interval struct {
	start, end int // minutes since midnight
}

func minutesOf(hhmm string) (int, bool) {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%2d:%2d", &h, &m); err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, false
	}
	return h*60 + m, true
}

func clockOf(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ValidClock reports whether s is a well-formed zero-padded HH:MM time.
func ValidClock(s string) bool {
	_, ok := minutesOf(s)
	return ok
}

// mergeDay collapses a day's rules into sorted non-overlapping intervals, so
// duplicate or overlapping rules never produce duplicate slots.
func mergeDay(rules []*Rule) []interval {
	var ivs []interval
	for _, r := range rules {
		start, okS := minutesOf(r.StartTime)
		end, okE := minutesOf(r.EndTime)
		if !okS || !okE || start >= end {
			continue
		}
		ivs = append(ivs, interval{start, end})
	}
	if len(ivs) == 0 {
		return nil
	}

	sort.Slice(ivs, func(i, j int) bool { return ivs[i].start < ivs[j].start })

	merged := ivs[:1]
	for _, iv := range ivs[1:] {
		last := &merged[len(merged)-1]
		if iv.start <= last.end {
			if iv.end > last.end {
				last.end = iv.end
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// SlotsForDate enumerates the open slot start times for one calendar date.
// Slots step every SlotMinutes from each interval start; the interval end is
// exclusive. Booked start times are skipped, and when date is today, so are
// slots already in the past. A date with no rules yields an empty list.
func SlotsForDate(rules []*Rule, date string, booked map[string]bool, now time.Time) []string {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return []string{}
	}
	weekday := int(day.Weekday())

	var dayRules []*Rule
	for _, r := range rules {
		if r.DayOfWeek == weekday {
			dayRules = append(dayRules, r)
		}
	}

	cutoff := -1
	if date == now.Format(DateLayout) {
		cutoff = now.Hour()*60 + now.Minute()
	}

	slots := []string{}
	for _, iv := range mergeDay(dayRules) {
		for t := iv.start; t+SlotMinutes <= iv.end; t += SlotMinutes {
			if t < cutoff {
				continue
			}
			s := clockOf(t)
			if booked[s] {
				continue
			}
			slots = append(slots, s)
		}
	}
	return slots
}
