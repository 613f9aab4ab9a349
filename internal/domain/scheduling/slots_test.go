package scheduling

import (
	"reflect"
	"testing"
	"time"
)

// 2026-08-31 is a Monday.
const monday = "2026-08-31"

func mondayMorning(rules ...*Rule) []*Rule {
	if len(rules) > 0 {
		return rules
	}
	return []*Rule{{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"}}
}

func farFuture() time.Time {
	return time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
}

func TestSlotsForDate_EnumeratesHalfHourSteps(t *testing.T) {
	got := SlotsForDate(mondayMorning(), monday, nil, farFuture())
	want := []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSlotsForDate_EndIsExclusive(t *testing.T) {
	for _, s := range SlotsForDate(mondayMorning(), monday, nil, farFuture()) {
		if s >= "12:00" {
			t.Errorf("slot %s starts at or after the interval end", s)
		}
	}
}

func TestSlotsForDate_SkipsBooked(t *testing.T) {
	booked := map[string]bool{"10:00": true}
	got := SlotsForDate(mondayMorning(), monday, booked, farFuture())
	for _, s := range got {
		if s == "10:00" {
			t.Error("booked slot must not be offered")
		}
	}
	if len(got) != 5 {
		t.Errorf("expected 5 open slots, got %d", len(got))
	}
}

func TestSlotsForDate_FiltersPastOnToday(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 15, 0, 0, time.UTC)
	got := SlotsForDate(mondayMorning(), monday, nil, now)
	want := []string{"10:30", "11:00", "11:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSlotsForDate_NoPastFilterOnFutureDates(t *testing.T) {
	// Late in the evening, but the requested date is next Monday.
	now := time.Date(2026, 8, 24, 23, 0, 0, 0, time.UTC)
	got := SlotsForDate(mondayMorning(), monday, nil, now)
	if len(got) != 6 {
		t.Errorf("expected all 6 slots for a future date, got %d", len(got))
	}
}

func TestSlotsForDate_SlotAtExactlyNowIsKept(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC)
	got := SlotsForDate(mondayMorning(), monday, nil, now)
	if len(got) == 0 || got[0] != "09:30" {
		t.Errorf("slot starting exactly now must remain, got %v", got)
	}
}

func TestSlotsForDate_MergesOverlappingRules(t *testing.T) {
	rules := []*Rule{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "11:00"},
		{DayOfWeek: 1, StartTime: "10:00", EndTime: "12:00"},
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"}, // exact duplicate of the union
	}
	got := SlotsForDate(rules, monday, nil, farFuture())
	want := []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("overlapping rules must not duplicate slots: got %v", got)
	}
}

func TestSlotsForDate_DisjointRulesSameDay(t *testing.T) {
	rules := []*Rule{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"},
		{DayOfWeek: 1, StartTime: "14:00", EndTime: "15:00"},
	}
	got := SlotsForDate(rules, monday, nil, farFuture())
	want := []string{"09:00", "09:30", "14:00", "14:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSlotsForDate_NoRulesForWeekday(t *testing.T) {
	rules := []*Rule{{DayOfWeek: 2, StartTime: "09:00", EndTime: "12:00"}}
	got := SlotsForDate(rules, monday, nil, farFuture())
	if len(got) != 0 {
		t.Errorf("expected no slots on a day without rules, got %v", got)
	}
}

func TestSlotsForDate_ShortIntervalYieldsNothing(t *testing.T) {
	rules := []*Rule{{DayOfWeek: 1, StartTime: "09:00", EndTime: "09:15"}}
	if got := SlotsForDate(rules, monday, nil, farFuture()); len(got) != 0 {
		t.Errorf("a 15-minute window cannot hold a slot, got %v", got)
	}
}

func TestSlotsForDate_BadDate(t *testing.T) {
	if got := SlotsForDate(mondayMorning(), "31/08/2026", nil, farFuture()); len(got) != 0 {
		t.Errorf("expected empty list for malformed date, got %v", got)
	}
}

func TestValidClock(t *testing.T) {
	valid := []string{"00:00", "09:30", "23:59"}
	for _, s := range valid {
		if !ValidClock(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	invalid := []string{"24:00", "9:30", "09:60", "0930", "09:3", ""}
	for _, s := range invalid {
		if ValidClock(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}
