package availability

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func at(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.Local)
}

func TestIsBookable_OccupiedSlotAlwaysRejected(t *testing.T) {
	now := at(2024, 1, 1, 8, 0)
	occupied := OccupiedSet([]string{"10:00"})

	if IsBookable(date(2024, 1, 2), "10:00", occupied, now, true) {
		t.Error("occupied slot must be rejected even for senior callers")
	}
	if !IsBookable(date(2024, 1, 2), "10:30", occupied, now, false) {
		t.Error("free slot next day should be bookable")
	}
}

func TestIsBookable_SameDayLead(t *testing.T) {
	now := at(2024, 1, 1, 10, 0)
	empty := map[string]bool{}

	tests := []struct {
		name      string
		timeOfDay string
		want      bool
	}{
		{"slot already passed", "10:00", false},
		{"slot exactly at lead boundary", "11:00", false},
		{"slot just past lead", "11:30", true},
		{"late afternoon", "15:30", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsBookable(date(2024, 1, 1), tt.timeOfDay, empty, now, false)
			if got != tt.want {
				t.Errorf("IsBookable(today %s) = %v, want %v", tt.timeOfDay, got, tt.want)
			}
		})
	}
}

func TestIsBookable_PriorityWindow(t *testing.T) {
	empty := map[string]bool{}

	// 25 hours ahead: reserved for seniors, open to them only.
	now := at(2024, 1, 1, 8, 0)
	if IsBookable(date(2024, 1, 2), "09:00", empty, now, false) {
		t.Error("09:00 more than 12h away must stay reserved for seniors")
	}
	if !IsBookable(date(2024, 1, 2), "09:00", empty, now, true) {
		t.Error("09:00 more than 12h away must be open to seniors")
	}

	// 11 hours ahead: window expired, open to everyone.
	now = at(2024, 1, 1, 22, 0)
	if !IsBookable(date(2024, 1, 2), "09:00", empty, now, false) {
		t.Error("09:00 within 12h must open to non-seniors")
	}
	if !IsBookable(date(2024, 1, 2), "09:00", empty, now, true) {
		t.Error("09:00 within 12h must stay open to seniors")
	}
}

func TestIsBookable_PriorityAppliesOnlyToReservedSlots(t *testing.T) {
	now := at(2024, 1, 1, 8, 0)
	empty := map[string]bool{}

	if !IsBookable(date(2024, 1, 2), "10:00", empty, now, false) {
		t.Error("10:00 is not a reserved slot and must not be held for seniors")
	}
	if IsBookable(date(2024, 1, 2), "09:30", empty, now, false) {
		t.Error("09:30 is the second reserved slot and must be held for seniors")
	}
}

func TestIsBookable_LeadAndPriorityEvaluateIndependently(t *testing.T) {
	// Same-day 09:00 seen at 08:30: inside the priority window (open to all)
	// but only 30 minutes out, so the 1-hour lead rejects it for everyone.
	now := at(2024, 1, 1, 8, 30)
	empty := map[string]bool{}

	if IsBookable(date(2024, 1, 1), "09:00", empty, now, true) {
		t.Error("senior caller is still subject to the same-day lead rule")
	}
	if IsBookable(date(2024, 1, 1), "09:00", empty, now, false) {
		t.Error("non-senior caller fails the lead rule regardless of the window")
	}
}

func TestIsBookable_MalformedTime(t *testing.T) {
	if IsBookable(date(2024, 1, 2), "9am", map[string]bool{}, at(2024, 1, 1, 8, 0), false) {
		t.Error("malformed time of day must never be bookable")
	}
}
