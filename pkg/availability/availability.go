// Package availability decides whether a slot can be booked at a given
// moment. It is deliberately free of storage and clock dependencies: callers
// pass the occupied set and the current time explicitly.
package availability

import (
	"time"

	"medbook/pkg/slot"
)

// SameDayLead is the minimum lead time for booking a slot on the current day.
const SameDayLead = time.Hour

// PriorityWindow is how long before the slot moment the reserved morning
// slots stay exclusive to the senior cohort. Inside the window they open to
// everyone so they do not sit unused.
const PriorityWindow = 12 * time.Hour

// IsBookable reports whether timeOfDay on date can be booked, given every
// occupied time of that doctor-day (bookings and locks alike), the current
// time, and whether the caller belongs to the senior cohort.
//
// The same-day lead rule and the priority-window rule are evaluated
// independently; neither takes precedence over the other.
func IsBookable(date time.Time, timeOfDay string, occupied map[string]bool, now time.Time, senior bool) bool {
	if occupied[timeOfDay] {
		return false
	}

	moment, err := slot.At(date, timeOfDay)
	if err != nil {
		return false
	}

	if slot.Midnight(date).Equal(slot.Midnight(now)) {
		if !moment.After(now.Add(SameDayLead)) {
			return false
		}
	}

	if slot.PrioritySlots[timeOfDay] && !senior {
		if moment.Sub(now) > PriorityWindow {
			return false
		}
	}

	return true
}

// OccupiedSet folds a list of time-of-day strings into the lookup shape
// IsBookable expects.
func OccupiedSet(times []string) map[string]bool {
	set := make(map[string]bool, len(times))
	for _, t := range times {
		set[t] = true
	}
	return set
}
