// Package slot defines the bookable time-of-day grid of the clinic.
//
// Two granularities coexist: patients self-book on the coarse standard list,
// while doctors close ranges on a 15-minute grid so an odd window can be
// blocked without over- or under-blocking.
package slot

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTime = errors.New("invalid time of day, expected HH:mm")

// StandardTimes is the fixed list offered for patient self-service booking,
// in scan order. The midday gap is intentional.
var StandardTimes = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"13:30", "14:00", "14:30", "15:00", "15:30", "16:00",
}

// PrioritySlots are reserved for the senior cohort until 12 hours before the
// slot moment.
var PrioritySlots = map[string]bool{
	"09:00": true,
	"09:30": true,
}

// FineStep is the quantization step used for doctor-defined schedule blocks.
const FineStep = 15 * time.Minute

// AfternoonStart and AfternoonEnd bound the emergency afternoon closure.
const (
	AfternoonStart = "13:00"
	AfternoonEnd   = "16:45"
)

// Parse converts an HH:mm string into an offset from midnight.
func Parse(timeOfDay string) (time.Duration, error) {
	if len(timeOfDay) != 5 || timeOfDay[2] != ':' {
		return 0, ErrInvalidTime
	}
	for _, i := range [...]int{0, 1, 3, 4} {
		if timeOfDay[i] < '0' || timeOfDay[i] > '9' {
			return 0, ErrInvalidTime
		}
	}
	h := int(timeOfDay[0]-'0')*10 + int(timeOfDay[1]-'0')
	m := int(timeOfDay[3]-'0')*10 + int(timeOfDay[4]-'0')
	if h > 23 || m > 59 {
		return 0, ErrInvalidTime
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

// Format renders an offset from midnight as HH:mm.
func Format(sinceMidnight time.Duration) string {
	h := int(sinceMidnight / time.Hour)
	m := int(sinceMidnight % time.Hour / time.Minute)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// At combines a calendar day with a time-of-day string into the exact moment
// of the slot. The date's own clock component is discarded.
func At(date time.Time, timeOfDay string) (time.Time, error) {
	offset, err := Parse(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return Midnight(date).Add(offset), nil
}

// ParseDate reads a YYYY-MM-DD request field as local midnight. All times in
// the system are wall-clock local; parsing into UTC would shift the combined
// slot moment against time.Now on any non-UTC server.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

// Midnight truncates a moment to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// QuantizeRange expands [start, end] into the ordered sequence of grid times
// stepping by step. Both boundaries are included: a range from 13:00 to 13:00
// yields exactly one slot.
func QuantizeRange(start, end string, step time.Duration) ([]string, error) {
	from, err := Parse(start)
	if err != nil {
		return nil, err
	}
	to, err := Parse(end)
	if err != nil {
		return nil, err
	}
	if step <= 0 {
		return nil, fmt.Errorf("quantization step must be positive, got %s", step)
	}

	var times []string
	for cur := from; cur <= to; cur += step {
		times = append(times, Format(cur))
	}
	return times, nil
}

// Afternoon returns the fine-grained slot list closed by the emergency block.
func Afternoon() []string {
	times, _ := QuantizeRange(AfternoonStart, AfternoonEnd, FineStep)
	return times
}
