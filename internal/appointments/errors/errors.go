package errors

import "errors"

var (
	ErrNotFound = errors.New("appointment not found")

	ErrInvalidID = errors.New("invalid appointment ID format")

	// ErrSlotTaken is returned when the (doctor, date, time_of_day)
	// uniqueness key is already occupied, by a booking or a lock alike.
	ErrSlotTaken = errors.New("appointment slot is already taken")
)
