package errors

import "errors"

var (
	ErrDoctorNotFound = errors.New("doctor profile not found")

	ErrSpecialtyNotFound = errors.New("specialty not found")

	ErrInvalidID = errors.New("invalid ID format")

	// ErrSpecialtyInUse blocks deleting a specialty that still has doctors.
	ErrSpecialtyInUse = errors.New("specialty still has registered doctors")
)
