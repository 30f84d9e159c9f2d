package model

import "time"

// AppointmentKind distinguishes a genuine patient booking from a placeholder
// row a doctor materialized to lock a slot against new bookings. Both kinds
// share the same collection and the same (doctor_id, date, time_of_day)
// uniqueness key.
type AppointmentKind string

const (
	KindBooked  AppointmentKind = "booked"
	KindBlocked AppointmentKind = "blocked"
)

// Appointment occupies a single (doctor, date, time-of-day) cell.
//
// TimeOfDay is the sole source of truth for the booked time. Date carries the
// calendar day only (midnight-truncated); blocked placeholders in particular
// never encode a clock time in Date.
type Appointment struct {
	ID        string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	DoctorID  string          `json:"doctor_id" bson:"doctor_id" validate:"required,mongodb"`
	PatientID string          `json:"patient_id" bson:"patient_id" validate:"required"`
	Date      time.Time       `json:"date" bson:"date" validate:"required"`
	TimeOfDay string          `json:"time_of_day" bson:"time_of_day" validate:"required,time_of_day"`
	Kind      AppointmentKind `json:"kind" bson:"kind" validate:"required,oneof=booked blocked"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// IsBlock reports whether the row is a schedule lock rather than a booking.
func (a *Appointment) IsBlock() bool {
	return a.Kind == KindBlocked
}

// AppointmentDetail is the projection returned to patients listing their own
// appointments.
type AppointmentDetail struct {
	ID            string `json:"id"`
	DoctorName    string `json:"doctor_name"`
	SpecialtyName string `json:"specialty_name"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	IsPast        bool   `json:"is_past"`
}
