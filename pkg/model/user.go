package model

import "time"

const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// SeniorAge is the age threshold for the protected early-morning cohort.
const SeniorAge = 65

type User struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FullName  string    `json:"full_name" bson:"full_name" validate:"required,min=2,max=100"`
	Email     string    `json:"email" bson:"email" validate:"omitempty,email"`
	Phone     string    `json:"phone,omitempty" bson:"phone" validate:"omitempty,e164"`
	Role      string    `json:"role" bson:"role" validate:"required,oneof=admin doctor patient"`
	BirthYear int       `json:"birth_year" bson:"birth_year" validate:"omitempty,min=1900"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// IsSenior reports whether the user belongs to the protected cohort that may
// claim the reserved early-morning slots, evaluated against the given year.
func (u *User) IsSenior(year int) bool {
	if u.BirthYear == 0 {
		return false
	}
	return year-u.BirthYear >= SeniorAge
}
