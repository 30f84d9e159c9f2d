package model

import "time"

type Doctor struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FullName    string    `json:"full_name" bson:"full_name" validate:"required,min=2,max=100"`
	SpecialtyID string    `json:"specialty_id" bson:"specialty_id" validate:"required,mongodb"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type Specialty struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// SpecialtyWithDoctors is the directory listing shown on the booking screen.
type SpecialtyWithDoctors struct {
	Specialty `bson:",inline"`
	Doctors   []*Doctor `json:"doctors" bson:"doctors"`
}
