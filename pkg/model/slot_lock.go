package model

import "time"

// SlotLock is an advisory lock serializing mutations of a single doctor-day.
// It prevents a patient from booking into a slot between the purge and the
// lock phase of a schedule block.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
